package shell

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestExecCommanderCapturesOutput(t *testing.T) {
	c := &ExecCommander{Env: []string{"WTM_TEST_VALUE=42"}}
	res, err := c.Run(context.Background(), t.TempDir(), "sh", "-c", "echo out; echo err >&2; echo $WTM_TEST_VALUE")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := string(res.Stdout); got != "out\n42\n" {
		t.Fatalf("stdout mismatch: %q", got)
	}
	if got := string(res.Stderr); got != "err\n" {
		t.Fatalf("stderr mismatch: %q", got)
	}
}

func TestForegroundExitStatus(t *testing.T) {
	var out bytes.Buffer
	r := &Runner{Stdin: strings.NewReader(""), Stdout: &out, Stderr: &out}

	if err := r.Foreground(ShellRequest("echo hi", t.TempDir(), ModeReplace)); err != nil {
		t.Fatalf("foreground: %v", err)
	}
	if out.String() != "hi\n" {
		t.Fatalf("output mismatch: %q", out.String())
	}

	err := r.Foreground(ShellRequest("exit 3", t.TempDir(), ModeReplace))
	var pe *ProcessError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ProcessError, got %v", err)
	}
	if pe.ExitCode != 3 || pe.Command != "exit 3" {
		t.Fatalf("unexpected process error: %+v", pe)
	}
}

func TestDetachReturnsBeforeChildFinishes(t *testing.T) {
	dir := t.TempDir()
	marker := filepath.Join(dir, "done")
	r := NewRunner()

	start := time.Now()
	if err := r.Detach(ShellRequest("sleep 0.2; touch done", dir, ModeDetach)); err != nil {
		t.Fatalf("detach: %v", err)
	}
	if time.Since(start) > 150*time.Millisecond {
		t.Fatal("detach waited for the child")
	}

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if _, err := os.Stat(marker); err == nil {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("detached process never ran")
}

func TestDetachSpawnFailure(t *testing.T) {
	r := NewRunner()
	err := r.Detach(Request{Name: "wtm-no-such-binary", Dir: t.TempDir(), Mode: ModeDetach})
	var pe *ProcessError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ProcessError, got %v", err)
	}
}

func TestQuote(t *testing.T) {
	cases := map[string]string{
		"plain":      "'plain'",
		"with space": "'with space'",
		"it's":       `'it'\''s'`,
		"":           "''",
	}
	for in, want := range cases {
		if got := Quote(in); got != want {
			t.Fatalf("Quote(%q) = %q, want %q", in, got, want)
		}
	}
}
