package git

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nicobailon/wtm/internal/shell"
)

func TestAheadBehindAndDirty(t *testing.T) {
	ctx := context.Background()
	dir := newRepo(t)
	g := openRepo(t, dir)
	path, err := g.CreateWorktree(ctx, "feat", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	commitFile(t, path, "a.txt", "a", "feat 1")
	commitFile(t, path, "b.txt", "b", "feat 2")
	commitFile(t, dir, "c.txt", "c", "main 1")

	ahead, behind, err := g.AheadBehind(ctx, path, "main")
	if err != nil {
		t.Fatalf("ahead/behind: %v", err)
	}
	if ahead != 2 || behind != 1 {
		t.Fatalf("expected 2 ahead 1 behind, got %d/%d", ahead, behind)
	}

	dirty, err := g.IsDirty(ctx, path)
	if err != nil || dirty {
		t.Fatalf("expected clean, got %v %v", dirty, err)
	}
	if err := os.WriteFile(filepath.Join(path, "untracked"), nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	dirty, err = g.IsDirty(ctx, path)
	if err != nil || !dirty {
		t.Fatalf("expected dirty, got %v %v", dirty, err)
	}
	short, err := g.StatusShort(ctx, path)
	if err != nil || !strings.Contains(short, "?? untracked") {
		t.Fatalf("status short mismatch: %q %v", short, err)
	}
}

type fakeCommander struct {
	stdout string
	stderr string
	err    error
	block  bool
	calls  [][]string
}

func (f *fakeCommander) Run(ctx context.Context, dir, name string, args ...string) (shell.Result, error) {
	f.calls = append(f.calls, args)
	if f.block {
		<-ctx.Done()
		return shell.Result{}, ctx.Err()
	}
	return shell.Result{Stdout: []byte(f.stdout), Stderr: []byte(f.stderr)}, f.err
}

func TestAheadBehindMalformed(t *testing.T) {
	g := &Git{RepoRoot: "/nowhere", Cmd: &fakeCommander{stdout: "garbage\n"}}
	_, _, err := g.AheadBehind(context.Background(), "/nowhere", "main")
	if !errors.Is(err, ErrUnexpectedOutput) {
		t.Fatalf("expected ErrUnexpectedOutput, got %v", err)
	}
}

func TestRunTimeout(t *testing.T) {
	g := &Git{RepoRoot: "/nowhere", Cmd: &fakeCommander{block: true}, Timeout: 20 * time.Millisecond}
	_, err := g.IsDirty(context.Background(), "/nowhere")
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
}

func TestCommandErrorCarriesStderr(t *testing.T) {
	fc := &fakeCommander{stderr: "fatal: boom\n", err: errors.New("exit status 128")}
	g := &Git{RepoRoot: "/nowhere", Cmd: fc}
	_, err := g.StatusShort(context.Background(), "/elsewhere")
	var ce *CommandError
	if !errors.As(err, &ce) {
		t.Fatalf("expected CommandError, got %v", err)
	}
	if ce.Stderr != "fatal: boom\n" || !strings.Contains(ce.Error(), "fatal: boom") {
		t.Fatalf("unexpected error: %v", ce)
	}
	if got := fc.calls[0][:2]; got[0] != "-C" || got[1] != "/elsewhere" {
		t.Fatalf("expected -C dir, got %v", fc.calls[0])
	}
}
