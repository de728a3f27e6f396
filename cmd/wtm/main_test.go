package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/nicobailon/wtm/internal/notes"
	"github.com/nicobailon/wtm/internal/workspace"
)

func TestResolveWorktree(t *testing.T) {
	rows := []workspace.Worktree{
		{Path: "/src/repo", Name: "repo", Branch: "main", IsMain: true},
		{Path: "/src/repo-feature-x", Name: "repo-feature-x", Branch: "feature/x"},
	}
	for _, arg := range []string{"/src/repo-feature-x", "feature/x", "repo-feature-x"} {
		wt, ok := resolveWorktree(rows, arg)
		if !ok || wt.Path != "/src/repo-feature-x" {
			t.Errorf("resolveWorktree(%q) = %q, %t", arg, wt.Path, ok)
		}
	}
	if _, ok := resolveWorktree(rows, "nope"); ok {
		t.Error("resolved an unknown worktree")
	}
}

func TestListPorcelain(t *testing.T) {
	rows := []workspace.Worktree{
		{Path: "/src/repo", Branch: "main", IsMain: true},
		{Path: "/src/repo-a", Branch: "a", Ahead: 2, Dirty: true, Progress: &notes.Progress{Done: 1, Total: 3}},
		{Path: "/src/repo-b", Detached: true, MergedReady: true},
	}
	var buf bytes.Buffer
	if err := listPorcelainAction(&buf, rows); err != nil {
		t.Fatalf("list: %v", err)
	}
	want := "/src/repo\tmain\t0\t0\tfalse\t\t\tfalse\n" +
		"/src/repo-a\ta\t2\t0\ttrue\t1\t3\tfalse\n" +
		"/src/repo-b\t(detached)\t0\t0\tfalse\t\t\ttrue\n"
	if buf.String() != want {
		t.Fatalf("porcelain =\n%q\nwant\n%q", buf.String(), want)
	}
}

func TestListHumanShowsFlags(t *testing.T) {
	rows := []workspace.Worktree{
		{Path: "/src/repo", Name: "repo", Branch: "main", IsMain: true},
		{Path: "/src/repo-a", Name: "repo-a", Branch: "a", Ahead: 1, Dirty: true},
		{Path: "/src/repo-b", Name: "repo-b", Branch: "b", Err: errors.New("missing")},
	}
	var buf bytes.Buffer
	if err := listAction(&buf, rows); err != nil {
		t.Fatalf("list: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"● repo", "↑1 ↓0", "dirty", "error: missing"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestInitScripts(t *testing.T) {
	for _, sh := range []string{"bash", "zsh", "fish"} {
		var buf bytes.Buffer
		initCmd.SetOut(&buf)
		if err := initCmd.RunE(initCmd, []string{sh}); err != nil {
			t.Fatalf("init %s: %v", sh, err)
		}
		if !strings.Contains(buf.String(), "command wtm") {
			t.Errorf("%s wrapper does not call the binary:\n%s", sh, buf.String())
		}
	}
	if err := initCmd.RunE(initCmd, []string{"tcsh"}); err == nil {
		t.Error("tcsh accepted")
	}
}
