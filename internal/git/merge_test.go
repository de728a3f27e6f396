package git

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

func TestFetchAndFFMergeLocalMain(t *testing.T) {
	ctx := context.Background()
	dir := newRepo(t)
	g := openRepo(t, dir)
	path, err := g.CreateWorktree(ctx, "feat", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	commitFile(t, dir, "main.txt", "m", "main moves")

	if err := g.FetchAndFFMerge(ctx, path, "main"); err != nil {
		t.Fatalf("merge: %v", err)
	}
	ahead, behind, err := g.AheadBehind(ctx, path, "main")
	if err != nil || ahead != 0 || behind != 0 {
		t.Fatalf("expected up to date, got %d/%d %v", ahead, behind, err)
	}
}

func TestFetchAndFFMergeDiverged(t *testing.T) {
	ctx := context.Background()
	dir := newRepo(t)
	g := openRepo(t, dir)
	path, err := g.CreateWorktree(ctx, "feat", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	commitFile(t, dir, "main.txt", "m", "main moves")
	commitFile(t, path, "feat.txt", "f", "feat moves")
	before := gitCmd(t, path, "rev-parse", "HEAD")

	err = g.FetchAndFFMerge(ctx, path, "main")
	if !errors.Is(err, ErrNotFastForward) {
		t.Fatalf("expected ErrNotFastForward, got %v", err)
	}
	if after := gitCmd(t, path, "rev-parse", "HEAD"); after != before {
		t.Fatalf("HEAD moved on failed merge: %s -> %s", before, after)
	}
}

func TestFetchAndFFMergeFromOrigin(t *testing.T) {
	ctx := context.Background()
	upstream := newRepo(t)
	clone := filepath.Join(filepath.Dir(upstream), "clone")
	gitCmd(t, filepath.Dir(upstream), "clone", "-q", upstream, clone)

	g := openRepo(t, clone)
	if !g.HasRemote(ctx, "origin") {
		t.Fatal("expected origin remote")
	}
	path, err := g.CreateWorktree(ctx, "feat", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	commitFile(t, upstream, "upstream.txt", "u", "upstream moves")

	if err := g.FetchAndFFMerge(ctx, path, "main"); err != nil {
		t.Fatalf("merge: %v", err)
	}
	if got := gitCmd(t, path, "log", "-1", "--format=%s"); strings.TrimSpace(got) != "upstream moves" {
		t.Fatalf("worktree not fast-forwarded, head is %q", got)
	}
}
