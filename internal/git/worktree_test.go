package git

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestParseWorktreeList(t *testing.T) {
	out := `worktree /src/repo
HEAD 1111111111111111111111111111111111111111
branch refs/heads/main

worktree /src/repo-feat-a
HEAD 2222222222222222222222222222222222222222
branch refs/heads/feat/a
locked

worktree /src/repo-detached
HEAD 3333333333333333333333333333333333333333
detached
prunable gitdir file points to non-existent location
`
	entries, err := ParseWorktreeList(out)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if entries[0].Path != "/src/repo" || entries[0].Branch != "main" {
		t.Fatalf("main entry mismatch: %+v", entries[0])
	}
	if entries[1].Branch != "feat/a" || !entries[1].Locked {
		t.Fatalf("feature entry mismatch: %+v", entries[1])
	}
	if !entries[2].Detached || entries[2].Branch != "" || !entries[2].Prunable {
		t.Fatalf("detached entry mismatch: %+v", entries[2])
	}
}

func TestParseWorktreeListBare(t *testing.T) {
	entries, err := ParseWorktreeList("worktree /src/repo.git\nbare\n\nworktree /src/wt\nHEAD abc\nbranch refs/heads/x\n")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !entries[0].Bare || entries[1].Branch != "x" {
		t.Fatalf("unexpected entries: %+v", entries)
	}
}

func TestParseWorktreeListUnexpected(t *testing.T) {
	for _, out := range []string{"", "\n\n", "HEAD abc\nworktree /x\n"} {
		if _, err := ParseWorktreeList(out); !errors.Is(err, ErrUnexpectedOutput) {
			t.Fatalf("%q: expected ErrUnexpectedOutput, got %v", out, err)
		}
	}
}

func TestOpenNotARepository(t *testing.T) {
	isolateGit(t)
	_, err := Open(context.Background(), t.TempDir(), nil)
	if !errors.Is(err, ErrNotARepository) {
		t.Fatalf("expected ErrNotARepository, got %v", err)
	}
}

func TestOpenFromLinkedWorktreeUsesMainRoot(t *testing.T) {
	dir := newRepo(t)
	g := openRepo(t, dir)
	path, err := g.CreateWorktree(context.Background(), "feat-a", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	linked := openRepo(t, path)
	if linked.RepoRoot != dir {
		t.Fatalf("repo root mismatch: %s", linked.RepoRoot)
	}
}

func TestWorktreePathPatterns(t *testing.T) {
	g := &Git{RepoRoot: "/home/user/repo", PathPattern: "sibling"}
	if got := g.WorktreePath("feature/login"); got != "/home/user/repo-feature-login" {
		t.Fatalf("sibling pattern mismatch: %s", got)
	}
	g.PathPattern = "subdirectory"
	if got := g.WorktreePath("feature"); got != "/home/user/repo/.worktrees/feature" {
		t.Fatalf("subdirectory pattern mismatch: %s", got)
	}
}

func TestCreateListRemove(t *testing.T) {
	ctx := context.Background()
	dir := newRepo(t)
	g := openRepo(t, dir)

	path, err := g.CreateWorktree(ctx, "feat/a", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if path != filepath.Join(filepath.Dir(dir), "repo-feat-a") {
		t.Fatalf("unexpected path %s", path)
	}

	entries, err := g.ListWorktrees(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 2 || entries[0].Path != dir || entries[1].Branch != "feat/a" {
		t.Fatalf("unexpected entries: %+v", entries)
	}

	if err := g.RemoveWorktree(ctx, path, false); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("worktree still on disk: %v", err)
	}
}

func TestCreateWorktreeExistingBranch(t *testing.T) {
	ctx := context.Background()
	dir := newRepo(t)
	gitCmd(t, dir, "branch", "existing")
	g := openRepo(t, dir)

	path, err := g.CreateWorktree(ctx, "existing", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if got := gitCmd(t, path, "branch", "--show-current"); got != "existing\n" {
		t.Fatalf("unexpected branch %q", got)
	}
}

func TestCreateWorktreeBranchCheckedOut(t *testing.T) {
	dir := newRepo(t)
	g := openRepo(t, dir)
	g.PathPattern = "subdirectory"
	_, err := g.CreateWorktree(context.Background(), "main", "")
	if !errors.Is(err, ErrBranchExists) {
		t.Fatalf("expected ErrBranchExists, got %v", err)
	}
}

func TestCreateWorktreePathExists(t *testing.T) {
	dir := newRepo(t)
	g := openRepo(t, dir)
	if err := os.MkdirAll(g.WorktreePath("taken"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	_, err := g.CreateWorktree(context.Background(), "taken", "")
	if !errors.Is(err, ErrWorktreeExists) {
		t.Fatalf("expected ErrWorktreeExists, got %v", err)
	}
}

func TestRemoveDirtyWorktree(t *testing.T) {
	ctx := context.Background()
	dir := newRepo(t)
	g := openRepo(t, dir)
	path, err := g.CreateWorktree(ctx, "dirty", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := os.WriteFile(filepath.Join(path, "scratch.txt"), []byte("wip"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if err := g.RemoveWorktree(ctx, path, false); !errors.Is(err, ErrDirty) {
		t.Fatalf("expected ErrDirty, got %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("dirty worktree removed without force: %v", err)
	}
	if err := g.RemoveWorktree(ctx, path, true); err != nil {
		t.Fatalf("forced remove: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("worktree still on disk after force: %v", err)
	}
}

func TestCreateWorktreeFromRemoteBranch(t *testing.T) {
	ctx := context.Background()
	upstream := newRepo(t)
	gitCmd(t, upstream, "checkout", "-q", "-b", "feature-x")
	commitFile(t, upstream, "feature.txt", "x\n", "feature work")
	gitCmd(t, upstream, "checkout", "-q", "main")

	clone := filepath.Join(filepath.Dir(upstream), "clone")
	gitCmd(t, filepath.Dir(upstream), "clone", "-q", upstream, clone)
	g := openRepo(t, clone)

	if g.BranchExists(ctx, "feature-x") {
		t.Fatal("feature-x should only exist on origin")
	}
	if !g.RemoteBranchExists(ctx, "origin", "feature-x") {
		t.Fatal("origin/feature-x not found")
	}

	path, err := g.CreateWorktree(ctx, "feature-x", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	head := gitCmd(t, path, "rev-parse", "HEAD")
	remote := gitCmd(t, clone, "rev-parse", "origin/feature-x")
	if head != remote {
		t.Fatalf("worktree HEAD %s, want origin/feature-x %s", head, remote)
	}
	if got := gitCmd(t, path, "rev-parse", "--abbrev-ref", "@{upstream}"); got != "origin/feature-x\n" {
		t.Fatalf("upstream = %q", got)
	}
	if _, err := os.Stat(filepath.Join(path, "feature.txt")); err != nil {
		t.Fatalf("remote work missing: %v", err)
	}
}
