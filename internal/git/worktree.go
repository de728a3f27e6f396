package git

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Entry is one record of `git worktree list --porcelain`.
type Entry struct {
	Path     string
	Head     string
	Branch   string
	Detached bool
	Bare     bool
	Locked   bool
	Prunable bool
}

func (g *Git) ListWorktrees(ctx context.Context) ([]Entry, error) {
	out, err := g.run(ctx, g.RepoRoot, "worktree", "list", "--porcelain")
	if err != nil {
		return nil, err
	}
	return ParseWorktreeList(out)
}

func ParseWorktreeList(out string) ([]Entry, error) {
	var entries []Entry
	var cur *Entry
	flush := func() {
		if cur != nil {
			entries = append(entries, *cur)
			cur = nil
		}
	}
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			flush()
			continue
		}
		key, val, _ := strings.Cut(line, " ")
		if key == "worktree" {
			flush()
			cur = &Entry{Path: val}
			continue
		}
		if cur == nil {
			return nil, fmt.Errorf("worktree list: record without path %q: %w", line, ErrUnexpectedOutput)
		}
		switch key {
		case "HEAD":
			cur.Head = val
		case "branch":
			cur.Branch = strings.TrimPrefix(val, "refs/heads/")
		case "detached":
			cur.Detached = true
		case "bare":
			cur.Bare = true
		case "locked":
			cur.Locked = true
		case "prunable":
			cur.Prunable = true
		}
	}
	flush()
	if len(entries) == 0 {
		return nil, fmt.Errorf("worktree list: no worktrees: %w", ErrUnexpectedOutput)
	}
	return entries, nil
}

// CreateWorktree checks out branch in a new worktree. A branch that only
// exists on origin is created tracking it. Otherwise a missing branch is
// created from baseRef (default: the main branch).
func (g *Git) CreateWorktree(ctx context.Context, branch, baseRef string) (string, error) {
	branch = strings.TrimSpace(branch)
	if branch == "" {
		return "", errors.New("branch name is required")
	}
	path := g.WorktreePath(branch)
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("%s: %w", path, ErrWorktreeExists)
	}

	var args []string
	if g.BranchExists(ctx, branch) {
		entries, err := g.ListWorktrees(ctx)
		if err != nil {
			return "", err
		}
		for _, e := range entries {
			if e.Branch == branch {
				return "", fmt.Errorf("%s in %s: %w", branch, e.Path, ErrBranchExists)
			}
		}
		args = []string{"worktree", "add", path, branch}
	} else if baseRef == "" && g.RemoteBranchExists(ctx, "origin", branch) {
		args = []string{"worktree", "add", "--track", "-b", branch, path, "origin/" + branch}
	} else {
		if baseRef == "" {
			baseRef = g.MainBranch(ctx, "")
		}
		args = []string{"worktree", "add", "-b", branch, path, baseRef}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	if _, err := g.run(ctx, g.RepoRoot, args...); err != nil {
		switch {
		case stderrContains(err, "already checked out", "already used by worktree", "a branch named"):
			return "", fmt.Errorf("%s: %w", branch, ErrBranchExists)
		case stderrContains(err, "already exists"):
			return "", fmt.Errorf("%s: %w", path, ErrWorktreeExists)
		}
		return "", err
	}
	return path, nil
}

// RemoveWorktree refuses a dirty worktree unless force is set.
func (g *Git) RemoveWorktree(ctx context.Context, path string, force bool) error {
	args := []string{"worktree", "remove"}
	if force {
		args = append(args, "--force")
	} else {
		dirty, err := g.IsDirty(ctx, path)
		if err != nil {
			return err
		}
		if dirty {
			return fmt.Errorf("%s: %w", path, ErrDirty)
		}
	}
	args = append(args, path)
	if _, err := g.run(ctx, g.RepoRoot, args...); err != nil {
		if stderrContains(err, "contains modified or untracked files") {
			return fmt.Errorf("%s: %w", path, ErrDirty)
		}
		return err
	}
	return nil
}
