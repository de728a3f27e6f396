package git

import (
	"context"
	"fmt"
)

// FetchAndFFMerge brings the worktree at path up to date with mainBranch
// using a fast-forward only merge. With an origin remote the branch is
// fetched first and a failed fetch stops before merging.
func (g *Git) FetchAndFFMerge(ctx context.Context, path, mainBranch string) error {
	target := mainBranch
	if g.HasRemote(ctx, "origin") {
		if _, err := g.runTimeout(ctx, g.FetchTimeout, path, "fetch", "origin", mainBranch); err != nil {
			return fmt.Errorf("fetch origin %s: %w", mainBranch, err)
		}
		target = "origin/" + mainBranch
	}
	if _, err := g.run(ctx, path, "merge", "--ff-only", target); err != nil {
		if stderrContains(err, "not possible to fast-forward", "diverging branches") {
			return fmt.Errorf("merge %s: %w", target, ErrNotFastForward)
		}
		return err
	}
	return nil
}
