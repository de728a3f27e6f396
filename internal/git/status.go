package git

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// AheadBehind counts commits on HEAD of path that are not on mainBranch and
// the reverse.
func (g *Git) AheadBehind(ctx context.Context, path, mainBranch string) (ahead, behind int, err error) {
	out, err := g.run(ctx, path, "rev-list", "--left-right", "--count", mainBranch+"...HEAD")
	if err != nil {
		return -1, -1, err
	}
	fields := strings.Fields(out)
	if len(fields) != 2 {
		return -1, -1, fmt.Errorf("rev-list %q: %w", strings.TrimSpace(out), ErrUnexpectedOutput)
	}
	behind, err1 := strconv.Atoi(fields[0])
	ahead, err2 := strconv.Atoi(fields[1])
	if err1 != nil || err2 != nil {
		return -1, -1, fmt.Errorf("rev-list %q: %w", strings.TrimSpace(out), ErrUnexpectedOutput)
	}
	return ahead, behind, nil
}

// IsDirty reports staged, unstaged or untracked changes.
func (g *Git) IsDirty(ctx context.Context, path string) (bool, error) {
	out, err := g.run(ctx, path, "status", "--porcelain")
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(out) != "", nil
}

func (g *Git) StatusShort(ctx context.Context, path string) (string, error) {
	return g.run(ctx, path, "status", "--short")
}
