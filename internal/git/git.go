package git

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/nicobailon/wtm/internal/log"
	"github.com/nicobailon/wtm/internal/shell"
)

const (
	DefaultTimeout      = 15 * time.Second
	DefaultFetchTimeout = 30 * time.Second
)

type Git struct {
	RepoRoot     string
	Cmd          shell.Commander
	Timeout      time.Duration
	FetchTimeout time.Duration
	// PathPattern is "sibling" or "subdirectory".
	PathPattern string
	Log         *log.Logger

	refsOnce sync.Once
	refs     *RefReader
}

// New returns an adapter for repoRoot that shells out to the git binary
// with terminal prompts disabled.
func New(repoRoot string) *Git {
	return &Git{
		RepoRoot:     repoRoot,
		Cmd:          &shell.ExecCommander{Env: []string{"GIT_TERMINAL_PROMPT=0"}},
		Timeout:      DefaultTimeout,
		FetchTimeout: DefaultFetchTimeout,
	}
}

// Open locates the repository containing dir. RepoRoot is set to the main
// worktree even when dir is inside a linked one.
func Open(ctx context.Context, dir string, cmd shell.Commander) (*Git, error) {
	g := New("")
	if cmd != nil {
		g.Cmd = cmd
	}
	out, err := g.run(ctx, dir, "rev-parse", "--show-toplevel")
	if err != nil {
		if errors.Is(err, ErrTimeout) {
			return nil, err
		}
		return nil, fmt.Errorf("%s: %w", dir, ErrNotARepository)
	}
	g.RepoRoot = strings.TrimSpace(out)
	if entries, err := g.ListWorktrees(ctx); err == nil && len(entries) > 0 && !entries[0].Bare {
		g.RepoRoot = entries[0].Path
	}
	return g, nil
}

func (g *Git) logger(ctx context.Context) *log.Logger {
	if g.Log != nil {
		return g.Log
	}
	return log.FromContext(ctx)
}

func (g *Git) run(ctx context.Context, dir string, args ...string) (string, error) {
	return g.runTimeout(ctx, g.Timeout, dir, args...)
}

func (g *Git) runTimeout(ctx context.Context, timeout time.Duration, dir string, args ...string) (string, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	if dir == "" {
		dir = g.RepoRoot
	}
	full := append([]string{"-C", dir}, args...)
	l := g.logger(ctx)
	l.Command("git", full...)

	res, err := g.Cmd.Run(ctx, dir, "git", full...)
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		l.Warn("git %s timed out after %s", strings.Join(args, " "), timeout)
		return "", fmt.Errorf("git %s: %w", strings.Join(args, " "), ErrTimeout)
	}
	if err != nil {
		return string(res.Stdout), &CommandError{Args: args, Stderr: string(res.Stderr), Err: err}
	}
	return string(res.Stdout), nil
}

// WorktreePath is where a new worktree for branch is placed.
func (g *Git) WorktreePath(branch string) string {
	repo := g.RepoRoot
	name := strings.ReplaceAll(branch, "/", "-")
	switch g.PathPattern {
	case "subdirectory":
		return filepath.Join(repo, ".worktrees", name)
	default:
		return filepath.Join(filepath.Dir(repo), filepath.Base(repo)+"-"+name)
	}
}
