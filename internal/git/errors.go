package git

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotARepository   = errors.New("not a git repository")
	ErrTimeout          = errors.New("git command timed out")
	ErrUnexpectedOutput = errors.New("unexpected git output")
	ErrDirty            = errors.New("worktree has uncommitted changes")
	ErrNotFastForward   = errors.New("not possible to fast-forward")
	ErrBranchExists     = errors.New("branch is already checked out")
	ErrWorktreeExists   = errors.New("worktree path already exists")
)

// CommandError is a git invocation that exited unsuccessfully.
type CommandError struct {
	Args   []string
	Stderr string
	Err    error
}

func (e *CommandError) Error() string {
	msg := strings.TrimSpace(e.Stderr)
	if msg == "" {
		msg = e.Err.Error()
	}
	return fmt.Sprintf("git %s: %s", strings.Join(e.Args, " "), msg)
}

func (e *CommandError) Unwrap() error { return e.Err }

func stderrContains(err error, needles ...string) bool {
	var ce *CommandError
	if !errors.As(err, &ce) {
		return false
	}
	s := strings.ToLower(ce.Stderr)
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
