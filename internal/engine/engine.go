package engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nicobailon/wtm/internal/git"
	"github.com/nicobailon/wtm/internal/log"
	"github.com/nicobailon/wtm/internal/notes"
	"github.com/nicobailon/wtm/internal/shell"
	"github.com/nicobailon/wtm/internal/shortcut"
	"github.com/nicobailon/wtm/internal/workspace"
)

var (
	ErrMainWorktree = errors.New("the main worktree cannot be changed this way")
	ErrNotConfirmed = errors.New("not confirmed")
	ErrNoSelection  = errors.New("no worktree selected")
)

type Workspace interface {
	Build(ctx context.Context) ([]workspace.Worktree, error)
	CreateWorktree(ctx context.Context, branch, base string) (string, error)
	DeleteWorktree(ctx context.Context, path string, force bool) error
	MergeMain(ctx context.Context, path string) error
	MainBranch(ctx context.Context) string
}

type ProcessRunner interface {
	Foreground(req shell.Request) error
	Detach(req shell.Request) error
}

type Options struct {
	RepoRoot   string
	Editor     string
	NotesFile  string
	InitScript string
}

// Engine owns the current snapshot and turns key presses into effects.
// It is not safe for concurrent use.
type Engine struct {
	ws       Workspace
	registry *shortcut.Registry
	runner   ProcessRunner
	opts     Options
	snapshot []workspace.Worktree
}

func New(ws Workspace, reg *shortcut.Registry, runner ProcessRunner, opts Options) *Engine {
	if opts.Editor == "" {
		opts.Editor = "vim"
	}
	return &Engine{ws: ws, registry: reg, runner: runner, opts: opts}
}

func (e *Engine) Registry() *shortcut.Registry { return e.registry }

func (e *Engine) Snapshot() []workspace.Worktree { return e.snapshot }

// Refresh rebuilds the snapshot. On failure the previous one is kept.
func (e *Engine) Refresh(ctx context.Context) Outcome {
	var out Outcome
	e.refresh(ctx, &out)
	return out
}

func (e *Engine) refresh(ctx context.Context, out *Outcome) {
	rows, err := e.ws.Build(ctx)
	if err != nil {
		log.FromContext(ctx).Error("refresh: %v", err)
		if out.Err == nil {
			out.Err = err
		}
		if out.Notice == nil || out.Notice.Level < LevelWarning {
			out.Notice = noticef(LevelError, "refresh failed: %v", err)
		}
		return
	}
	e.snapshot = rows
	out.Snapshot = rows
	out.Refreshed = true
}

func (e *Engine) selected(sel Selection) (workspace.Worktree, bool) {
	if sel.Path == "" {
		return workspace.Worktree{}, false
	}
	return workspace.Find(e.snapshot, sel.Path)
}

func skipped(err error) Outcome {
	return Outcome{Skipped: true, Err: err, Notice: noticef(LevelWarning, "%v", err)}
}

func failed(err error) Outcome {
	return Outcome{Err: err, Notice: noticef(LevelError, "%v", err)}
}

// Dispatch resolves key and performs its action against sel. Unbound keys
// produce an empty Outcome.
func (e *Engine) Dispatch(ctx context.Context, key string, sel Selection) Outcome {
	action, ok := e.registry.Resolve(key)
	if !ok {
		return Outcome{}
	}
	log.FromContext(ctx).Debug("key %q -> %s", key, action.Describe())
	switch a := action.(type) {
	case shortcut.Builtin:
		return e.builtin(ctx, a.Kind, sel)
	case shortcut.Command:
		return e.command(a, sel)
	}
	return Outcome{}
}

func (e *Engine) builtin(ctx context.Context, kind shortcut.BuiltinKind, sel Selection) Outcome {
	switch kind {
	case shortcut.Create:
		return Outcome{Effect: EffectPromptCreate}
	case shortcut.ToggleView:
		return Outcome{Effect: EffectToggleView}
	case shortcut.Help:
		return Outcome{Effect: EffectHelp}
	case shortcut.Quit:
		return Outcome{Effect: EffectQuit}
	case shortcut.Refresh:
		return e.Refresh(ctx)
	}

	row, ok := e.selected(sel)
	if !ok {
		return skipped(ErrNoSelection)
	}
	switch kind {
	case shortcut.Cd:
		return Outcome{Effect: EffectQuit, ExitPath: row.Path, Target: row}
	case shortcut.Delete:
		if row.IsMain {
			return failed(ErrMainWorktree)
		}
		return Outcome{Effect: EffectConfirmDelete, Target: row}
	case shortcut.Edit:
		return e.edit(row)
	case shortcut.MergeMain:
		return e.mergeMain(ctx, row)
	}
	return Outcome{}
}

func (e *Engine) edit(row workspace.Worktree) Outcome {
	if row.Bare {
		return failed(fmt.Errorf("%s is a bare repository", row.Path))
	}
	path, _, err := notes.Ensure(row.Path, e.opts.NotesFile, row.Label())
	if err != nil {
		return failed(fmt.Errorf("prepare notes: %w", err))
	}
	req := shell.ShellRequest(e.opts.Editor+" "+shell.Quote(path), row.Path, shell.ModeReplace)
	return Outcome{
		Effect:  EffectHandoff,
		Target:  row,
		Handoff: &Handoff{Request: req, After: AfterEdit, Path: row.Path},
	}
}

func (e *Engine) mergeMain(ctx context.Context, row workspace.Worktree) Outcome {
	if row.IsMain || row.Bare {
		return failed(ErrMainWorktree)
	}
	mainBranch := e.ws.MainBranch(ctx)
	if err := e.ws.MergeMain(ctx, row.Path); err != nil {
		log.FromContext(ctx).Warn("merge %s into %s: %v", mainBranch, row.Path, err)
		switch {
		case errors.Is(err, git.ErrNotFastForward):
			return failed(fmt.Errorf("%s has diverged from %s; merge or rebase manually: %w", row.Label(), mainBranch, err))
		case errors.Is(err, git.ErrTimeout):
			return failed(fmt.Errorf("fetching %s timed out: %w", mainBranch, err))
		}
		return failed(err)
	}
	out := Outcome{Target: row, Notice: noticef(LevelSuccess, "fast-forwarded %s to %s", row.Label(), mainBranch)}
	e.refresh(ctx, &out)
	return out
}

func (e *Engine) command(c shortcut.Command, sel Selection) Outcome {
	row, ok := e.selected(sel)
	if !ok {
		return skipped(ErrNoSelection)
	}
	vars := shortcut.Vars{Path: row.Path, Branch: row.Branch, Repo: e.opts.RepoRoot}
	if row.Detached {
		vars.Branch = "detached"
	}
	expanded, ok := shortcut.Expand(c.Template, vars)
	if !ok {
		return skipped(fmt.Errorf("%q: placeholder has no value for %s", c.Template, row.Name))
	}
	req := shell.ShellRequest(expanded, row.Path, c.Mode)

	if c.Mode == shell.ModeDetach {
		if err := e.runner.Detach(req); err != nil {
			return failed(err)
		}
		return Outcome{Target: row, Notice: noticef(LevelInfo, "started %s", expanded)}
	}
	return Outcome{
		Effect:  EffectHandoff,
		Target:  row,
		Handoff: &Handoff{Request: req, After: AfterRefresh, Path: row.Path},
	}
}

// Create adds a worktree for branch. When the repository has an init
// script the returned Outcome carries a Handoff that runs it.
func (e *Engine) Create(ctx context.Context, branch, base string) Outcome {
	branch = strings.TrimSpace(branch)
	if branch == "" {
		return skipped(errors.New("branch name is required"))
	}
	path, err := e.ws.CreateWorktree(ctx, branch, strings.TrimSpace(base))
	if err != nil {
		return failed(fmt.Errorf("create %s: %w", branch, err))
	}
	log.FromContext(ctx).Info("created worktree %s for %s", path, branch)

	out := Outcome{Notice: noticef(LevelSuccess, "created %s", path)}
	e.refresh(ctx, &out)
	out.Target, _ = workspace.Find(e.snapshot, path)

	if script := e.initScript(); script != "" {
		out.Effect = EffectHandoff
		out.Handoff = &Handoff{
			Request: shell.Request{Name: "sh", Args: []string{script, path}, Dir: path, Mode: shell.ModeReplace},
			After:   AfterInitScript,
			Path:    path,
		}
	}
	return out
}

func (e *Engine) initScript() string {
	if e.opts.InitScript == "" || e.opts.RepoRoot == "" {
		return ""
	}
	script := e.opts.InitScript
	if !filepath.IsAbs(script) {
		script = filepath.Join(e.opts.RepoRoot, script)
	}
	if info, err := os.Stat(script); err != nil || info.IsDir() {
		return ""
	}
	return script
}

type Confirm struct {
	Confirmed bool
	Force     bool
}

// Delete removes the worktree at path once the user has confirmed. A dirty
// worktree is only removed with Force.
func (e *Engine) Delete(ctx context.Context, path string, c Confirm) Outcome {
	if !c.Confirmed {
		return Outcome{Skipped: true, Err: ErrNotConfirmed, Notice: noticef(LevelInfo, "delete cancelled")}
	}
	row, ok := workspace.Find(e.snapshot, path)
	if !ok {
		return failed(fmt.Errorf("%s is not a known worktree", path))
	}
	if row.IsMain {
		return failed(ErrMainWorktree)
	}
	if err := e.ws.DeleteWorktree(ctx, path, c.Force); err != nil {
		if errors.Is(err, git.ErrDirty) {
			return Outcome{
				Target: row,
				Err:    err,
				Notice: noticef(LevelWarning, "%s has uncommitted changes; confirm again to force", row.Name),
			}
		}
		return failed(fmt.Errorf("delete %s: %w", row.Name, err))
	}
	log.FromContext(ctx).Info("removed worktree %s (force=%t)", path, c.Force)

	out := Outcome{Target: row, Notice: noticef(LevelSuccess, "deleted %s", row.Name)}
	e.refresh(ctx, &out)
	return out
}

// Complete records the result of a Handoff run by the caller and
// refreshes the snapshot.
func (e *Engine) Complete(ctx context.Context, h *Handoff, runErr error) Outcome {
	var out Outcome
	if runErr != nil {
		var pe *shell.ProcessError
		if !errors.As(runErr, &pe) {
			runErr = shell.WrapExit(h.Request, runErr)
		}
		out.Err = runErr
		log.FromContext(ctx).Warn("%s: %v", h.Request, runErr)
	}

	switch h.After {
	case AfterInitScript:
		if runErr != nil {
			out.Notice = noticef(LevelWarning, "init script failed (%v); worktree kept", runErr)
		} else {
			out.Notice = noticef(LevelSuccess, "created %s", h.Path)
		}
	default:
		if runErr != nil {
			out.Notice = noticef(LevelError, "%v", runErr)
		}
	}
	e.refresh(ctx, &out)
	out.Target, _ = workspace.Find(e.snapshot, h.Path)
	return out
}

// RunHandoff runs h in the current terminal and completes it.
func (e *Engine) RunHandoff(ctx context.Context, h *Handoff) Outcome {
	return e.Complete(ctx, h, e.runner.Foreground(h.Request))
}
