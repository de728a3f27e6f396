package engine

import (
	"fmt"

	"github.com/nicobailon/wtm/internal/shell"
	"github.com/nicobailon/wtm/internal/workspace"
)

type Effect int

const (
	EffectNone Effect = iota
	EffectPromptCreate
	EffectConfirmDelete
	EffectToggleView
	EffectHelp
	EffectQuit
	// EffectHandoff asks the caller to run Outcome.Handoff in the foreground
	// and report back through Complete.
	EffectHandoff
)

type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelWarning
	LevelError
)

type Notice struct {
	Level   Level
	Message string
}

func noticef(level Level, format string, args ...any) *Notice {
	return &Notice{Level: level, Message: fmt.Sprintf(format, args...)}
}

type After int

const (
	AfterRefresh After = iota
	AfterEdit
	AfterInitScript
)

// Handoff is a foreground process that needs the terminal.
type Handoff struct {
	Request shell.Request
	After   After
	// Path is the worktree the process belongs to.
	Path string
}

// Outcome is the result of one engine call.
type Outcome struct {
	Effect   Effect
	Target   workspace.Worktree
	Handoff  *Handoff
	ExitPath string

	// Refreshed is set when Snapshot holds a newly built snapshot.
	Refreshed bool
	Snapshot  []workspace.Worktree

	Notice  *Notice
	Err     error
	Skipped bool
}

type Selection struct {
	Path string
}

func Selected(path string) Selection { return Selection{Path: path} }
