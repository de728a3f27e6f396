package shortcut

import (
	"github.com/nicobailon/wtm/internal/shell"
)

type BuiltinKind string

const (
	Create     BuiltinKind = "create"
	Delete     BuiltinKind = "delete"
	Edit       BuiltinKind = "edit"
	MergeMain  BuiltinKind = "merge_main"
	ToggleView BuiltinKind = "toggle_view"
	Refresh    BuiltinKind = "refresh"
	Help       BuiltinKind = "help"
	Quit       BuiltinKind = "quit"
	Cd         BuiltinKind = "cd"
)

var builtinKinds = []BuiltinKind{Create, Delete, Edit, MergeMain, ToggleView, Refresh, Help, Quit, Cd}

func ParseBuiltin(s string) (BuiltinKind, bool) {
	for _, k := range builtinKinds {
		if string(k) == s {
			return k, true
		}
	}
	return "", false
}

// Action is what a key resolves to: a Builtin or a Command.
type Action interface {
	Describe() string
	action()
}

type Builtin struct {
	Kind BuiltinKind
}

func (b Builtin) Describe() string {
	switch b.Kind {
	case Create:
		return "create worktree"
	case Delete:
		return "delete worktree"
	case Edit:
		return "edit notes"
	case MergeMain:
		return "fast-forward from main"
	case ToggleView:
		return "toggle notes / git status"
	case Refresh:
		return "refresh"
	case Help:
		return "help"
	case Quit:
		return "quit"
	case Cd:
		return "cd into worktree"
	}
	return string(b.Kind)
}

func (Builtin) action() {}

type Command struct {
	Template string
	Mode     shell.Mode
}

func (c Command) Describe() string {
	if c.Mode == shell.ModeDetach {
		return c.Template + " (detach)"
	}
	return c.Template
}

func (Command) action() {}
