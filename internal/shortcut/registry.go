package shortcut

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/nicobailon/wtm/internal/shell"
)

var ErrInvalidAction = errors.New("invalid shortcut")

type InvalidActionError struct {
	Key    string
	Detail string
}

func (e *InvalidActionError) Error() string {
	return fmt.Sprintf("shortcut %q: %s", e.Key, e.Detail)
}

func (e *InvalidActionError) Unwrap() error { return ErrInvalidAction }

// Binding is a shortcut as written in the config file.
type Binding struct {
	Key    string
	Action string
	Cmd    string
	Mode   string
}

type Entry struct {
	Key    string
	Action Action
}

type Registry struct {
	actions  map[string]Action
	warnings []string
}

// Defaults are the built-in bindings. ide opens a worktree in the editor
// of choice.
func Defaults(ide string) []Binding {
	if ide == "" {
		ide = "code"
	}
	return []Binding{
		{Key: "n", Action: string(Create)},
		{Key: "d", Action: string(Delete)},
		{Key: "e", Action: string(Edit)},
		{Key: "m", Action: string(MergeMain)},
		{Key: "t", Action: string(ToggleView)},
		{Key: "r", Action: string(Refresh)},
		{Key: "?", Action: string(Help)},
		{Key: "q", Action: string(Quit)},
		{Key: "enter", Action: string(Cd)},
		{Key: "g", Cmd: "lazygit", Mode: string(shell.ModeReplace)},
		{Key: "c", Cmd: ide + " $path", Mode: string(shell.ModeDetach)},
	}
}

// Load builds a registry from defaults and then overrides, last write wins.
// The first invalid entry aborts loading.
func Load(defaults, overrides []Binding) (*Registry, error) {
	r := &Registry{actions: map[string]Action{}}
	for _, b := range defaults {
		key, action, err := compile(b)
		if err != nil {
			return nil, err
		}
		r.actions[key] = action
	}
	seen := map[string]string{}
	for _, b := range overrides {
		key, action, err := compile(b)
		if err != nil {
			return nil, err
		}
		if prev, ok := seen[key]; ok {
			r.warnings = append(r.warnings,
				fmt.Sprintf("shortcut %q is also bound as %q; using the later binding", b.Key, prev))
		}
		seen[key] = b.Key
		r.actions[key] = action
	}
	return r, nil
}

func compile(b Binding) (string, Action, error) {
	key, err := NormalizeKey(b.Key)
	if err != nil {
		return "", nil, &InvalidActionError{Key: b.Key, Detail: err.Error()}
	}
	if reserved[key] {
		return "", nil, &InvalidActionError{Key: b.Key, Detail: "key is reserved for navigation"}
	}
	hasAction := strings.TrimSpace(b.Action) != ""
	hasCmd := strings.TrimSpace(b.Cmd) != ""
	switch {
	case hasAction && hasCmd:
		return "", nil, &InvalidActionError{Key: b.Key, Detail: "set either action or cmd, not both"}
	case hasAction:
		kind, ok := ParseBuiltin(strings.TrimSpace(b.Action))
		if !ok {
			return "", nil, &InvalidActionError{Key: b.Key, Detail: fmt.Sprintf("unknown action %q", b.Action)}
		}
		return key, Builtin{Kind: kind}, nil
	case hasCmd:
		mode := shell.Mode(strings.TrimSpace(b.Mode))
		if mode == "" {
			mode = shell.ModeReplace
		}
		if !mode.Valid() {
			return "", nil, &InvalidActionError{Key: b.Key, Detail: fmt.Sprintf("unknown mode %q (want replace or detach)", b.Mode)}
		}
		return key, Command{Template: strings.TrimSpace(b.Cmd), Mode: mode}, nil
	}
	return "", nil, &InvalidActionError{Key: b.Key, Detail: "missing action or cmd"}
}

func (r *Registry) Resolve(key string) (Action, bool) {
	norm, err := NormalizeKey(key)
	if err != nil {
		return nil, false
	}
	a, ok := r.actions[norm]
	return a, ok
}

// Bindings lists every bound key, sorted for display.
func (r *Registry) Bindings() []Entry {
	out := make([]Entry, 0, len(r.actions))
	for k, a := range r.actions {
		out = append(out, Entry{Key: k, Action: a})
	}
	sort.Slice(out, func(i, j int) bool {
		_, bi := out[i].Action.(Builtin)
		_, bj := out[j].Action.(Builtin)
		if bi != bj {
			return bi
		}
		return out[i].Key < out[j].Key
	})
	return out
}

// KeysFor returns the keys bound to a builtin, sorted.
func (r *Registry) KeysFor(kind BuiltinKind) []string {
	var keys []string
	for k, a := range r.actions {
		if b, ok := a.(Builtin); ok && b.Kind == kind {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

func (r *Registry) Warnings() []string {
	return r.warnings
}

var reserved = map[string]bool{
	"j": true, "k": true, "up": true, "down": true, "tab": true, "ctrl+c": true,
}

var namedKeys = map[string]bool{
	"enter": true, "esc": true, "space": true, "backspace": true, "delete": true,
	"insert": true, "home": true, "end": true, "pgup": true, "pgdown": true,
	"up": true, "down": true, "left": true, "right": true, "tab": true, "shift+tab": true,
	"f1": true, "f2": true, "f3": true, "f4": true, "f5": true, "f6": true,
	"f7": true, "f8": true, "f9": true, "f10": true, "f11": true, "f12": true,
}

var keyAliases = map[string]string{
	"return":   "enter",
	"escape":   "esc",
	"del":      "delete",
	"pageup":   "pgup",
	"pagedown": "pgdown",
}

// NormalizeKey maps a key token to its canonical form. Single characters
// are kept as is; named keys and modifier combinations are lower-cased.
func NormalizeKey(key string) (string, error) {
	if key == " " {
		return "space", nil
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return "", errors.New("empty key")
	}
	if utf8.RuneCountInString(key) == 1 {
		return key, nil
	}
	lower := strings.ToLower(key)
	if alias, ok := keyAliases[lower]; ok {
		lower = alias
	}
	if namedKeys[lower] {
		return lower, nil
	}
	for _, mod := range []string{"ctrl+", "alt+"} {
		if !strings.HasPrefix(lower, mod) {
			continue
		}
		rest := key[len(mod):]
		if utf8.RuneCountInString(rest) == 1 {
			if mod == "ctrl+" {
				return mod + strings.ToLower(rest), nil
			}
			return mod + rest, nil
		}
		if inner, err := NormalizeKey(rest); err == nil {
			return mod + inner, nil
		}
	}
	return "", fmt.Errorf("unrecognised key %q", key)
}
