package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"github.com/nicobailon/wtm/internal/shortcut"
)

type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Toggle key.Binding
	Quit   key.Binding
	// actions are the footer hints for configured builtins.
	actions []key.Binding
}

var footerKinds = []shortcut.BuiltinKind{
	shortcut.Cd, shortcut.Create, shortcut.Delete, shortcut.Edit,
	shortcut.MergeMain, shortcut.Refresh, shortcut.Help, shortcut.Quit,
}

func newKeyMap(reg *shortcut.Registry) keyMap {
	km := keyMap{
		Up:     key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "up")),
		Down:   key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "down")),
		Toggle: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "notes/status")),
		Quit:   key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
	for _, kind := range footerKinds {
		keys := reg.KeysFor(kind)
		if len(keys) == 0 {
			continue
		}
		km.actions = append(km.actions, key.NewBinding(
			key.WithKeys(keys...),
			key.WithHelp(strings.Join(keys, "/"), footerLabel(kind)),
		))
	}
	return km
}

func footerLabel(kind shortcut.BuiltinKind) string {
	switch kind {
	case shortcut.Cd:
		return "cd"
	case shortcut.Create:
		return "new"
	case shortcut.Delete:
		return "delete"
	case shortcut.Edit:
		return "notes"
	case shortcut.MergeMain:
		return "ff main"
	}
	return string(kind)
}

func (k keyMap) ShortHelp() []key.Binding {
	return append([]key.Binding{k.Down, k.Up, k.Toggle}, k.actions...)
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Down, k.Up, k.Toggle, k.Quit}, k.actions}
}
