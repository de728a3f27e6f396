package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nicobailon/wtm/internal/shell"
	"github.com/nicobailon/wtm/internal/shortcut"
	"github.com/nicobailon/wtm/internal/tui/theme"
)

func renderHelp(reg *shortcut.Registry) string {
	helpLine := func(key, desc string) string {
		k := lipgloss.NewStyle().
			Foreground(theme.BaseBg).
			Background(theme.Teal).
			Bold(true).
			Padding(0, 1).
			Width(10).
			Render(key)
		d := lipgloss.NewStyle().Foreground(theme.TextColor).Render("  " + desc)
		return k + d
	}

	sectionHeader := func(title string) string {
		return lipgloss.NewStyle().
			Foreground(theme.Accent).
			Bold(true).
			MarginTop(1).
			Render(" " + title + " ")
	}

	lines := []string{
		theme.Logo + theme.DimStyle.Render(" help"),
		sectionHeader("Navigation"),
		helpLine("j / ↓", "move down"),
		helpLine("k / ↑", "move up"),
		helpLine("tab", "switch notes / git status"),
		helpLine("ctrl+c", "quit"),
	}

	var actions, commands []string
	for _, e := range reg.Bindings() {
		switch a := e.Action.(type) {
		case shortcut.Builtin:
			actions = append(actions, helpLine(e.Key, a.Describe()))
		case shortcut.Command:
			desc := a.Template
			if a.Mode == shell.ModeDetach {
				desc += theme.DimStyle.Render("  (background)")
			}
			commands = append(commands, helpLine(e.Key, desc))
		}
	}
	lines = append(lines, sectionHeader("Actions"))
	lines = append(lines, actions...)
	if len(commands) > 0 {
		lines = append(lines, sectionHeader("Commands"))
		lines = append(lines, commands...)
	}
	lines = append(lines, "", theme.DimStyle.Render("press any key to close"))
	return theme.ModalStyle.Render(strings.Join(lines, "\n"))
}
