package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nicobailon/wtm/internal/tui/builders"
	"github.com/nicobailon/wtm/internal/tui/components"
	"github.com/nicobailon/wtm/internal/tui/theme"
)

type itemDelegate struct {
	listWidth int
}

func newItemDelegate(width int) itemDelegate {
	return itemDelegate{listWidth: width}
}

func (d itemDelegate) Height() int                             { return 2 }
func (d itemDelegate) Spacing() int                            { return 0 }
func (d itemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	i, ok := item.(builders.ListItem)
	if !ok {
		return
	}
	wt := i.Worktree
	selected := index == m.Index()
	width := d.listWidth - 4
	if width < 20 {
		width = 20
	}

	accent := theme.Lavender
	icon := theme.IconWorktree
	switch {
	case wt.Err != nil:
		accent = theme.ErrorColor
	case wt.IsMain:
		accent = theme.Accent
		icon = theme.IconMain
	case wt.Dirty:
		accent = theme.Peach
	}

	bar := "  "
	name := theme.TextStyle.Render(icon + " " + wt.Name)
	if selected {
		bar = lipgloss.NewStyle().Foreground(accent).Bold(true).Render(theme.IconCursor + " ")
		name = theme.SelectedStyle.Render(icon + " " + wt.Name)
	}

	var marks []string
	marks = append(marks, components.AheadBehind(wt))
	if wt.Dirty {
		marks = append(marks, lipgloss.NewStyle().Foreground(theme.Peach).Render(theme.IconDirty))
	}
	if wt.Progress != nil {
		marks = append(marks, theme.SubTextStyle.Render(fmt.Sprintf("%d/%d", wt.Progress.Done, wt.Progress.Total)))
	}
	if wt.MergedReady {
		marks = append(marks, theme.SuccessStyle.Render(theme.IconReady))
	}
	if wt.Err != nil {
		marks = append(marks, theme.ErrorStyle.Render(theme.IconError))
	}

	branch := lipgloss.NewStyle().Foreground(theme.Lavender).Render(wt.Label())
	if !selected {
		branch = theme.BranchStyle.Render(wt.Label())
	}

	clip := lipgloss.NewStyle().MaxWidth(width)
	line1 := clip.Render(bar + name + "  " + strings.Join(marks, " "))
	line2 := clip.Render("    " + branch)
	fmt.Fprint(w, line1+"\n"+line2)
}
