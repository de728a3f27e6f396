package views

import (
	"github.com/nicobailon/wtm/internal/tui/theme"
	"github.com/nicobailon/wtm/internal/workspace"
)

// RenderConfirmDelete asks before removing wt. force is set once git has
// refused because of local changes.
func RenderConfirmDelete(wt workspace.Worktree, force bool) string {
	body := theme.TextStyle.Render("Remove ") + theme.TitleStyle.Render(wt.Name) +
		theme.TextStyle.Render(" ("+wt.Label()+")?") + "\n" +
		theme.DimStyle.Render(wt.Path) + "\n"
	switch {
	case force:
		body += "\n" + theme.ErrorStyle.Render("Uncommitted changes will be lost. Press y again to force.") + "\n"
	case wt.Dirty:
		body += "\n" + theme.WarnStyle.Render("This worktree has uncommitted changes.") + "\n"
	}
	body += "\n" + theme.KeyStyle.Render("y") + theme.DimStyle.Render(" delete  ") +
		theme.KeyStyle.Render("n/esc") + theme.DimStyle.Render(" cancel")
	return RenderPrompt("Delete worktree", body)
}
