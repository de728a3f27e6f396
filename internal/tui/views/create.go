package views

import (
	"strings"

	"github.com/nicobailon/wtm/internal/tui/theme"
)

const divider = "────────────────────────────"

// RenderCreate draws the new-worktree prompt with branch suggestions.
// The first suggestion is the one tab accepts.
func RenderCreate(input string, suggestions []string, path string) string {
	var b strings.Builder
	b.WriteString(theme.SectionStyle.Render("Branch:"))
	b.WriteString("\n" + input + "\n")
	if path != "" {
		b.WriteString(theme.DimStyle.Render("→ " + path))
		b.WriteString("\n")
	}
	if len(suggestions) > 0 {
		b.WriteString("\n")
		for i, s := range suggestions {
			if i == 0 {
				b.WriteString(theme.KeyStyle.Render("tab ") + theme.TextStyle.Render(s))
			} else {
				b.WriteString("    " + theme.SubTextStyle.Render(s))
			}
			b.WriteString("\n")
		}
	}
	b.WriteString("\n" + theme.KeyStyle.Render("enter") + theme.DimStyle.Render(" create  ") +
		theme.KeyStyle.Render("esc") + theme.DimStyle.Render(" cancel"))
	return RenderPrompt("Create worktree", b.String())
}

func RenderPrompt(title, body string) string {
	header := theme.TitleStyle.Render("▲ " + title)
	sep := theme.SeparatorStyle.Render(divider)
	return theme.ModalStyle.Render(header + "\n" + sep + "\n\n" + body)
}
