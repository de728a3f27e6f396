package components

import (
	"fmt"
	"strings"

	"github.com/nicobailon/wtm/internal/tui/theme"
	"github.com/nicobailon/wtm/internal/workspace"
)

// Summary is the header block of the detail pane.
func Summary(wt workspace.Worktree) string {
	lines := []string{
		theme.TitleStyle.Render(wt.Name) + "  " + theme.BranchStyle.Render(wt.Label()),
		theme.DimStyle.Render(wt.Path),
	}
	var facts []string
	if wt.Head != "" {
		facts = append(facts, theme.SubTextStyle.Render(wt.Head))
	}
	if !wt.IsMain && wt.Err == nil && wt.Ahead >= 0 {
		facts = append(facts, AheadBehind(wt))
	}
	if wt.Dirty {
		facts = append(facts, theme.WarnStyle.Render(theme.IconDirty+" uncommitted changes"))
	}
	if wt.Progress != nil {
		facts = append(facts, Progress(wt.Progress.Done, wt.Progress.Total))
	}
	if wt.MergedReady {
		facts = append(facts, theme.ReadyBadgeStyle.Render("ready to merge"))
	}
	if len(facts) > 0 {
		lines = append(lines, strings.Join(facts, "  "))
	}
	if wt.Err != nil {
		lines = append(lines, theme.ErrorStyle.Render(theme.IconError+" "+wt.Err.Error()))
	}
	if wt.Purpose != "" {
		lines = append(lines, "", theme.SectionStyle.Render("Purpose"), theme.TextStyle.Render(wt.Purpose))
	}
	return strings.Join(lines, "\n")
}

func AheadBehind(wt workspace.Worktree) string {
	if wt.IsMain {
		return theme.DimStyle.Render("—")
	}
	if wt.Ahead < 0 || wt.Behind < 0 {
		return theme.DimStyle.Render("?")
	}
	return theme.SuccessStyle.Render(fmt.Sprintf("%s%d", theme.IconAhead, wt.Ahead)) + " " +
		theme.WarnStyle.Render(fmt.Sprintf("%s%d", theme.IconBehind, wt.Behind))
}

// Progress renders a checklist count as a small bar.
func Progress(done, total int) string {
	const width = 8
	filled := 0
	if total > 0 {
		filled = done * width / total
	}
	bar := theme.SuccessStyle.Render(strings.Repeat("█", filled)) +
		theme.SeparatorStyle.Render(strings.Repeat("░", width-filled))
	return bar + theme.SubTextStyle.Render(fmt.Sprintf(" %d/%d", done, total))
}

// Notes styles the notes file for display.
func Notes(content string) string {
	if strings.TrimSpace(content) == "" {
		return theme.DimStyle.Render("No notes file. Press the edit key to create one.")
	}
	var out []string
	for _, line := range strings.Split(strings.TrimRight(content, "\n"), "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "#"):
			out = append(out, theme.SectionStyle.Render(trimmed))
		case strings.HasPrefix(trimmed, "- [x]"), strings.HasPrefix(trimmed, "- [X]"):
			out = append(out, theme.SuccessStyle.Render("✓"+trimmed[5:]))
		case strings.HasPrefix(trimmed, "- [ ]"):
			out = append(out, theme.TextStyle.Render("○"+trimmed[5:]))
		case strings.HasPrefix(trimmed, "<!--"):
			out = append(out, theme.DimStyle.Render(trimmed))
		default:
			out = append(out, theme.TextStyle.Render(line))
		}
	}
	return strings.Join(out, "\n")
}

// GitStatus colours `git status --short` output.
func GitStatus(short string) string {
	if strings.TrimSpace(short) == "" {
		return theme.SuccessStyle.Render("Working tree clean")
	}
	var out []string
	for _, line := range strings.Split(strings.TrimRight(short, "\n"), "\n") {
		switch {
		case strings.HasPrefix(line, "??"):
			out = append(out, theme.DimStyle.Render(line))
		case len(line) > 0 && line[0] != ' ':
			out = append(out, theme.SuccessStyle.Render(line))
		default:
			out = append(out, theme.WarnStyle.Render(line))
		}
	}
	return strings.Join(out, "\n")
}
