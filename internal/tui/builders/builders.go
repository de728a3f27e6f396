package builders

import (
	"github.com/charmbracelet/bubbles/list"

	"github.com/nicobailon/wtm/internal/workspace"
)

// ListItem is one worktree row of the main list.
type ListItem struct {
	Worktree workspace.Worktree
}

func (i ListItem) Title() string       { return i.Worktree.Name }
func (i ListItem) Description() string { return i.Worktree.Label() }
func (i ListItem) FilterValue() string { return i.Worktree.Name + " " + i.Worktree.Branch }

// BuildItems keeps snapshot order; the main worktree is already first.
func BuildItems(rows []workspace.Worktree) []list.Item {
	items := make([]list.Item, 0, len(rows))
	for _, wt := range rows {
		items = append(items, ListItem{Worktree: wt})
	}
	return items
}

// IndexOf returns the position of the worktree at path, or -1.
func IndexOf(items []list.Item, path string) int {
	for i, item := range items {
		if li, ok := item.(ListItem); ok && li.Worktree.Path == path {
			return i
		}
	}
	return -1
}
