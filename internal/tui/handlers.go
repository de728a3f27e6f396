package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"

	"github.com/nicobailon/wtm/internal/engine"
	"github.com/nicobailon/wtm/internal/shortcut"
)

const maxSuggestions = 6

var timeNow = time.Now

// handleList ignores everything but ctrl+c while an action is running.
func handleList(m *model, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return *m, tea.Quit
	}
	if m.busy {
		return *m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Down):
		m.move(1)
		m.detailContent, m.detailErr = "", nil
		m.renderDetail()
		return *m, m.loadDetail()
	case key.Matches(msg, m.keys.Up):
		m.move(-1)
		m.detailContent, m.detailErr = "", nil
		m.renderDetail()
		return *m, m.loadDetail()
	case key.Matches(msg, m.keys.Toggle):
		m.toggleDetail()
		return *m, m.loadDetail()
	}

	k, err := shortcut.NormalizeKey(msg.String())
	if err != nil {
		return *m, nil
	}
	if _, ok := m.deps.Engine.Registry().Resolve(k); !ok {
		return *m, nil
	}
	m.busy = true
	return *m, tea.Batch(
		dispatchCmd(m.ctx, m.deps.Engine, k, engine.Selected(m.selectedPath())),
		m.spinner.Tick,
	)
}

func handleCreate(m *model, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.state = stateList
		m.create.input.Blur()
		return *m, nil
	case "tab":
		if len(m.create.suggestions) > 0 {
			m.create.input.SetValue(m.create.suggestions[0])
			m.create.input.CursorEnd()
			m.updateSuggestions()
		}
		return *m, nil
	case "enter":
		branch := strings.TrimSpace(m.create.input.Value())
		if branch == "" || m.busy {
			return *m, nil
		}
		m.state = stateList
		m.create.input.Blur()
		m.busy = true
		return *m, tea.Batch(createCmd(m.ctx, m.deps.Engine, branch), m.spinner.Tick)
	case "ctrl+c":
		return *m, tea.Quit
	}
	var cmd tea.Cmd
	m.create.input, cmd = m.create.input.Update(msg)
	m.updateSuggestions()
	return *m, cmd
}

func (m *model) updateSuggestions() {
	query := strings.TrimSpace(m.create.input.Value())
	branches := m.create.branches
	if query == "" {
		m.create.suggestions = branches[:min(len(branches), maxSuggestions)]
		return
	}
	matches := fuzzy.Find(query, branches)
	out := make([]string, 0, maxSuggestions)
	for _, match := range matches {
		if match.Str == query {
			continue
		}
		out = append(out, match.Str)
		if len(out) == maxSuggestions {
			break
		}
	}
	m.create.suggestions = out
}

func handleConfirmDelete(m *model, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.busy {
		return *m, nil
	}
	path := m.pending.target.Path
	switch msg.String() {
	case "y", "Y", "enter":
		m.busy = true
		c := engine.Confirm{Confirmed: true, Force: m.pending.force}
		return *m, tea.Batch(deleteCmd(m.ctx, m.deps.Engine, path, c), m.spinner.Tick)
	case "n", "N", "esc", "q":
		m.busy = true
		return *m, deleteCmd(m.ctx, m.deps.Engine, path, engine.Confirm{})
	case "ctrl+c":
		return *m, tea.Quit
	}
	return *m, nil
}
