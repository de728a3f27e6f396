package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nicobailon/wtm/internal/engine"
	"github.com/nicobailon/wtm/internal/notes"
	"github.com/nicobailon/wtm/internal/shell"
)

func refreshCmd(ctx context.Context, e *engine.Engine) tea.Cmd {
	return func() tea.Msg {
		return outcomeMsg{out: e.Refresh(ctx)}
	}
}

func dispatchCmd(ctx context.Context, e *engine.Engine, key string, sel engine.Selection) tea.Cmd {
	return func() tea.Msg {
		return outcomeMsg{out: e.Dispatch(ctx, key, sel)}
	}
}

func createCmd(ctx context.Context, e *engine.Engine, branch string) tea.Cmd {
	return func() tea.Msg {
		return outcomeMsg{out: e.Create(ctx, branch, "")}
	}
}

func deleteCmd(ctx context.Context, e *engine.Engine, path string, c engine.Confirm) tea.Cmd {
	return func() tea.Msg {
		return outcomeMsg{out: e.Delete(ctx, path, c), deleting: true}
	}
}

func completeCmd(ctx context.Context, e *engine.Engine, h *engine.Handoff, err error) tea.Cmd {
	return func() tea.Msg {
		return outcomeMsg{out: e.Complete(ctx, h, err)}
	}
}

// handoffCmd suspends the program and gives the terminal to the process.
func handoffCmd(r *shell.Runner, h *engine.Handoff) tea.Cmd {
	return tea.ExecProcess(r.Command(h.Request), func(err error) tea.Msg {
		return handoffDoneMsg{handoff: h, err: err}
	})
}

func branchesCmd(ctx context.Context, g GitInfo) tea.Cmd {
	return func() tea.Msg {
		branches, err := g.Branches(ctx)
		return branchesMsg{branches: branches, err: err}
	}
}

func detailCmd(ctx context.Context, g GitInfo, notesFile, path string, mode detailMode) tea.Cmd {
	return func() tea.Msg {
		msg := detailMsg{path: path, mode: mode}
		switch mode {
		case detailStatus:
			msg.content, msg.err = g.StatusShort(ctx, path)
		default:
			if st := notes.Read(path, notesFile); st != nil {
				msg.content = st.Content
			}
		}
		return msg
	}
}
