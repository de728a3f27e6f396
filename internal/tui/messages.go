package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nicobailon/wtm/internal/engine"
)

type toastType int

const (
	toastSuccess toastType = iota
	toastError
	toastWarning
	toastInfo
)

const toastDuration = 3 * time.Second

type toast struct {
	message   string
	kind      toastType
	expiresAt time.Time
}

func newToast(n *engine.Notice) *toast {
	kind := toastInfo
	switch n.Level {
	case engine.LevelSuccess:
		kind = toastSuccess
	case engine.LevelWarning:
		kind = toastWarning
	case engine.LevelError:
		kind = toastError
	}
	d := toastDuration
	if kind == toastError || kind == toastWarning {
		d *= 2
	}
	return &toast{message: n.Message, kind: kind, expiresAt: time.Now().Add(d)}
}

func (t *toast) expired() bool {
	return time.Now().After(t.expiresAt)
}

func (t *toast) render(styles toastStyles) string {
	var style lipgloss.Style
	var icon string

	switch t.kind {
	case toastSuccess:
		style = styles.success
		icon = "✓ "
	case toastError:
		style = styles.error
		icon = "✗ "
	case toastWarning:
		style = styles.warning
		icon = "! "
	case toastInfo:
		style = styles.info
		icon = "• "
	}

	return style.Render(icon + t.message)
}

type toastStyles struct {
	success lipgloss.Style
	error   lipgloss.Style
	warning lipgloss.Style
	info    lipgloss.Style
}

type toastExpiredMsg struct{}

func toastExpireCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return toastExpiredMsg{}
	})
}

// outcomeMsg carries the result of an engine call.
type outcomeMsg struct {
	out engine.Outcome
	// deleting marks outcomes of a delete confirmation.
	deleting bool
}

type handoffDoneMsg struct {
	handoff *engine.Handoff
	err     error
}

type branchesMsg struct {
	branches []string
	err      error
}

type detailMsg struct {
	path    string
	mode    detailMode
	content string
	err     error
}
