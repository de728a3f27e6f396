package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nicobailon/wtm/internal/engine"
	"github.com/nicobailon/wtm/internal/git"
	"github.com/nicobailon/wtm/internal/shell"
	"github.com/nicobailon/wtm/internal/tui/builders"
	"github.com/nicobailon/wtm/internal/tui/components"
	"github.com/nicobailon/wtm/internal/tui/theme"
	"github.com/nicobailon/wtm/internal/tui/views"
	"github.com/nicobailon/wtm/internal/workspace"
)

type viewState int

const (
	stateList viewState = iota
	stateCreate
	stateConfirmDelete
	stateHelp
)

type detailMode int

const (
	detailNotes detailMode = iota
	detailStatus
)

// GitInfo is the read-only git access the views need.
type GitInfo interface {
	Branches(ctx context.Context) ([]string, error)
	StatusShort(ctx context.Context, path string) (string, error)
}

type Deps struct {
	Engine *engine.Engine
	Git    GitInfo
	Runner *shell.Runner
}

type Options struct {
	// Output is where the program draws; nil means stdout.
	Output    io.Writer
	RepoName  string
	NotesFile string
	// Warnings are shown once at startup.
	Warnings []string
}

type createPrompt struct {
	input       textinput.Model
	branches    []string
	suggestions []string
}

type pendingDelete struct {
	target workspace.Worktree
	force  bool
}

type model struct {
	ctx  context.Context
	deps Deps
	opts Options
	keys keyMap

	rows  []workspace.Worktree
	list  list.Model
	state viewState

	detail        detailMode
	detailView    viewport.Model
	detailContent string
	detailErr     error

	create  createPrompt
	pending pendingDelete

	help    help.Model
	spinner spinner.Model
	busy    bool
	loading bool

	width    int
	height   int
	toast    *toast
	exitPath string
}

type App struct {
	deps Deps
	opts Options
}

func New(deps Deps, opts Options) *App {
	return &App{deps: deps, opts: opts}
}

// Run starts the interactive session and returns the path chosen with the
// cd action, or "" when the user quit.
func (a *App) Run(ctx context.Context) (string, error) {
	m := initialModel(ctx, a.deps, a.opts)
	progOpts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}
	if a.opts.Output != nil {
		progOpts = append(progOpts, tea.WithOutput(a.opts.Output))
	}
	final, err := tea.NewProgram(m, progOpts...).Run()
	if err != nil {
		return "", err
	}
	if fm, ok := final.(model); ok {
		return fm.exitPath, nil
	}
	return "", nil
}

func initialModel(ctx context.Context, deps Deps, opts Options) model {
	l := list.New([]list.Item{}, newItemDelegate(50), 0, 0)
	l.DisableQuitKeybindings()
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowPagination(false)
	l.SetStatusBarItemName("worktree", "worktrees")
	l.InfiniteScrolling = true

	ti := textinput.New()
	ti.Placeholder = "feature/branch-name"
	ti.CharLimit = 200
	ti.Prompt = "› "

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Accent)

	h := help.New()
	h.Styles.ShortKey = theme.KeyStyle
	h.Styles.ShortDesc = theme.DimStyle
	h.Styles.ShortSeparator = theme.SeparatorStyle

	m := model{
		ctx:        ctx,
		deps:       deps,
		opts:       opts,
		keys:       newKeyMap(deps.Engine.Registry()),
		list:       l,
		create:     createPrompt{input: ti},
		help:       h,
		spinner:    sp,
		detailView: viewport.New(0, 0),
		loading:    true,
		busy:       true,
	}
	if len(opts.Warnings) > 0 {
		m.toast = newToast(&engine.Notice{Level: engine.LevelWarning, Message: strings.Join(opts.Warnings, "; ")})
	}
	return m
}

func (m model) Init() tea.Cmd {
	cmds := []tea.Cmd{refreshCmd(m.ctx, m.deps.Engine), m.spinner.Tick}
	if m.toast != nil {
		cmds = append(cmds, toastExpireCmd(toastDuration*2))
	}
	return tea.Batch(cmds...)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil
	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case toastExpiredMsg:
		if m.toast != nil && m.toast.expired() {
			m.toast = nil
		}
		return m, nil
	case outcomeMsg:
		return m.handleOutcome(msg)
	case handoffDoneMsg:
		return m, completeCmd(m.ctx, m.deps.Engine, msg.handoff, msg.err)
	case branchesMsg:
		if msg.err == nil {
			m.create.branches = msg.branches
			m.updateSuggestions()
		}
		return m, nil
	case detailMsg:
		if msg.path == m.selectedPath() && msg.mode == m.detail {
			m.detailContent, m.detailErr = msg.content, msg.err
			m.renderDetail()
		}
		return m, nil
	case tea.KeyMsg:
		switch m.state {
		case stateCreate:
			return handleCreate(&m, msg)
		case stateConfirmDelete:
			return handleConfirmDelete(&m, msg)
		case stateHelp:
			m.state = stateList
			return m, nil
		default:
			return handleList(&m, msg)
		}
	}

	var cmd tea.Cmd
	if m.state == stateCreate {
		m.create.input, cmd = m.create.input.Update(msg)
		return m, cmd
	}
	m.detailView, cmd = m.detailView.Update(msg)
	return m, cmd
}

func (m model) handleOutcome(msg outcomeMsg) (tea.Model, tea.Cmd) {
	out := msg.out
	m.busy = false
	m.loading = false
	var cmds []tea.Cmd

	prev := m.selectedPath()
	if out.Refreshed {
		m.rows = out.Snapshot
		m.list.SetItems(builders.BuildItems(m.rows))
		m.selectPath(prev)
	}
	if out.Target.Path != "" {
		m.selectPath(out.Target.Path)
	}
	if out.Notice != nil {
		m.toast = newToast(out.Notice)
		cmds = append(cmds, toastExpireCmd(m.toast.expiresAt.Sub(timeNow())))
	}

	if msg.deleting {
		if errors.Is(out.Err, git.ErrDirty) {
			m.state = stateConfirmDelete
			m.pending.force = true
		} else {
			m.state = stateList
			m.pending = pendingDelete{}
		}
	}

	switch out.Effect {
	case engine.EffectPromptCreate:
		m.state = stateCreate
		m.create.input.Reset()
		m.create.suggestions = nil
		cmds = append(cmds, m.create.input.Focus(), textinput.Blink, branchesCmd(m.ctx, m.deps.Git))
	case engine.EffectConfirmDelete:
		m.state = stateConfirmDelete
		m.pending = pendingDelete{target: out.Target}
	case engine.EffectToggleView:
		m.toggleDetail()
	case engine.EffectHelp:
		m.state = stateHelp
	case engine.EffectQuit:
		m.exitPath = out.ExitPath
		return m, tea.Quit
	case engine.EffectHandoff:
		m.busy = true
		cmds = append(cmds, handoffCmd(m.deps.Runner, out.Handoff))
	}

	if out.Refreshed || out.Effect == engine.EffectToggleView || m.selectedPath() != prev {
		cmds = append(cmds, m.loadDetail())
	}
	return m, tea.Batch(cmds...)
}

func (m *model) selectedPath() string {
	if li, ok := m.list.SelectedItem().(builders.ListItem); ok {
		return li.Worktree.Path
	}
	return ""
}

// selectPath moves the selection to path, or keeps it in range when the
// worktree is gone.
func (m *model) selectPath(path string) {
	items := m.list.Items()
	if i := builders.IndexOf(items, path); i >= 0 {
		m.list.Select(i)
		return
	}
	if len(items) == 0 {
		return
	}
	m.list.Select(min(max(m.list.Index(), 0), len(items)-1))
}

func (m *model) move(delta int) {
	if delta > 0 {
		m.list.CursorDown()
	} else {
		m.list.CursorUp()
	}
}

func (m *model) toggleDetail() {
	if m.detail == detailNotes {
		m.detail = detailStatus
	} else {
		m.detail = detailNotes
	}
	m.detailContent, m.detailErr = "", nil
	m.renderDetail()
}

func (m *model) loadDetail() tea.Cmd {
	path := m.selectedPath()
	if path == "" || m.deps.Git == nil {
		return nil
	}
	return detailCmd(m.ctx, m.deps.Git, m.opts.NotesFile, path, m.detail)
}

func (m *model) listWidth() int {
	w := m.width * 2 / 5
	if w < 36 {
		w = 36
	}
	return w
}

func (m *model) resize() {
	w := m.width - m.listWidth() - 4
	if w < 20 {
		w = 20
	}
	h := m.height - 8
	if h < 3 {
		h = 3
	}
	m.detailView.Width = w
	m.detailView.Height = h
	m.list.SetDelegate(newItemDelegate(m.listWidth()))
	m.list.SetSize(m.listWidth()-4, h)
	m.help.Width = m.width
	m.renderDetail()
}

func (m *model) renderDetail() {
	path := m.selectedPath()
	wt, ok := workspace.Find(m.rows, path)
	if !ok {
		m.detailView.SetContent("")
		return
	}
	title := "Notes"
	body := components.Notes(m.detailContent)
	if m.detail == detailStatus {
		title = "git status"
		body = components.GitStatus(m.detailContent)
	}
	if m.detailErr != nil {
		body = theme.ErrorStyle.Render(m.detailErr.Error())
	}
	content := components.Summary(wt) + "\n\n" +
		theme.SectionStyle.Render(title) + "\n" +
		theme.SeparatorStyle.Render(strings.Repeat("─", max(m.detailView.Width-2, 1))) + "\n" +
		body
	m.detailView.SetContent(content)
	m.detailView.GotoTop()
}

func (m model) View() string {
	if m.width == 0 {
		return ""
	}
	if m.loading {
		box := lipgloss.NewStyle().Padding(2, 4).Render(m.spinner.View() + " Loading worktrees...")
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
	}

	switch m.state {
	case stateHelp:
		return m.overlay(renderHelp(m.deps.Engine.Registry()))
	case stateCreate:
		return m.overlay(views.RenderCreate(m.create.input.View(), m.create.suggestions, m.createPath()))
	case stateConfirmDelete:
		return m.overlay(views.RenderConfirmDelete(m.pending.target, m.pending.force))
	}

	left := theme.ListFrameStyle.Width(m.listWidth()).Render(m.list.View())
	right := theme.DetailFrameStyle.Render(m.detailView.View())
	body := lipgloss.JoinHorizontal(lipgloss.Top, left, right)
	return lipgloss.JoinVertical(lipgloss.Left, m.header(), body, m.footer())
}

func (m model) overlay(content string) string {
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m model) createPath() string {
	name := strings.TrimSpace(m.create.input.Value())
	if name == "" {
		return ""
	}
	if g, ok := m.deps.Git.(*git.Git); ok {
		return g.WorktreePath(name)
	}
	return ""
}

func (m model) header() string {
	status := ""
	if m.busy {
		status = m.spinner.View() + " "
	}
	repo := theme.SectionStyle.Render(m.opts.RepoName)
	count := theme.DimStyle.Render(fmt.Sprintf("%d worktrees", len(m.rows)))
	line := theme.Logo + "  " + repo + "  " + count
	if m.toast != nil && !m.toast.expired() {
		styles := toastStyles{
			success: theme.SuccessStyle.Bold(true),
			error:   theme.ErrorStyle,
			warning: theme.WarnStyle.Bold(true),
			info:    theme.SectionStyle,
		}
		line += "   " + m.toast.render(styles)
	}
	return lipgloss.NewStyle().Padding(0, 2).MarginTop(1).Render(status + line)
}

func (m model) footer() string {
	return lipgloss.NewStyle().
		BorderTop(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(theme.OverlayColor).
		Padding(0, 2).
		Render(m.help.View(m.keys))
}
