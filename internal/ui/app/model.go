package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	prefsdto "dpwrk/internal/modules/preferences/dto"
	"dpwrk/internal/modules/timer/domain"
	timerdto "dpwrk/internal/modules/timer/dto"
	"dpwrk/internal/ui/components"
	"dpwrk/internal/ui/theme"
)

// ─── ports ───────────────────────────────────────────────────────────────────

type timerPort interface {
	Start(ctx context.Context, goal string, minutes int) (timerdto.StateOutput, error)
	Pause(ctx context.Context) (timerdto.StateOutput, error)
	Resume(ctx context.Context) (timerdto.StateOutput, error)
	Stop(ctx context.Context) (timerdto.StateOutput, error)
	Status(ctx context.Context) (timerdto.StateOutput, error)
}

// lifecyclePort is only wired when the TUI owns the engine.
type lifecyclePort interface {
	OnForeground(ctx context.Context)
	OnBackground(ctx context.Context)
	ResetCompleted(ctx context.Context, sessionID string) bool
	Subscribe(buffer int) (<-chan timerdto.Event, func())
}

type prefsPort interface {
	Show(ctx context.Context) (prefsdto.PreferencesOutput, error)
}

const (
	minMinutes  = 5
	maxMinutes  = 180
	stepMinutes = 5
)

// ─── async messages ───────────────────────────────────────────────────────────

type stateMsg struct {
	state timerdto.StateOutput
	err   error
}

type eventMsg struct{ event timerdto.Event }

type eventsClosedMsg struct{}

type pollMsg struct{}

type autoResetMsg struct{ sessionID string }

type prefsLoadedMsg struct {
	prefs prefsdto.PreferencesOutput
	err   error
}

// ─── key bindings ─────────────────────────────────────────────────────────────

type keyMap struct {
	Start  key.Binding
	Pause  key.Binding
	Stop   key.Binding
	Longer key.Binding
	Short  key.Binding
	Goal   key.Binding
	Help   key.Binding
	Quit   key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Start:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "start")),
		Pause:  key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "pause/resume")),
		Stop:   key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "stop")),
		Longer: key.NewBinding(key.WithKeys("+", "=", "up"), key.WithHelp("+/↑", "longer")),
		Short:  key.NewBinding(key.WithKeys("-", "down"), key.WithHelp("-/↓", "shorter")),
		Goal:   key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "edit goal")),
		Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:   key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Start, k.Pause, k.Stop, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Start, k.Pause, k.Stop},
		{k.Longer, k.Short, k.Goal},
		{k.Help, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the countdown screen. It renders whatever the timer reports and
// never computes remaining time itself.
type Model struct {
	timer     timerPort
	lifecycle lifecyclePort
	prefs     prefsPort

	events         <-chan timerdto.Event
	unsubscribe    func()
	pollInterval   time.Duration
	autoResetDelay time.Duration

	goal     components.GoalInput
	bar      progress.Model
	keys     keyMap
	help     help.Model
	showHelp bool

	state   timerdto.StateOutput
	minutes int
	status  string
	errored bool
	width   int
	height  int
}

func NewModel(timer timerPort, lifecycle lifecyclePort, prefs prefsPort, autoResetDelay time.Duration) Model {
	m := Model{
		timer:          timer,
		lifecycle:      lifecycle,
		prefs:          prefs,
		pollInterval:   time.Second,
		autoResetDelay: autoResetDelay,
		goal:           components.NewGoalInput(),
		bar:            progress.New(progress.WithGradient(string(theme.Sapphire), string(theme.Lavender)), progress.WithoutPercentage()),
		keys:           defaultKeys(),
		help:           help.New(),
		minutes:        25,
		status:         "ready",
		state:          timerdto.StateOutput{Phase: "idle", Progress: 1},
	}
	m.goal.Focus()
	if lifecycle != nil {
		m.events, m.unsubscribe = lifecycle.Subscribe(16)
	}
	return m
}

// Close releases the engine subscription.
func (m Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.loadPrefsCmd(), m.statusCmd(), m.pollCmd(), textinput.Blink}
	if m.events != nil {
		cmds = append(cmds, waitForEvent(m.events))
	}
	return tea.Batch(cmds...)
}

// ─── update ───────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.bar.Width = clamp(msg.Width-12, 20, 60)
		m.goal.SetWidth(clamp(msg.Width-8, 24, 64))
		return m, nil

	case tea.FocusMsg:
		if m.lifecycle != nil {
			m.lifecycle.OnForeground(context.Background())
		}
		return m, m.statusCmd()

	case tea.BlurMsg:
		if m.lifecycle != nil {
			m.lifecycle.OnBackground(context.Background())
		}
		return m, nil

	case prefsLoadedMsg:
		if msg.err != nil {
			m.setError("preferences: " + msg.err.Error())
			return m, nil
		}
		if minutes := int(msg.prefs.DefaultDuration / time.Minute); minutes > 0 {
			m.minutes = clamp(minutes, minMinutes, maxMinutes)
		}
		if m.goal.Value() == "" && msg.prefs.LastGoal != "" {
			m.goal.SetValue(msg.prefs.LastGoal)
		}
		return m, nil

	case stateMsg:
		if msg.err != nil {
			m.setError(msg.err.Error())
			return m, nil
		}
		return m.applyState(msg.state)

	case eventMsg:
		var cmd tea.Cmd
		m, cmd = m.applyEvent(msg.event)
		return m, tea.Batch(cmd, waitForEvent(m.events))

	case eventsClosedMsg:
		m.events = nil
		return m, nil

	case pollMsg:
		return m, tea.Batch(m.statusCmd(), m.pollCmd())

	case autoResetMsg:
		if m.lifecycle == nil {
			return m, nil
		}
		if m.lifecycle.ResetCompleted(context.Background(), msg.sessionID) {
			m.status = "ready for the next session"
		}
		return m, m.statusCmd()

	case components.GoalSubmitMsg:
		m.goal.Blur()
		return m, m.startCmd(msg.Goal)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if m.showHelp {
		if msg.String() == "?" || msg.String() == "esc" {
			m.showHelp = false
		}
		return m, nil
	}

	if m.goal.Focused() {
		switch msg.String() {
		case "esc":
			m.goal.Blur()
			return m, nil
		case "up":
			m.adjustMinutes(stepMinutes)
			return m, nil
		case "down":
			m.adjustMinutes(-stepMinutes)
			return m, nil
		}
		var cmd tea.Cmd
		m.goal, cmd = m.goal.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
	case key.Matches(msg, m.keys.Start):
		if m.idle() {
			return m, m.startCmd(m.goal.Value())
		}
	case key.Matches(msg, m.keys.Pause):
		switch m.state.Phase {
		case "running":
			return m, m.pauseCmd()
		case "paused":
			return m, m.resumeCmd()
		}
	case key.Matches(msg, m.keys.Stop):
		if m.state.Phase != "idle" {
			return m, m.stopCmd()
		}
	case key.Matches(msg, m.keys.Longer):
		m.adjustMinutes(stepMinutes)
	case key.Matches(msg, m.keys.Short):
		m.adjustMinutes(-stepMinutes)
	case key.Matches(msg, m.keys.Goal):
		if m.idle() {
			return m, m.goal.Focus()
		}
	}
	return m, nil
}

func (m Model) applyState(state timerdto.StateOutput) (Model, tea.Cmd) {
	wasComplete := m.state.IsComplete && m.state.SessionID == state.SessionID
	m.state = state
	m.errored = false
	if state.IsComplete && !wasComplete {
		m.status = "Session complete! Great job."
		return m, m.autoResetCmd(state.SessionID)
	}
	return m, nil
}

func (m Model) applyEvent(event timerdto.Event) (Model, tea.Cmd) {
	switch event.Type {
	case "stopped":
		if event.Session != nil {
			elapsed := event.Session.EndTime.Sub(event.Session.StartTime).Round(time.Second)
			m.status = fmt.Sprintf("session stopped after %s", elapsed)
		}
	case "completed":
		m.status = "Session complete! Great job."
	}
	return m.applyState(event.State)
}

func (m *Model) adjustMinutes(delta int) {
	if !m.idle() {
		return
	}
	m.minutes = clamp(m.minutes+delta, minMinutes, maxMinutes)
}

func (m *Model) setError(text string) {
	m.status = text
	m.errored = true
}

func (m Model) idle() bool {
	return m.state.Phase == "idle" || m.state.Phase == ""
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	if m.showHelp {
		return theme.App.Render(m.help.View(m.keys))
	}

	header := theme.Title.Render("dpwrk") + "  " + theme.Phase(m.state.Phase).Render(m.state.Phase)

	var goal string
	if m.idle() {
		goal = m.goal.View()
	} else {
		text := m.state.Goal
		if text == "" {
			text = "(no goal)"
		}
		goal = theme.Muted.Render("Goal: ") + text
	}

	remaining := m.state.Remaining
	if m.idle() {
		remaining = time.Duration(m.minutes) * time.Minute
	}
	clock := theme.Clock.Render(domain.FormatClock(remaining))

	var meta string
	if m.idle() {
		meta = theme.Muted.Render(fmt.Sprintf("%d min  ·  ↑/↓ adjust  ·  enter start", m.minutes))
	} else {
		meta = theme.Muted.Render(fmt.Sprintf("%d min session", int(m.state.Duration/time.Minute)))
	}

	status := theme.Muted.Render(m.status)
	if m.errored {
		status = theme.Error.Render(m.status)
	}

	pane := theme.Pane
	if m.state.Phase == "running" {
		pane = theme.PaneActive
	}
	body := lipgloss.JoinVertical(lipgloss.Center,
		header,
		"",
		goal,
		clock,
		m.bar.ViewAs(m.state.Progress),
		"",
		meta,
	)
	return theme.App.Render(lipgloss.JoinVertical(lipgloss.Left,
		pane.Render(body),
		status,
		m.help.View(m.keys),
	))
}

// ─── async commands ───────────────────────────────────────────────────────────

func (m Model) loadPrefsCmd() tea.Cmd {
	if m.prefs == nil {
		return nil
	}
	return func() tea.Msg {
		prefs, err := m.prefs.Show(context.Background())
		return prefsLoadedMsg{prefs: prefs, err: err}
	}
}

func (m Model) statusCmd() tea.Cmd {
	return func() tea.Msg {
		state, err := m.timer.Status(context.Background())
		return stateMsg{state: state, err: err}
	}
}

func (m Model) startCmd(goal string) tea.Cmd {
	minutes := m.minutes
	return func() tea.Msg {
		state, err := m.timer.Start(context.Background(), strings.TrimSpace(goal), minutes)
		return stateMsg{state: state, err: err}
	}
}

func (m Model) pauseCmd() tea.Cmd {
	return func() tea.Msg {
		state, err := m.timer.Pause(context.Background())
		return stateMsg{state: state, err: err}
	}
}

func (m Model) resumeCmd() tea.Cmd {
	return func() tea.Msg {
		state, err := m.timer.Resume(context.Background())
		return stateMsg{state: state, err: err}
	}
}

func (m Model) stopCmd() tea.Cmd {
	return func() tea.Msg {
		state, err := m.timer.Stop(context.Background())
		return stateMsg{state: state, err: err}
	}
}

func (m Model) pollCmd() tea.Cmd {
	return tea.Tick(m.pollInterval, func(time.Time) tea.Msg { return pollMsg{} })
}

// autoResetCmd is a no-op without a lifecycle; a daemon resets on its own.
func (m Model) autoResetCmd(sessionID string) tea.Cmd {
	if m.lifecycle == nil || m.autoResetDelay <= 0 {
		return nil
	}
	return tea.Tick(m.autoResetDelay, func(time.Time) tea.Msg { return autoResetMsg{sessionID: sessionID} })
}

func waitForEvent(events <-chan timerdto.Event) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		event, ok := <-events
		if !ok {
			return eventsClosedMsg{}
		}
		return eventMsg{event: event}
	}
}

func clamp(value, lo, hi int) int {
	if value < lo {
		return lo
	}
	if value > hi {
		return hi
	}
	return value
}
