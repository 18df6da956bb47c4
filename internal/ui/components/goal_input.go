package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"dpwrk/internal/ui/theme"
)

// GoalSubmitMsg is emitted when the user confirms the goal with enter.
type GoalSubmitMsg struct{ Goal string }

var (
	goalStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Surface1).
			Padding(0, 1)

	goalFocusedStyle = goalStyle.BorderForeground(theme.Peach)
)

// GoalInput is the single-line goal field backed by bubbles/textinput.
type GoalInput struct {
	input textinput.Model
	width int
}

func NewGoalInput() GoalInput {
	ti := textinput.New()
	ti.Placeholder = "What will you focus on?"
	ti.CharLimit = 200
	ti.Prompt = ""
	return GoalInput{input: ti}
}

func (g GoalInput) Focused() bool { return g.input.Focused() }

func (g GoalInput) Value() string { return strings.TrimSpace(g.input.Value()) }

func (g *GoalInput) SetValue(value string) { g.input.SetValue(value) }

func (g *GoalInput) Focus() tea.Cmd { return g.input.Focus() }

func (g *GoalInput) Blur() { g.input.Blur() }

func (g *GoalInput) SetWidth(w int) {
	g.width = w
	if w > 6 {
		g.input.Width = w - 6
	}
}

// Update consumes keys only while focused.
func (g GoalInput) Update(msg tea.Msg) (GoalInput, tea.Cmd) {
	if !g.input.Focused() {
		return g, nil
	}
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
		goal := g.Value()
		return g, func() tea.Msg { return GoalSubmitMsg{Goal: goal} }
	}
	var cmd tea.Cmd
	g.input, cmd = g.input.Update(msg)
	return g, cmd
}

func (g GoalInput) View() string {
	style := goalStyle
	if g.input.Focused() {
		style = goalFocusedStyle
	}
	w := g.width
	if w < 20 {
		w = 48
	}
	return style.Width(w - 2).Render(g.input.View())
}
