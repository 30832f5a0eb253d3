// Package timeinput provides the popup for typing a time offset, such as a
// clip's new start.
package timeinput

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/reel/internal/ui"
	"github.com/llehouerou/reel/internal/ui/popup"
	"github.com/llehouerou/reel/internal/ui/render"
	"github.com/llehouerou/reel/internal/ui/styles"
)

// Compile-time check that Model implements popup.Popup.
var _ popup.Popup = (*Model)(nil)

func titleStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(styles.T().Primary)
}

// Model is a time input popup bounded to [Min, Max].
type Model struct {
	ui.Base
	title    string
	input    textinput.Model
	min, max time.Duration
	err      error
	context  any // passed through to Result action
}

// New creates a new time input model.
func New() Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "m:ss.t or 1m30s"
	ti.CharLimit = 32
	ti.Width = 24
	return Model{input: ti}
}

// Start opens the input with initial as the proposed value. Values outside
// [lo, hi] are refused on confirm.
func (m *Model) Start(title string, initial, lo, hi time.Duration, context any, width, height int) tea.Cmd {
	m.title = title
	m.min, m.max = lo, hi
	m.err = nil
	m.context = context
	m.input.SetValue(render.Timecode(initial))
	m.input.CursorEnd()
	m.SetSize(width, height)
	return m.input.Focus()
}

// Reset clears the input state.
func (m *Model) Reset() {
	m.title = ""
	m.err = nil
	m.context = nil
	m.input.SetValue("")
	m.input.Blur()
}

// Init implements popup.Popup.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements popup.Popup.
func (m *Model) Update(msg tea.Msg) (popup.Popup, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			ctx := m.context
			return m, func() tea.Msg {
				return ActionMsg(Result{Canceled: true, Context: ctx})
			}

		case "enter":
			v, err := m.validate()
			if err != nil {
				m.err = err
				return m, nil
			}
			ctx := m.context
			return m, func() tea.Msg {
				return ActionMsg(Result{Value: v, Context: ctx})
			}
		}
		m.err = nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) validate() (time.Duration, error) {
	v, err := Parse(m.input.Value())
	if err != nil {
		return 0, err
	}
	if v < m.min || v > m.max {
		return 0, fmt.Errorf("must be between %s and %s", render.Timecode(m.min), render.Timecode(m.max))
	}
	return v, nil
}

// View implements popup.Popup.
func (m *Model) View() string {
	if m.Width() == 0 || m.Height() == 0 {
		return ""
	}

	s := styles.T().S()
	rng := s.Muted.Render(fmt.Sprintf("from %s to %s", render.Timecode(m.min), render.Timecode(m.max)))
	status := s.Subtle.Render("Enter: confirm, Esc: cancel")
	if m.err != nil {
		status = s.Error.Render(m.err.Error())
	}

	return titleStyle().Render(m.title) + "\n" +
		rng + "\n\n" +
		m.input.View() + "\n\n" +
		status
}
