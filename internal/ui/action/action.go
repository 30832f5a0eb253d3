// Package action carries what a UI component decided back to the app model.
package action

import tea "github.com/charmbracelet/bubbletea"

// Action is a component's decision, such as a confirmed time input.
type Action interface {
	ActionType() string // stable identifier for logs
}

// Msg is the tea.Msg a component emits for an Action. Source names the
// component, like "timeinput".
type Msg struct {
	Source string
	Action Action
}

var _ tea.Msg = Msg{}

// From reports whether m was emitted by the named component.
func (m Msg) From(source string) bool {
	return m.Source == source
}
