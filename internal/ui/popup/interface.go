// Package popup provides the modal popup contract and overlay rendering.
package popup

import tea "github.com/charmbracelet/bubbletea"

// Popup is a modal component drawn over the main view. View returns the
// content only; RenderBordered adds the frame and centering.
type Popup interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Popup, tea.Cmd)
	View() string
	SetSize(width, height int) // space available for the content
}
