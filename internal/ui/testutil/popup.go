// Package testutil drives popups and models in tests without a terminal.
package testutil

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/llehouerou/reel/internal/ui/popup"
)

// PopupHarness wraps a popup for testing, providing helpers to simulate
// user interactions and inspect state.
type PopupHarness struct {
	popup popup.Popup
	cmds  []tea.Cmd
}

// NewPopupHarness creates a test harness for any popup.Popup implementation.
// It initializes the popup and captures any init commands.
func NewPopupHarness(p popup.Popup) *PopupHarness {
	h := &PopupHarness{popup: p}
	if cmd := p.Init(); cmd != nil {
		h.cmds = append(h.cmds, cmd)
	}
	return h
}

// SendMsg sends any message to the popup and returns the resulting command.
func (h *PopupHarness) SendMsg(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	h.popup, cmd = h.popup.Update(msg)
	if cmd != nil {
		h.cmds = append(h.cmds, cmd)
	}
	return cmd
}

// Type sends each rune of s as its own key press.
func (h *PopupHarness) Type(s string) {
	for _, r := range s {
		h.SendMsg(Key(string(r)))
	}
}

// SendKey sends a special key (enter, escape, backspace, ...).
func (h *PopupHarness) SendKey(keyType tea.KeyType) tea.Cmd {
	return h.SendMsg(tea.KeyMsg{Type: keyType})
}

// LastCommand returns the most recent command, or nil if none.
func (h *PopupHarness) LastCommand() tea.Cmd {
	if len(h.cmds) == 0 {
		return nil
	}
	return h.cmds[len(h.cmds)-1]
}

// View returns the popup's rendered content without styling.
func (h *PopupHarness) View() string {
	return ansi.Strip(h.popup.View())
}

// Key builds the KeyMsg bubbletea delivers for a press of key. Named keys
// ("enter", "left", "space", ...) map to their key types; anything else is
// sent as runes.
func Key(key string) tea.KeyMsg {
	if t, ok := namedKeys[key]; ok {
		return tea.KeyMsg{Type: t}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
}

var namedKeys = map[string]tea.KeyType{
	"enter":     tea.KeyEnter,
	"esc":       tea.KeyEscape,
	"backspace": tea.KeyBackspace,
	"left":      tea.KeyLeft,
	"right":     tea.KeyRight,
	"up":        tea.KeyUp,
	"down":      tea.KeyDown,
	"tab":       tea.KeyTab,
	"space":     tea.KeySpace,
	"ctrl+c":    tea.KeyCtrlC,
}

// ExecuteCmd runs a command and returns the resulting message. Batches are
// flattened and the first non-nil message is returned.
func ExecuteCmd(cmd tea.Cmd) tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			if m := ExecuteCmd(c); m != nil {
				return m
			}
		}
		return nil
	}
	return msg
}

// ContainsLine reports whether any line of output contains substr.
func ContainsLine(output, substr string) bool {
	for line := range strings.SplitSeq(ansi.Strip(output), "\n") {
		if strings.Contains(line, substr) {
			return true
		}
	}
	return false
}
