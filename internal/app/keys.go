package app

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/reel/internal/app/handler"
	"github.com/llehouerou/reel/internal/clip"
	"github.com/llehouerou/reel/internal/errmsg"
	"github.com/llehouerou/reel/internal/ui/cliplist"
)

const (
	seekStep  = 5 * time.Second
	nudgeStep = time.Second
)

// handleKeyMsg routes a key press. The time input popup, when open, takes
// every key.
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.InputOpen {
		_, cmd := m.TimeInput.Update(msg)
		return m, cmd
	}

	handled, cmd := handler.Chain(msg.String(),
		m.handleQuitKeys,
		m.handleTransportKeys,
		m.handleClipKeys,
	)
	if handled {
		return m, cmd
	}

	if res := m.Clips.Update(msg); res.Action == cliplist.ActionEnter {
		return m, m.selectClip(m.set.At(res.Index))
	}
	return m, nil
}

func (m *Model) handleQuitKeys(key string) handler.Result {
	switch key {
	case "q", "ctrl+c":
		m.saveCursor()
		return handler.Handled(tea.Quit)
	}
	return handler.NotHandled
}

func (m *Model) handleTransportKeys(key string) handler.Result {
	return handler.Keys(map[string]func() tea.Cmd{
		" ":     m.togglePlay,
		"space": m.togglePlay,
		"left":  func() tea.Cmd { m.set.SeekBy(-seekStep); return nil },
		"right": func() tea.Cmd { m.set.SeekBy(seekStep); return nil },
		"0":     func() tea.Cmd { m.set.Seek(0); return nil },
		"n":     func() tea.Cmd { return m.selectAdjacent(1) },
		"p":     func() tea.Cmd { return m.selectAdjacent(-1) },
	})(key)
}

func (m *Model) handleClipKeys(key string) handler.Result {
	c := m.selectedClip()
	if c == nil {
		return handler.NotHandled
	}
	switch key {
	case "[":
		return handler.Handled(m.nudge(c, -nudgeStep))
	case "]":
		return handler.Handled(m.nudge(c, nudgeStep))
	case "s":
		m.set.Seek(c.Start())
		return handler.HandledNoCmd
	case "t":
		return handler.Handled(m.openTimeInput(c))
	case "backspace":
		return handler.Handled(m.resetPlacement(c))
	}
	return handler.NotHandled
}

func (m *Model) selectedClip() *clip.Clip {
	return m.set.At(m.Clips.SelectedIndex())
}

func (m *Model) togglePlay() tea.Cmd {
	if m.set.Current() == nil {
		return m.setError("Select a clip first (enter)")
	}
	m.set.TogglePlay()
	return nil
}

func (m *Model) selectClip(c *clip.Clip) tea.Cmd {
	if c == nil {
		return nil
	}
	err := m.set.Select(c)
	m.notifyRemote()
	m.saveCursor()
	if err != nil {
		return m.setError(errmsg.FormatWith(errmsg.OpClipSelect, c.Name(), err))
	}
	return nil
}

func (m *Model) selectAdjacent(delta int) tea.Cmd {
	err := m.set.SelectAdjacent(delta)
	if cur := m.set.Current(); cur != nil {
		m.Clips.Select(m.set.Index(cur))
	}
	m.notifyRemote()
	m.saveCursor()
	return m.setError(errmsg.Format(errmsg.OpClipSelect, err))
}

func (m *Model) nudge(c *clip.Clip, delta time.Duration) tea.Cmd {
	if err := m.set.Nudge(c, delta); err != nil {
		return m.setError(errmsg.FormatWith(errmsg.OpClipMove, c.Name(), err))
	}
	return m.savePlacement(c)
}

// resetPlacement moves c back to the start of the timeline and forgets its
// stored start.
func (m *Model) resetPlacement(c *clip.Clip) tea.Cmd {
	if err := m.set.SetStart(c, 0); err != nil {
		return m.setError(errmsg.FormatWith(errmsg.OpClipMove, c.Name(), err))
	}
	if m.store == nil {
		return nil
	}
	return m.setError(errmsg.Format(errmsg.OpStateSave, m.store.DeletePlacement(c.Source())))
}

func (m *Model) openTimeInput(c *clip.Clip) tea.Cmd {
	m.InputOpen = true
	return m.TimeInput.Start(
		fmt.Sprintf("Start of %s", c.Name()),
		c.Start(), 0, m.set.MaxStart(c), c,
		m.Width, m.Height,
	)
}
