package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/reel/internal/clip"
	"github.com/llehouerou/reel/internal/errmsg"
	"github.com/llehouerou/reel/internal/ui"
	"github.com/llehouerou/reel/internal/ui/action"
	"github.com/llehouerou/reel/internal/ui/timeinput"
	"github.com/llehouerou/reel/internal/ui/timelinebar"
)

// Update handles messages and returns updated model and commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.update(msg)
	nm := next.(Model)
	nm.syncRows()
	return nm, cmd
}

func (m Model) update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowSize(msg)

	case ownerReadyMsg:
		n := m.owner.Drain()
		if n > 0 {
			m.log.WithField("funcs", n).Trace("owner queue drained")
		}
		return m, WaitForOwner(m.owner)

	case PlayerMessage:
		return m.handlePlayerMessage(msg)

	case action.Msg:
		return m.handleAction(msg)

	case ClearErrorMsg:
		if msg.Version == m.errorVersion {
			m.ErrorMsg = ""
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}

	// cursor blinks and the like
	if m.InputOpen {
		_, cmd := m.TimeInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleWindowSize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.Width, m.Height = msg.Width, msg.Height
	l := m.layout()
	m.Clips.SetSize(max(m.Width-ui.BorderHeight, 0), max(l.list-ui.BorderHeight, 0))
	if m.InputOpen {
		m.TimeInput.SetSize(m.Width, m.Height)
	}
	return m, nil
}

func (m Model) handlePlayerMessage(msg PlayerMessage) (tea.Model, tea.Cmd) {
	watch := WatchPlayerEvents(m.sub)

	switch msg := msg.(type) {
	case StateChangedMsg, PositionChangedMsg:
		m.saveCursor()

	case ClipChangedMsg:
		if msg.Current != nil {
			m.Clips.Select(m.set.Index(msg.Current))
		}
		m.notifyRemote()
		m.saveCursor()

	case PlayLimitChangedMsg:
		m.notifyRemote()

	case EngineErrorMsg:
		text := errmsg.FormatWith(errmsg.EngineOp(msg.Operation), msg.Source, msg.Err)
		return m, tea.Batch(watch, m.setError(text))

	case PlayerClosedMsg:
		return m, nil
	}
	return m, watch
}

func (m Model) handleAction(msg action.Msg) (tea.Model, tea.Cmd) {
	if !msg.From(timeinput.Source) {
		return m, nil
	}
	m.log.WithField("action", msg.Action.ActionType()).Debug("component action")
	res, ok := msg.Action.(timeinput.Result)
	if !ok {
		return m, nil
	}
	m.InputOpen = false
	m.TimeInput.Reset()
	if res.Canceled {
		return m, nil
	}

	c, ok := res.Context.(*clip.Clip)
	if !ok {
		return m, nil
	}
	if err := m.set.SetStart(c, res.Value); err != nil {
		return m, m.setError(errmsg.FormatWith(errmsg.OpClipMove, c.Name(), err))
	}
	return m, m.savePlacement(c)
}

// layout splits the screen height between the panels.
type layout struct {
	surface int
	bar     int
	list    int
}

func (m Model) layout() layout {
	bar := timelinebar.Height + ui.BorderHeight
	rest := max(m.Height-1-ui.StatusHeight-bar, 0) // header line

	list := min(m.set.Len()+ui.HeaderHeight+ui.BorderHeight, rest/2)
	list = max(list, min(ui.HeaderHeight+ui.BorderHeight+1, rest))
	surface := rest - list
	if minSurface := ui.MinSurfaceHeight + ui.BorderHeight; surface < minSurface {
		surface = min(minSurface, rest)
		list = rest - surface
	}
	return layout{surface: surface, bar: bar, list: list}
}
