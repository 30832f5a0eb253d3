package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/reel/internal/dispatch"
	"github.com/llehouerou/reel/internal/timeline"
)

const errorTimeout = 5 * time.Second

// WaitForOwner returns a command that blocks until the owner queue has
// work. Update drains the queue and waits again.
func WaitForOwner(q *dispatch.Queue) tea.Cmd {
	return func() tea.Msg {
		<-q.Ready()
		return ownerReadyMsg{}
	}
}

// WatchPlayerEvents returns a command that waits for the next player event
// and converts it to a tea.Msg.
func WatchPlayerEvents(sub *timeline.Subscription) tea.Cmd {
	if sub == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case e := <-sub.StateChanged:
			return StateChangedMsg(e)
		case e := <-sub.PositionChanged:
			return PositionChangedMsg(e)
		case e := <-sub.SurfaceChanged:
			return SurfaceChangedMsg(e)
		case e := <-sub.PlayLimitChanged:
			return PlayLimitChangedMsg(e)
		case e := <-sub.ClipChanged:
			return ClipChangedMsg(e)
		case e := <-sub.Error:
			return EngineErrorMsg(e)
		case <-sub.Done:
			return PlayerClosedMsg{}
		}
	}
}

// ClearErrorCmd hides the error line after errorTimeout.
func ClearErrorCmd(version int) tea.Cmd {
	return tea.Tick(errorTimeout, func(time.Time) tea.Msg {
		return ClearErrorMsg{Version: version}
	})
}
