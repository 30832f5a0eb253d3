package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/reel/internal/timeline"
)

// PlayerMessage is implemented by messages carrying timeline player events.
// Each one re-arms the event watch.
type PlayerMessage interface {
	tea.Msg
	playerMessage()
}

// ownerReadyMsg means work is waiting in the owner queue.
type ownerReadyMsg struct{}

// StateChangedMsg is sent when playback starts or stops.
type StateChangedMsg timeline.StateChange

func (StateChangedMsg) playerMessage() {}

// PositionChangedMsg is sent when the cursor moves.
type PositionChangedMsg timeline.PositionChange

func (PositionChangedMsg) playerMessage() {}

// SurfaceChangedMsg is sent when the render output may have changed.
type SurfaceChangedMsg timeline.SurfaceChange

func (SurfaceChangedMsg) playerMessage() {}

// PlayLimitChangedMsg is sent when the clips' extent changes.
type PlayLimitChangedMsg timeline.PlayLimitChange

func (PlayLimitChangedMsg) playerMessage() {}

// ClipChangedMsg is sent when another clip becomes active.
type ClipChangedMsg timeline.ClipChange

func (ClipChangedMsg) playerMessage() {}

// EngineErrorMsg reports a media engine failure.
type EngineErrorMsg timeline.ErrorEvent

func (EngineErrorMsg) playerMessage() {}

// PlayerClosedMsg is sent once the player has shut down.
type PlayerClosedMsg struct{}

func (PlayerClosedMsg) playerMessage() {}

// ClearErrorMsg hides the error line unless a newer error replaced it.
type ClearErrorMsg struct {
	Version int
}
