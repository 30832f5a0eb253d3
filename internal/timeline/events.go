package timeline

import (
	"time"

	"github.com/llehouerou/reel/internal/clip"
	"github.com/llehouerou/reel/internal/media"
)

// State is the transport state of the player.
type State int

const (
	StatePaused State = iota
	StatePlaying
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StatePaused:
		return "Paused"
	case StatePlaying:
		return "Playing"
	default:
		return "Unknown"
	}
}

// StateChange is emitted when the player starts or stops playing, including
// the forced stop at the play limit.
type StateChange struct {
	Previous State
	Current  State
}

// PositionChange is emitted whenever the cursor moves.
type PositionChange struct {
	Position time.Duration
}

// SurfaceChange is emitted when the rendered output may have changed: the
// cursor entered or left the active clip, the clip was replaced or moved, or
// the fallback surface was swapped.
type SurfaceChange struct {
	Surface media.Surface
}

// PlayLimitChange is emitted when the play limit is set.
type PlayLimitChange struct {
	Limit time.Duration
}

// ClipChange is emitted by SetVideo.
type ClipChange struct {
	Previous *clip.Clip
	Current  *clip.Clip
}

// ErrorEvent reports a media engine failure. Engine failures never change
// the transport state.
type ErrorEvent struct {
	Operation string // e.g. "play", "seek"
	Source    string
	Err       error
}
