// Package media defines the contract between the timeline and the playback
// backends that actually decode and present a source.
package media

import (
	"errors"
	"time"
)

// ErrClosed is returned by engines used after Close.
var ErrClosed = errors.New("media: engine closed")

// Engine drives playback of one already-opened source.
type Engine interface {
	Play() error
	Pause() error
	// CanPause reports whether Pause is currently meaningful.
	CanPause() bool
	// Position is the native playhead, relative to the start of the source.
	Position() time.Duration
	SetPosition(d time.Duration) error
	Close() error
}

// Opener opens sources into engines.
type Opener interface {
	Open(source string) (Engine, error)
}

// OpenerFunc adapts a function to Opener.
type OpenerFunc func(source string) (Engine, error)

// Open calls f(source).
func (f OpenerFunc) Open(source string) (Engine, error) { return f(source) }
