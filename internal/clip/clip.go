// Package clip models a media source placed on the shared timeline.
package clip

import (
	"fmt"
	"time"

	"github.com/llehouerou/reel/internal/media"
)

// Field identifies the clip attribute a notification refers to.
type Field int

const (
	FieldStart Field = iota
	FieldEnd
)

func (f Field) String() string {
	switch f {
	case FieldStart:
		return "Start"
	case FieldEnd:
		return "End"
	default:
		return "Unknown"
	}
}

// Observer is notified after a clip attribute changes.
type Observer func(c *Clip, f Field)

// Clip is a fixed-duration source with a mutable timeline placement.
//
// A Clip is confined to the owner goroutine of the timeline it is used with;
// none of its methods are safe for concurrent use.
type Clip struct {
	name     string
	source   string
	duration time.Duration
	width    uint
	height   uint
	start    time.Duration

	opener media.Opener

	// uninitialized until the first Engine call
	engineInit bool
	engine     media.Engine
	engineErr  error

	surface media.Surface
	closed  bool

	observers map[int]Observer
	nextObs   int
}

// Option configures optional clip metadata.
type Option func(*Clip)

// WithSize records the native frame size of the source.
func WithSize(width, height uint) Option {
	return func(c *Clip) {
		c.width = width
		c.height = height
	}
}

// WithStart sets the initial placement without notifying anyone.
func WithStart(start time.Duration) Option {
	return func(c *Clip) { c.start = start }
}

// New creates a clip. Negative durations are treated as zero. The source is
// not opened until Engine or Surface is first called.
func New(name, source string, duration time.Duration, opener media.Opener, opts ...Option) *Clip {
	c := &Clip{
		name:      name,
		source:    source,
		duration:  max(duration, 0),
		opener:    opener,
		observers: make(map[int]Observer),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Clip) Name() string { return c.name }
func (c *Clip) Source() string { return c.source }
func (c *Clip) Duration() time.Duration { return c.duration }
func (c *Clip) Start() time.Duration { return c.start }

// End is Start + Duration.
func (c *Clip) End() time.Duration { return c.start + c.duration }

// Size returns the native frame size, zero when unknown.
func (c *Clip) Size() (width, height uint) { return c.width, c.height }

// SetStart moves the clip on the timeline and notifies Start then End.
func (c *Clip) SetStart(start time.Duration) {
	c.start = start
	c.notify(FieldStart)
	c.notify(FieldEnd)
}

// Contains reports whether t falls in [Start, End).
func (c *Clip) Contains(t time.Duration) bool {
	return c.start <= t && t < c.End()
}

// Observe registers fn and returns a function that unregisters it.
func (c *Clip) Observe(fn Observer) (cancel func()) {
	id := c.nextObs
	c.nextObs++
	c.observers[id] = fn
	return func() { delete(c.observers, id) }
}

func (c *Clip) notify(f Field) {
	for _, fn := range c.observersSnapshot() {
		fn(c, f)
	}
}

// observersSnapshot keeps registration order stable and lets observers
// unsubscribe while being notified.
func (c *Clip) observersSnapshot() []Observer {
	out := make([]Observer, 0, len(c.observers))
	for id := range c.nextObs {
		if fn, ok := c.observers[id]; ok {
			out = append(out, fn)
		}
	}
	return out
}

// Engine returns the media engine for the clip, opening it on first call.
// An open failure is remembered and returned on every later call.
func (c *Clip) Engine() (media.Engine, error) {
	if c.closed {
		return nil, media.ErrClosed
	}
	if !c.engineInit {
		c.engineInit = true
		c.engine, c.engineErr = c.opener.Open(c.source)
	}
	return c.engine, c.engineErr
}

// Opened reports whether an engine is currently open.
func (c *Clip) Opened() bool { return c.engine != nil && !c.closed }

// Surface returns the render surface bound to the clip's engine, building it
// on first call.
func (c *Clip) Surface() (media.Surface, error) {
	if c.surface != nil {
		return c.surface, nil
	}
	e, err := c.Engine()
	if err != nil {
		return nil, err
	}
	c.surface = media.NewEngineSurface(c.name, e, c.width, c.height)
	return c.surface, nil
}

// Close releases the engine if it was opened. Later calls are no-ops.
func (c *Clip) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	c.surface = nil
	if c.engine == nil {
		return nil
	}
	e := c.engine
	c.engine = nil
	return e.Close()
}

func (c *Clip) String() string {
	return fmt.Sprintf("%s [%s, %s)", c.name, c.start, c.End())
}
