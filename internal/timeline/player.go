// Package timeline drives a cursor along a shared timeline and keeps the
// engine of one active clip in step with it.
//
// A Player is confined to the goroutine behind its Dispatcher. Timer and
// poller callbacks are marshalled through the Dispatcher, so every method
// except Snapshot and Subscribe must be called from that goroutine.
package timeline

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/llehouerou/reel/internal/clip"
	"github.com/llehouerou/reel/internal/dispatch"
	"github.com/llehouerou/reel/internal/media"
	"github.com/llehouerou/reel/internal/poller"
	"github.com/llehouerou/reel/internal/timerpool"
)

var (
	// ErrInvalidState is returned for operations not allowed in the current
	// transport state.
	ErrInvalidState = errors.New("timeline: invalid state")
	// ErrPlaying is returned by SetVideo while playing.
	ErrPlaying = fmt.Errorf("%w: cannot change clip while playing", ErrInvalidState)
)

// Unbounded is the default play limit.
const Unbounded = time.Duration(math.MaxInt64)

// Options configures a Player.
type Options struct {
	// Dispatcher marshals callbacks onto the owner goroutine. Required.
	Dispatcher dispatch.Dispatcher
	// Pool schedules boundary wake-ups. Defaults to timerpool.Default().
	Pool *timerpool.Pool
	// PollInterval defaults to poller.DefaultInterval.
	PollInterval time.Duration
	// DefaultSurface is shown while no clip covers the cursor.
	DefaultSurface media.Surface
	Logger         *logrus.Entry
}

type boundary int

const (
	boundaryStart boundary = iota
	boundaryEnd
)

func (b boundary) String() string {
	if b == boundaryStart {
		return "start"
	}
	return "end"
}

// Player is the timeline transport.
type Player struct {
	d      dispatch.Dispatcher
	pool   *timerpool.Pool
	poller *poller.Poller
	log    *logrus.Entry

	position       time.Duration
	playing        bool
	playLimit      time.Duration
	clip           *clip.Clip
	unobserve      func()
	defaultSurface media.Surface

	// cancels the armed boundary wake-up; nil when none is pending
	pending     context.CancelFunc
	boundaryGen uint64

	// bumped on the owner after every poller stop; ticks carrying an older
	// value are dropped
	pollGen atomic.Uint64

	snap atomic.Pointer[Snapshot]

	subsMu sync.Mutex
	subs   []*Subscription
	closed bool
}

// New creates a paused player at position zero with no clip.
func New(opts Options) *Player {
	if opts.Dispatcher == nil {
		panic("timeline: Options.Dispatcher is required")
	}
	pool := opts.Pool
	if pool == nil {
		pool = timerpool.Default()
	}
	surface := opts.DefaultSurface
	if surface == nil {
		surface = media.MustSolid(media.DefaultColor)
	}
	log := opts.Logger
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}

	p := &Player{
		d:              opts.Dispatcher,
		pool:           pool,
		log:            log.WithField("component", "timeline"),
		playLimit:      Unbounded,
		defaultSurface: surface,
	}
	p.poller = poller.New(opts.PollInterval, func(elapsed time.Duration) {
		gen := p.pollGen.Load()
		p.d.Dispatch(func() { p.onTick(gen, elapsed) })
	})
	p.publish()
	return p
}

// Position returns the cursor.
func (p *Player) Position() time.Duration { return p.position }

// IsPlaying reports whether the cursor is advancing.
func (p *Player) IsPlaying() bool { return p.playing }

// IsPaused is the negation of IsPlaying.
func (p *Player) IsPaused() bool { return !p.playing }

// State returns the transport state.
func (p *Player) State() State {
	if p.playing {
		return StatePlaying
	}
	return StatePaused
}

// Clip returns the active clip, or nil.
func (p *Player) Clip() *clip.Clip { return p.clip }

// PlayLimit returns the position at which playback is forced to stop.
func (p *Player) PlayLimit() time.Duration { return p.playLimit }

// SetPlayLimit sets the stop position.
func (p *Player) SetPlayLimit(limit time.Duration) {
	p.playLimit = limit
	p.publish()
	p.emit(func(s *Subscription) { s.sendPlayLimit(PlayLimitChange{Limit: limit}) })
}

// SetVideo replaces the active clip. It fails with ErrPlaying while playing.
// A nil clip clears the selection.
func (p *Player) SetVideo(c *clip.Clip) error {
	if p.playing {
		return ErrPlaying
	}
	prev := p.clip
	if prev == c {
		return nil
	}
	if p.unobserve != nil {
		p.unobserve()
		p.unobserve = nil
	}
	p.clip = c
	if c != nil {
		p.unobserve = c.Observe(p.onClipChanged)
	}
	p.log.WithField("clip", clipName(c)).Debug("active clip changed")
	p.publish()
	p.emit(func(s *Subscription) { s.sendClip(ClipChange{Previous: prev, Current: c}) })
	p.emitSurface()
	return nil
}

// Play starts advancing the cursor. It is a no-op when already playing or
// when there is no active clip.
func (p *Player) Play() {
	if p.playing || p.clip == nil {
		return
	}
	p.setPlaying(true)

	c := p.clip
	switch {
	case p.position < c.Start():
		p.armBoundary(c.Start()-p.position, boundaryStart)
	case p.position < c.End():
		p.startEngine(c, p.position-c.Start())
		p.armBoundary(c.End()-p.position, boundaryEnd)
	}
	p.startPolling()
}

// Pause stops the cursor and cancels any pending boundary wake-up.
func (p *Player) Pause() {
	if !p.playing {
		return
	}
	p.setPlaying(false)
}

// Toggle switches between Play and Pause.
func (p *Player) Toggle() {
	if p.playing {
		p.Pause()
	} else {
		p.Play()
	}
}

// Seek moves the cursor to t. While playing, playback resumes from t unless
// t is past the play limit, in which case the player stays paused at the
// limit.
func (p *Player) Seek(t time.Duration) {
	if c := p.clip; c != nil && c.Contains(t) {
		if e, err := c.Engine(); err != nil {
			p.reportError("seek", c, err)
		} else if err := e.SetPosition(t - c.Start()); err != nil {
			p.reportError("seek", c, err)
		}
	}

	if !p.playing {
		p.setPosition(t)
		return
	}
	p.Pause()
	if clamped := p.setPosition(t); !clamped {
		p.Play()
	}
}

// Surface returns what should be presented at the cursor: the clip's
// surface while the cursor is inside the clip, the default surface
// otherwise.
func (p *Player) Surface() media.Surface {
	if c := p.clip; c != nil && c.Contains(p.position) {
		s, err := c.Surface()
		if err == nil {
			return s
		}
		p.log.WithError(err).WithField("clip", c.Name()).Warn("clip surface unavailable")
	}
	return p.defaultSurface
}

// DefaultSurface returns the fallback surface.
func (p *Player) DefaultSurface() media.Surface { return p.defaultSurface }

// SetDefaultSurface replaces the fallback surface.
func (p *Player) SetDefaultSurface(s media.Surface) {
	if s == nil {
		return
	}
	p.defaultSurface = s
	if c := p.clip; c == nil || !c.Contains(p.position) {
		p.emitSurface()
	}
}

// Snapshot returns the last published transport state. It is safe to call
// from any goroutine.
func (p *Player) Snapshot() Snapshot {
	return *p.snap.Load()
}

// Subscribe returns a new set of event channels. It is safe to call from any
// goroutine.
func (p *Player) Subscribe() *Subscription {
	s := newSubscription()
	p.subsMu.Lock()
	defer p.subsMu.Unlock()
	if p.closed {
		s.close()
		return s
	}
	p.subs = append(p.subs, s)
	return s
}

// Close pauses the player, detaches from the active clip and closes every
// subscription. The clip itself is not closed; it belongs to its set.
func (p *Player) Close() {
	p.Pause()
	p.poller.Stop()
	if p.unobserve != nil {
		p.unobserve()
		p.unobserve = nil
	}

	p.subsMu.Lock()
	defer p.subsMu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	for _, s := range p.subs {
		s.close()
	}
	p.subs = nil
}

func (p *Player) setPlaying(v bool) {
	if p.playing == v {
		return
	}
	prev := p.State()
	p.playing = v
	if !v {
		p.stopPolling()
		p.cancelBoundary()
		p.pauseEngine()
	}
	p.log.WithFields(logrus.Fields{
		"position": p.position,
		"playing":  v,
	}).Debug("transport state changed")
	p.publish()
	cur := p.State()
	p.emit(func(s *Subscription) { s.sendState(StateChange{Previous: prev, Current: cur}) })
}

// setPosition stores v clamped to the play limit and reports whether it was
// clamped. Clamping always leaves the player paused.
func (p *Player) setPosition(v time.Duration) bool {
	old := p.position
	clamped := v > p.playLimit
	if clamped {
		v = p.playLimit
		p.setPlaying(false)
	}
	p.position = v
	if old == v {
		return clamped
	}

	p.publish()
	p.emit(func(s *Subscription) { s.sendPosition(PositionChange{Position: v}) })
	if c := p.clip; c != nil && c.Contains(old) != c.Contains(v) {
		p.emitSurface()
	}
	return clamped
}

func (p *Player) onTick(gen uint64, elapsed time.Duration) {
	if gen != p.pollGen.Load() || !p.playing || p.clip == nil {
		return
	}
	c := p.clip
	if !c.Contains(p.position) {
		p.setPosition(p.position + elapsed)
		return
	}
	e, err := c.Engine()
	if err != nil {
		// engine unusable; keep the cursor moving on wall time
		p.reportError("position", c, err)
		p.setPosition(p.position + elapsed)
		return
	}
	p.setPosition(c.Start() + e.Position())
}

func (p *Player) onClipChanged(c *clip.Clip, f clip.Field) {
	if c != p.clip || f != clip.FieldStart {
		return
	}
	p.Seek(p.position)
	p.publish()
	p.emitSurface()
}

func (p *Player) armBoundary(delay time.Duration, b boundary) {
	p.cancelBoundary()
	ctx, cancel := context.WithCancel(context.Background())
	p.pending = cancel
	p.boundaryGen++
	gen := p.boundaryGen
	p.pool.RunOnce(ctx, delay, func() {
		p.d.Dispatch(func() { p.onBoundary(gen, b) })
	})
}

func (p *Player) onBoundary(gen uint64, b boundary) {
	if !p.playing || p.pending == nil || gen != p.boundaryGen || p.clip == nil {
		return
	}
	p.pending()
	p.pending = nil

	target := p.clip.Start()
	if b == boundaryEnd {
		target = p.clip.End()
	}
	p.log.WithFields(logrus.Fields{
		"boundary": b.String(),
		"target":   target,
	}).Debug("clip boundary reached")
	p.Seek(target)
}

func (p *Player) cancelBoundary() {
	if p.pending != nil {
		p.pending()
		p.pending = nil
	}
}

func (p *Player) startPolling() {
	p.poller.Stop()
	p.pollGen.Add(1)
	p.poller.Start()
}

func (p *Player) stopPolling() {
	p.poller.Stop()
	p.pollGen.Add(1)
}

func (p *Player) startEngine(c *clip.Clip, offset time.Duration) {
	e, err := c.Engine()
	if err != nil {
		p.reportError("play", c, err)
		return
	}
	if err := e.SetPosition(offset); err != nil {
		p.reportError("seek", c, err)
	}
	if err := e.Play(); err != nil {
		p.reportError("play", c, err)
	}
}

// pauseEngine never opens a source just to pause it.
func (p *Player) pauseEngine() {
	c := p.clip
	if c == nil || !c.Opened() {
		return
	}
	e, err := c.Engine()
	if err != nil || !e.CanPause() {
		return
	}
	if err := e.Pause(); err != nil {
		p.reportError("pause", c, err)
	}
}

func (p *Player) reportError(op string, c *clip.Clip, err error) {
	p.log.WithError(err).WithFields(logrus.Fields{
		"op":     op,
		"source": c.Source(),
	}).Warn("media engine failed")
	ev := ErrorEvent{Operation: op, Source: c.Source(), Err: err}
	p.emit(func(s *Subscription) { s.sendError(ev) })
}

func (p *Player) emitSurface() {
	surface := p.Surface()
	p.emit(func(s *Subscription) { s.sendSurface(SurfaceChange{Surface: surface}) })
}

func (p *Player) emit(send func(s *Subscription)) {
	p.subsMu.Lock()
	defer p.subsMu.Unlock()
	for _, s := range p.subs {
		send(s)
	}
}

func clipName(c *clip.Clip) string {
	if c == nil {
		return ""
	}
	return c.Name()
}
