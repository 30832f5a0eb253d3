// Package timerpool runs one-shot deferred callbacks on a pool of reusable
// native timers.
//
// Boundary wake-ups are requested on every clip crossing, so native timers are
// kept in slots and re-armed instead of being created per call. A periodic
// sweep disposes idle slots beyond the first so long idle periods do not hold
// on to timers allocated during a burst.
package timerpool

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// ErrCanceled resolves completions whose context was cancelled before firing.
var ErrCanceled = fmt.Errorf("timerpool: run canceled: %w", context.Canceled)

// DefaultSweepInterval is the reclamation period of the process-wide pool.
const DefaultSweepInterval = 30 * time.Second

// minRetained is the number of slots a sweep never removes.
const minRetained = 1

type slot struct {
	inUse bool
	timer Timer
	// gen identifies the current arming
	gen uint64
	// handler runs at most once per arming; nil while idle
	handler func()
	// stale counts fires of a previous arming that lost the race to Stop and
	// must be swallowed when they arrive.
	stale int
}

// Pool is a set of reusable one-shot timer slots. It is safe for concurrent use.
type Pool struct {
	clock Clock

	mu        sync.Mutex
	slots     []*slot
	highWater int
	sweeper   Timer
	closed    bool
}

// New creates an empty pool. Reclamation does not run until Start.
func New(clock Clock) *Pool {
	if clock == nil {
		clock = SystemClock
	}
	return &Pool{clock: clock}
}

// RunOnce calls action after delay unless ctx is cancelled first.
//
// action runs at most once, on a timer goroutine, and never after the pool
// has observed the cancellation. The returned Completion resolves with nil
// after action returns, or with ErrCanceled.
func (p *Pool) RunOnce(ctx context.Context, delay time.Duration, action func()) *Completion {
	c := newCompletion()
	if ctx.Err() != nil {
		c.resolve(ErrCanceled)
		return c
	}

	var stopWatch func() bool
	handler := func() {
		if stopWatch != nil {
			stopWatch()
		}
		action()
		c.resolve(nil)
	}

	p.mu.Lock()
	s := p.acquireLocked()
	s.handler = handler
	gen := s.gen
	if s.timer == nil {
		s.timer = p.clock.AfterFunc(max(delay, 0), func() { p.fire(s) })
	} else {
		s.timer.Reset(max(delay, 0))
	}
	// Registered under the lock so a cancellation cannot observe the slot
	// before the handler is attached.
	if ctx.Done() != nil {
		stopWatch = context.AfterFunc(ctx, func() {
			if p.release(s, gen) {
				c.resolve(ErrCanceled)
			}
		})
	}
	p.mu.Unlock()

	return c
}

// acquireLocked returns an idle slot, growing the pool when none is free.
func (p *Pool) acquireLocked() *slot {
	var s *slot
	for _, cand := range p.slots {
		if !cand.inUse {
			s = cand
			break
		}
	}
	if s == nil {
		s = &slot{}
		p.slots = append(p.slots, s)
	}
	s.inUse = true
	s.gen++

	inUse := 0
	for _, cand := range p.slots {
		if cand.inUse {
			inUse++
		}
	}
	p.highWater = max(p.highWater, inUse)
	return s
}

// fire is the native timer callback shared by every arming of s.
func (p *Pool) fire(s *slot) {
	p.mu.Lock()
	if s.stale > 0 {
		s.stale--
		p.mu.Unlock()
		return
	}
	if !s.inUse || s.handler == nil {
		p.mu.Unlock()
		return
	}
	h := s.handler
	s.handler = nil
	s.inUse = false
	p.mu.Unlock()

	h()
}

// release detaches the arming gen from s if it is still attached. It reports
// whether the cancellation won; a slot already idle or re-armed for another
// call is left alone.
func (p *Pool) release(s *slot, gen uint64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !s.inUse || s.gen != gen {
		return false
	}
	if !s.timer.Stop() {
		s.stale++
	}
	s.handler = nil
	s.inUse = false
	return true
}

// Sweep disposes idle slots, keeping at least one slot in the pool.
// It returns the number of slots removed.
func (p *Pool) Sweep() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sweepLocked()
}

func (p *Pool) sweepLocked() int {
	removed := 0
	for i := len(p.slots) - 1; i >= minRetained; i-- {
		s := p.slots[i]
		if s.inUse {
			continue
		}
		if s.timer != nil {
			s.timer.Stop()
		}
		p.slots = append(p.slots[:i], p.slots[i+1:]...)
		removed++
	}
	return removed
}

// Start runs Sweep every interval until Close.
func (p *Pool) Start(interval time.Duration) {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed || p.sweeper != nil {
		return
	}
	var tick func()
	tick = func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		if p.closed {
			return
		}
		p.sweepLocked()
		p.sweeper = p.clock.AfterFunc(interval, tick)
	}
	p.sweeper = p.clock.AfterFunc(interval, tick)
}

// Close stops reclamation. Pending runs still fire.
func (p *Pool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	if p.sweeper != nil {
		p.sweeper.Stop()
		p.sweeper = nil
	}
}

// Len is the number of pooled slots.
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.slots)
}

// InUse is the number of slots currently armed.
func (p *Pool) InUse() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, s := range p.slots {
		if s.inUse {
			n++
		}
	}
	return n
}

// HighWater is the largest number of slots ever armed at once.
func (p *Pool) HighWater() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.highWater
}
