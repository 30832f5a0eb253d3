// Package poller reports wall-clock time elapsed between fixed-interval ticks.
package poller

import (
	"sync"
	"time"
)

// DefaultInterval is used when New is given a non-positive interval.
const DefaultInterval = 250 * time.Millisecond

// Poller ticks at a fixed interval while running. Every tick calls the
// callback with the time elapsed since the previous tick, zero for the first
// tick after Start. The callback runs on the poller goroutine.
type Poller struct {
	interval time.Duration
	callback func(elapsed time.Duration)

	mu      sync.Mutex
	running bool
	stop    chan struct{}
	done    chan struct{}
}

// New creates a stopped poller.
func New(interval time.Duration, callback func(elapsed time.Duration)) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Poller{interval: interval, callback: callback}
}

// Interval returns the tick period.
func (p *Poller) Interval() time.Duration { return p.interval }

// Start begins ticking and resets the previous-tick baseline.
// Starting a running poller restarts it.
func (p *Poller) Start() {
	p.Stop()

	p.mu.Lock()
	defer p.mu.Unlock()
	p.running = true
	p.stop = make(chan struct{})
	p.done = make(chan struct{})
	go p.loop(p.stop, p.done)
}

// Stop halts ticking. No callback starts after Stop returns. Stop must not be
// called from inside the callback.
func (p *Poller) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	stop, done := p.stop, p.done
	p.mu.Unlock()

	close(stop)
	<-done
}

// IsRunning reports whether the poller is ticking.
func (p *Poller) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

func (p *Poller) loop(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	var last time.Time
	for {
		select {
		case <-stop:
			return
		case now := <-ticker.C:
			select {
			case <-stop:
				return
			default:
			}
			var elapsed time.Duration
			if !last.IsZero() {
				elapsed = now.Sub(last)
			}
			last = now
			p.callback(elapsed)
		}
	}
}
