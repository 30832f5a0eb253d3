// Package dispatch marshals work onto a single owner goroutine.
//
// Timeline state has exactly one writer. Timer and poller callbacks run on
// their own goroutines and hand their work to a Dispatcher instead of
// touching state directly.
package dispatch

import "sync"

// Dispatcher runs fn on the owner goroutine, in submission order.
// Dispatch must never block the caller.
type Dispatcher interface {
	Dispatch(fn func())
}

// Func adapts a function to Dispatcher.
type Func func(fn func())

// Dispatch calls f(fn).
func (f Func) Dispatch(fn func()) { f(fn) }

// fifo is an unbounded, mutex-guarded queue of funcs.
type fifo struct {
	mu     sync.Mutex
	items  []func()
	signal chan struct{}
}

func newFIFO() *fifo {
	return &fifo{signal: make(chan struct{}, 1)}
}

func (q *fifo) push(fn func()) {
	q.mu.Lock()
	q.items = append(q.items, fn)
	q.mu.Unlock()
	select {
	case q.signal <- struct{}{}:
	default:
	}
}

func (q *fifo) takeAll() []func() {
	q.mu.Lock()
	defer q.mu.Unlock()
	items := q.items
	q.items = nil
	return items
}

func (q *fifo) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
