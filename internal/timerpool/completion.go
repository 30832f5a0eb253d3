package timerpool

import (
	"context"
	"sync"
)

// Completion reports the outcome of a RunOnce call.
type Completion struct {
	once sync.Once
	done chan struct{}
	err  error
}

func newCompletion() *Completion {
	return &Completion{done: make(chan struct{})}
}

// resolve is idempotent; the first outcome wins.
func (c *Completion) resolve(err error) {
	c.once.Do(func() {
		c.err = err
		close(c.done)
	})
}

// Done is closed once the run fired or was cancelled.
func (c *Completion) Done() <-chan struct{} { return c.done }

// Err is nil after a normal fire and ErrCanceled after cancellation.
// It must only be read after Done is closed.
func (c *Completion) Err() error {
	select {
	case <-c.done:
		return c.err
	default:
		return nil
	}
}

// Wait blocks until the run resolves or ctx is done.
func (c *Completion) Wait(ctx context.Context) error {
	select {
	case <-c.done:
		return c.err
	case <-ctx.Done():
		return ctx.Err()
	}
}
