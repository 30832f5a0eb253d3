package timerpool

import (
	"context"
	"sync"
	"time"
)

var (
	defaultMu   sync.Mutex
	defaultPool *Pool
)

// Init creates the process-wide pool and starts its reclamation on interval.
// Calling Init again after Shutdown creates a fresh pool.
func Init(interval time.Duration) *Pool {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultPool == nil {
		defaultPool = New(SystemClock)
		defaultPool.Start(interval)
	}
	return defaultPool
}

// Default returns the process-wide pool, initializing it with
// DefaultSweepInterval if Init was never called.
func Default() *Pool {
	return Init(DefaultSweepInterval)
}

// Shutdown stops reclamation on the process-wide pool and forgets it.
func Shutdown() {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultPool != nil {
		defaultPool.Close()
		defaultPool = nil
	}
}

// RunOnce schedules action on the process-wide pool.
func RunOnce(ctx context.Context, delay time.Duration, action func()) *Completion {
	return Default().RunOnce(ctx, delay, action)
}
