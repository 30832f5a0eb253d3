package timerpool

import "time"

// Timer is a reusable native one-shot timer.
type Timer interface {
	// Stop reports false when the timer already fired or was stopped.
	Stop() bool
	Reset(d time.Duration) bool
}

// Clock provides the native timers backing pool slots.
// Tests can inject their own implementation.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
	Now() time.Time
}

// SystemClock is the default Clock backed by the time package.
var SystemClock Clock = systemClock{}

type systemClock struct{}

func (systemClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

func (systemClock) Now() time.Time {
	return time.Now()
}
