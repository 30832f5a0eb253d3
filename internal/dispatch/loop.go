package dispatch

import "sync"

// Loop is an owner goroutine draining dispatched funcs in order.
type Loop struct {
	q    *fifo
	stop chan struct{}
	done chan struct{}
	once sync.Once
}

// NewLoop starts the owner goroutine.
func NewLoop() *Loop {
	l := &Loop{
		q:    newFIFO(),
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	go l.run()
	return l
}

// Dispatch queues fn. Funcs dispatched after Close are dropped.
func (l *Loop) Dispatch(fn func()) {
	select {
	case <-l.stop:
		return
	default:
	}
	l.q.push(fn)
}

// Do runs fn on the loop and waits for it. It must not be called from the
// loop goroutine itself.
func (l *Loop) Do(fn func()) {
	ran := make(chan struct{})
	l.Dispatch(func() {
		defer close(ran)
		fn()
	})
	select {
	case <-ran:
	case <-l.done:
	}
}

// Close runs what is already queued, then stops the loop.
func (l *Loop) Close() {
	l.once.Do(func() { close(l.stop) })
	<-l.done
}

func (l *Loop) run() {
	defer close(l.done)
	for {
		select {
		case <-l.q.signal:
			l.drain()
		case <-l.stop:
			l.drain()
			return
		}
	}
}

func (l *Loop) drain() {
	for {
		items := l.q.takeAll()
		if len(items) == 0 {
			return
		}
		for _, fn := range items {
			fn()
		}
	}
}
