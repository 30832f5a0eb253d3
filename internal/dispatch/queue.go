package dispatch

// Queue holds dispatched funcs until the owner calls Drain. It suits owners
// that already have their own loop, and tests that step the owner by hand.
type Queue struct {
	q *fifo
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{q: newFIFO()}
}

func (q *Queue) Dispatch(fn func()) { q.q.push(fn) }

// Ready is signalled when funcs are waiting.
func (q *Queue) Ready() <-chan struct{} { return q.q.signal }

// Len is the number of waiting funcs.
func (q *Queue) Len() int { return q.q.len() }

// Drain runs waiting funcs on the caller, including funcs they dispatch,
// and returns how many ran.
func (q *Queue) Drain() int {
	n := 0
	for {
		items := q.q.takeAll()
		if len(items) == 0 {
			return n
		}
		for _, fn := range items {
			fn()
		}
		n += len(items)
	}
}
