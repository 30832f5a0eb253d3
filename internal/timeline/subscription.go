package timeline

const eventBufferSize = 16

// Subscription provides event channels for a subscriber. Sends never block
// the player: events are dropped when a subscriber falls behind, so
// consumers needing exact values should read Player.Snapshot.
type Subscription struct {
	StateChanged     <-chan StateChange
	PositionChanged  <-chan PositionChange
	SurfaceChanged   <-chan SurfaceChange
	PlayLimitChanged <-chan PlayLimitChange
	ClipChanged      <-chan ClipChange
	Error            <-chan ErrorEvent
	Done             <-chan struct{}

	stateCh    chan StateChange
	positionCh chan PositionChange
	surfaceCh  chan SurfaceChange
	limitCh    chan PlayLimitChange
	clipCh     chan ClipChange
	errorCh    chan ErrorEvent
	doneCh     chan struct{}
}

func newSubscription() *Subscription {
	s := &Subscription{
		stateCh:    make(chan StateChange, eventBufferSize),
		positionCh: make(chan PositionChange, eventBufferSize),
		surfaceCh:  make(chan SurfaceChange, eventBufferSize),
		limitCh:    make(chan PlayLimitChange, eventBufferSize),
		clipCh:     make(chan ClipChange, eventBufferSize),
		errorCh:    make(chan ErrorEvent, eventBufferSize),
		doneCh:     make(chan struct{}),
	}
	s.StateChanged = s.stateCh
	s.PositionChanged = s.positionCh
	s.SurfaceChanged = s.surfaceCh
	s.PlayLimitChanged = s.limitCh
	s.ClipChanged = s.clipCh
	s.Error = s.errorCh
	s.Done = s.doneCh
	return s
}

func (s *Subscription) close() {
	close(s.doneCh)
}

func trySend[T any](ch chan T, v T) {
	select {
	case ch <- v:
	default:
		// subscriber is behind; drop
	}
}

func (s *Subscription) sendState(e StateChange)         { trySend(s.stateCh, e) }
func (s *Subscription) sendPosition(e PositionChange)   { trySend(s.positionCh, e) }
func (s *Subscription) sendSurface(e SurfaceChange)     { trySend(s.surfaceCh, e) }
func (s *Subscription) sendPlayLimit(e PlayLimitChange) { trySend(s.limitCh, e) }
func (s *Subscription) sendClip(e ClipChange)           { trySend(s.clipCh, e) }
func (s *Subscription) sendError(e ErrorEvent)          { trySend(s.errorCh, e) }
