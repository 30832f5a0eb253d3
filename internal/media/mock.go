package media

import (
	"sync"
	"time"
)

// Mock is a test double for Engine.
type Mock struct {
	mu        sync.Mutex
	playing   bool
	canPause  bool
	closed    bool
	position  time.Duration
	playCalls int
	pauses    int
	closes    int
	seeks     []time.Duration
	playErr   error
	closeErr  error
}

// NewMock creates a paused mock engine that supports pausing.
func NewMock() *Mock {
	return &Mock{canPause: true}
}

func (m *Mock) Play() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playCalls++
	if m.playErr != nil {
		return m.playErr
	}
	m.playing = true
	return nil
}

func (m *Mock) Pause() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pauses++
	m.playing = false
	return nil
}

func (m *Mock) CanPause() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.canPause && m.playing
}

func (m *Mock) Position() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.position
}

func (m *Mock) SetPosition(d time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.position = d
	m.seeks = append(m.seeks, d)
	return nil
}

func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closes++
	m.closed = true
	m.playing = false
	return m.closeErr
}

// Test helpers

// Advance moves the native playhead forward, as a running engine would.
func (m *Mock) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.position += d
}

func (m *Mock) Playing() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.playing
}

func (m *Mock) PlayCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.playCalls
}

func (m *Mock) PauseCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pauses
}

func (m *Mock) CloseCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closes
}

func (m *Mock) SeekCalls() []time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]time.Duration(nil), m.seeks...)
}

func (m *Mock) SetCanPause(ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.canPause = ok
}

func (m *Mock) SetPlayError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playErr = err
}

func (m *Mock) SetCloseError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closeErr = err
}

// MockOpener hands out Mock engines and remembers them by source.
type MockOpener struct {
	mu      sync.Mutex
	engines map[string]*Mock
	opens   map[string]int
	err     error
}

// NewMockOpener creates an opener producing fresh mocks.
func NewMockOpener() *MockOpener {
	return &MockOpener{
		engines: make(map[string]*Mock),
		opens:   make(map[string]int),
	}
}

func (o *MockOpener) Open(source string) (Engine, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.opens[source]++
	if o.err != nil {
		return nil, o.err
	}
	m := NewMock()
	o.engines[source] = m
	return m, nil
}

// SetError makes subsequent opens fail with err.
func (o *MockOpener) SetError(err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.err = err
}

// Engine returns the last mock opened for source, or nil.
func (o *MockOpener) Engine(source string) *Mock {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.engines[source]
}

// Opens returns how many times source was opened.
func (o *MockOpener) Opens(source string) int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.opens[source]
}

// Verify Mock implements Engine at compile time.
var (
	_ Engine = (*Mock)(nil)
	_ Opener = (*MockOpener)(nil)
)
