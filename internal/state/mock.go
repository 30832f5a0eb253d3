package state

import (
	"context"
	"maps"
	"sync"
	"time"
)

// Mock is a test double for Manager.
type Mock struct {
	mu         sync.Mutex
	placements map[string]time.Duration
	cursor     *Cursor
	saves      int
	closed     bool
}

// NewMock creates a new mock state manager for testing.
func NewMock() *Mock {
	return &Mock{placements: make(map[string]time.Duration)}
}

func (m *Mock) Placements() (map[string]time.Duration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return maps.Clone(m.placements), nil
}

func (m *Mock) SavePlacements(_ context.Context, placements []Placement) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range placements {
		m.placements[p.Source] = p.Start
	}
	m.saves++
	return nil
}

func (m *Mock) DeletePlacement(source string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.placements, source)
	return nil
}

func (m *Mock) GetCursor() (*Cursor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cursor == nil {
		return nil, nil //nolint:nilnil // mirrors Manager on first run
	}
	c := *m.cursor
	return &c, nil
}

func (m *Mock) SaveCursor(c Cursor) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cursor = &c
}

func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Test helpers

func (m *Mock) SetCursor(c *Cursor) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cursor = c
}

func (m *Mock) PlacementSaves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

func (m *Mock) IsClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Verify Mock implements Interface at compile time.
var _ Interface = (*Mock)(nil)
