package state

import (
	"context"
	"time"
)

// Interface defines the state manager contract for dependency injection and testing.
type Interface interface {
	Placements() (map[string]time.Duration, error)
	SavePlacements(ctx context.Context, placements []Placement) error
	DeletePlacement(source string) error
	GetCursor() (*Cursor, error)
	SaveCursor(c Cursor)
	Close() error
}

// Verify Manager implements Interface at compile time.
var _ Interface = (*Manager)(nil)
