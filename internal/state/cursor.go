package state

import (
	"database/sql"
	"errors"
	"time"

	dbutil "github.com/llehouerou/reel/internal/db"
)

// Cursor is the saved timeline position and active clip.
type Cursor struct {
	Position     time.Duration
	ActiveSource string // empty when no clip was selected
}

func getCursor(db *sql.DB) (*Cursor, error) {
	var posNs int64
	var active sql.NullString
	err := db.QueryRow(`SELECT position_ns, active_source FROM cursor WHERE id = 1`).Scan(&posNs, &active)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil //nolint:nilnil // no saved cursor is valid on first run
	}
	if err != nil {
		return nil, err
	}
	return &Cursor{
		Position:     time.Duration(posNs),
		ActiveSource: dbutil.NullStringValue(active),
	}, nil
}

func saveCursor(db *sql.DB, c Cursor) error {
	_, err := db.Exec(`
		INSERT INTO cursor (id, position_ns, active_source)
		VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			position_ns = excluded.position_ns,
			active_source = excluded.active_source
	`, int64(c.Position), dbutil.NullString(c.ActiveSource))
	return err
}
