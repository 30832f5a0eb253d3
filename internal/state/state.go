// Package state persists clip placements and the timeline cursor between
// runs.
package state

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/adrg/xdg"
	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite" // SQLite driver
)

const (
	appName      = "reel"
	dbFileName   = "reel.db"
	saveDebounce = 500 * time.Millisecond
)

type Manager struct {
	db        *sql.DB
	saveMu    sync.Mutex
	saveTimer *time.Timer
	pending   *Cursor
}

// Open opens the database under the XDG data directory.
func Open() (*Manager, error) {
	dbPath, err := getDBPath()
	if err != nil {
		return nil, err
	}
	return OpenPath(dbPath)
}

// OpenPath opens or creates the database at dbPath.
func OpenPath(dbPath string) (*Manager, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	// sqlite serializes writers anyway; one connection also keeps
	// :memory: databases shared
	db.SetMaxOpenConns(1)

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Manager{db: db}, nil
}

// Close flushes a pending cursor save and closes the database.
func (m *Manager) Close() error {
	m.saveMu.Lock()
	if m.saveTimer != nil {
		m.saveTimer.Stop()
	}
	pending := m.pending
	m.pending = nil
	m.saveMu.Unlock()

	if pending != nil {
		if err := saveCursor(m.db, *pending); err != nil {
			logrus.WithError(err).Warn("state: flush cursor")
		}
	}

	return m.db.Close()
}

// Placements returns stored clip starts keyed by source.
func (m *Manager) Placements() (map[string]time.Duration, error) {
	return getPlacements(m.db)
}

// SavePlacements stores the placements atomically.
func (m *Manager) SavePlacements(ctx context.Context, placements []Placement) error {
	return savePlacements(ctx, m.db, placements)
}

// DeletePlacement forgets the placement of source.
func (m *Manager) DeletePlacement(source string) error {
	return deletePlacement(m.db, source)
}

// GetCursor returns the saved cursor, or nil on first run.
func (m *Manager) GetCursor() (*Cursor, error) {
	return getCursor(m.db)
}

// SaveCursor schedules the cursor to be written. Calls within the debounce
// window coalesce into one write of the latest value.
func (m *Manager) SaveCursor(c Cursor) {
	m.saveMu.Lock()
	defer m.saveMu.Unlock()

	m.pending = &c

	if m.saveTimer != nil {
		m.saveTimer.Stop()
	}

	m.saveTimer = time.AfterFunc(saveDebounce, func() {
		m.saveMu.Lock()
		pending := m.pending
		m.pending = nil
		m.saveMu.Unlock()

		if pending != nil {
			if err := saveCursor(m.db, *pending); err != nil {
				logrus.WithError(err).Warn("state: save cursor")
			}
		}
	})
}

func getDBPath() (string, error) {
	return xdg.DataFile(filepath.Join(appName, dbFileName))
}
