package state

import (
	"context"
	"database/sql"
	"time"

	dbutil "github.com/llehouerou/reel/internal/db"
)

// Placement is where a source sits on the timeline.
type Placement struct {
	Source string
	Start  time.Duration
}

func getPlacements(db *sql.DB) (map[string]time.Duration, error) {
	rows, err := db.Query(`SELECT source, start_ns FROM placements`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]time.Duration)
	for rows.Next() {
		var source string
		var startNs int64
		if err := rows.Scan(&source, &startNs); err != nil {
			return nil, err
		}
		out[source] = time.Duration(startNs)
	}
	return out, rows.Err()
}

// savePlacements upserts every placement in one transaction. Sources not
// listed keep their stored placement.
func savePlacements(ctx context.Context, sqlDB *sql.DB, placements []Placement) error {
	now := time.Now().Unix()
	return dbutil.WithTx(ctx, sqlDB, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO placements (source, start_ns, updated_at)
			VALUES (?, ?, ?)
			ON CONFLICT(source) DO UPDATE SET
				start_ns = excluded.start_ns,
				updated_at = excluded.updated_at
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, p := range placements {
			if _, err := stmt.ExecContext(ctx, p.Source, int64(p.Start), now); err != nil {
				return err
			}
		}
		return nil
	})
}

func deletePlacement(db *sql.DB, source string) error {
	_, err := db.Exec(`DELETE FROM placements WHERE source = ?`, source)
	return err
}
