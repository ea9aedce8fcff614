package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tracklite/checkind/internal/domain/model"
	"github.com/tracklite/checkind/pkg/metrics"

	// SQLite driver, registered as "sqlite".
	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS checkins (
	seq       INTEGER PRIMARY KEY AUTOINCREMENT,
	id        TEXT NOT NULL UNIQUE,
	user      TEXT NOT NULL,
	ts        INTEGER NOT NULL,
	tz_offset INTEGER NOT NULL DEFAULT 0,
	hours     REAL NOT NULL,
	project   TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_checkins_user ON checkins (user);
CREATE INDEX IF NOT EXISTS idx_checkins_ts ON checkins (ts);
`

// SQLiteStore is the durable Store implementation. Timestamps persist as
// unix seconds plus the zone offset of the original instant, which keeps
// the whole-second invariant by construction and reloads each event on its
// own calendar date. The seq column preserves insertion order across
// restarts.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at path and ensures the
// schema exists.
func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", path, err)
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply sqlite schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Append inserts the whole batch inside one transaction: commit when every
// row lands, rollback on the first failure so nothing partial persists.
func (s *SQLiteStore) Append(ctx context.Context, batch []model.CheckinEvent) (int, error) {
	start := time.Now()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin append: %w (%w)", err, ErrStorage)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO checkins (id, user, ts, tz_offset, hours, project) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("prepare append: %w (%w)", err, ErrStorage)
	}
	defer stmt.Close()

	for _, e := range batch {
		_, offset := e.Timestamp.Zone()
		if _, err := stmt.ExecContext(ctx,
			uuid.NewString(), e.User, e.Timestamp.Unix(), offset, e.Hours, e.Project,
		); err != nil {
			_ = tx.Rollback()
			return 0, fmt.Errorf("insert checkin: %w (%w)", err, ErrStorage)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit append: %w (%w)", err, ErrStorage)
	}

	metrics.RecordStoreAppendLatency(float64(time.Since(start).Milliseconds()))
	metrics.UpdateStoreSize(s.Count(ctx))
	return len(batch), nil
}

// All reads every stored event in insertion order. Instants come back in
// a fixed zone at their original offset, so calendar dates match what the
// normalizer produced before the event was persisted.
func (s *SQLiteStore) All(ctx context.Context) ([]model.CheckinEvent, error) {
	start := time.Now()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user, ts, tz_offset, hours, project FROM checkins ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("query checkins: %w (%w)", err, ErrStorage)
	}
	defer rows.Close()

	var events []model.CheckinEvent
	for rows.Next() {
		var (
			e      model.CheckinEvent
			ts     int64
			offset int
		)
		if err := rows.Scan(&e.ID, &e.User, &ts, &offset, &e.Hours, &e.Project); err != nil {
			return nil, fmt.Errorf("scan checkin: %w (%w)", err, ErrStorage)
		}
		if offset == 0 {
			e.Timestamp = time.Unix(ts, 0).UTC()
		} else {
			e.Timestamp = time.Unix(ts, 0).In(time.FixedZone("", offset))
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate checkins: %w (%w)", err, ErrStorage)
	}

	metrics.RecordStoreQueryLatency(float64(time.Since(start).Milliseconds()))
	return events, nil
}

// Count returns the number of stored events.
func (s *SQLiteStore) Count(ctx context.Context) int {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM checkins`).Scan(&n); err != nil {
		return 0
	}
	return n
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
