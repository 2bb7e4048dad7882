// Package runstore persists the final statistics of completed runs in
// a SQLite database, one row per run.
package runstore

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Run is one completed simulation run.
type Run struct {
	ID            string
	Width         int
	Height        int
	Robots        int
	DirtFraction  float64
	Seed          int64
	Rounds        int
	Cleaned       int
	InitialDirty  int
	Movements     int
	CompletionPct float64
	Elapsed       time.Duration
	RecordedAt    time.Time
}

// Store wraps the runs database.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
  id             TEXT PRIMARY KEY,
  width          INTEGER NOT NULL,
  height         INTEGER NOT NULL,
  robots         INTEGER NOT NULL,
  dirt_fraction  REAL    NOT NULL,
  seed           INTEGER NOT NULL,
  rounds         INTEGER NOT NULL,
  cleaned        INTEGER NOT NULL,
  initial_dirty  INTEGER NOT NULL,
  movements      INTEGER NOT NULL,
  completion_pct REAL    NOT NULL,
  elapsed_ms     INTEGER NOT NULL,
  recorded_at    TEXT    NOT NULL
);
`

// Open creates or opens the database at path and ensures the schema.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("runstore: empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("runstore: ensure schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }

// Insert records one run. A missing ID or timestamp is filled in.
func (s *Store) Insert(ctx context.Context, run Run) (Run, error) {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.RecordedAt.IsZero() {
		run.RecordedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO runs (id, width, height, robots, dirt_fraction, seed, rounds,
                  cleaned, initial_dirty, movements, completion_pct,
                  elapsed_ms, recorded_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Width, run.Height, run.Robots, run.DirtFraction,
		run.Seed, run.Rounds, run.Cleaned, run.InitialDirty, run.Movements,
		run.CompletionPct, run.Elapsed.Milliseconds(),
		run.RecordedAt.Format(time.RFC3339Nano))
	if err != nil {
		return run, fmt.Errorf("runstore: insert run: %w", err)
	}
	return run, nil
}

// List returns every recorded run, oldest first.
func (s *Store) List(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, width, height, robots, dirt_fraction, seed, rounds, cleaned,
       initial_dirty, movements, completion_pct, elapsed_ms, recorded_at
FROM runs ORDER BY recorded_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var run Run
		var elapsedMS int64
		var recordedAt string
		if err := rows.Scan(&run.ID, &run.Width, &run.Height, &run.Robots,
			&run.DirtFraction, &run.Seed, &run.Rounds, &run.Cleaned,
			&run.InitialDirty, &run.Movements, &run.CompletionPct,
			&elapsedMS, &recordedAt); err != nil {
			return nil, err
		}
		run.Elapsed = time.Duration(elapsedMS) * time.Millisecond
		if ts, err := time.Parse(time.RFC3339Nano, recordedAt); err == nil {
			run.RecordedAt = ts
		}
		out = append(out, run)
	}
	return out, rows.Err()
}
