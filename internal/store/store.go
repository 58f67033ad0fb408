package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Store handles all run-history database operations
type Store struct {
	db *sql.DB
}

// New creates a new Store with SQLite backend
func New(dbPath string) (*Store, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		scenario TEXT NOT NULL,
		target_url TEXT NOT NULL,
		status TEXT NOT NULL,
		error TEXT,
		started_at DATETIME NOT NULL,
		finished_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS captures (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL REFERENCES runs(id),
		label TEXT NOT NULL,
		path TEXT NOT NULL,
		size INTEGER NOT NULL,
		taken_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
	CREATE INDEX IF NOT EXISTS idx_captures_run_id ON captures(run_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// SaveRun inserts a run and its captures in one transaction
func (s *Store) SaveRun(run *Run, captures []Capture) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO runs (id, scenario, target_url, status, error, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.Scenario, run.TargetURL, run.Status, run.Error, run.StartedAt, run.FinishedAt)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	for _, c := range captures {
		_, err := tx.Exec(`
			INSERT INTO captures (run_id, label, path, size, taken_at)
			VALUES (?, ?, ?, ?, ?)
		`, run.ID, c.Label, c.Path, c.Size, c.TakenAt)
		if err != nil {
			return fmt.Errorf("failed to insert capture %s: %w", c.Label, err)
		}
	}

	return tx.Commit()
}

// RecentRuns returns the most recent runs, newest first
func (s *Store) RecentRuns(limit int) ([]Run, error) {
	rows, err := s.db.Query(`
		SELECT id, scenario, target_url, status, COALESCE(error, ''), started_at, finished_at
		FROM runs
		ORDER BY started_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRuns(rows)
}

// LastRun returns the most recent run, or nil if history is empty
func (s *Store) LastRun() (*Run, error) {
	runs, err := s.RecentRuns(1)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, nil
	}
	return &runs[0], nil
}

// CapturesForRun returns captures for a run in the order they were taken
func (s *Store) CapturesForRun(runID string) ([]Capture, error) {
	rows, err := s.db.Query(`
		SELECT id, run_id, label, path, size, taken_at
		FROM captures
		WHERE run_id = ?
		ORDER BY id
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var captures []Capture
	for rows.Next() {
		var c Capture
		if err := rows.Scan(&c.ID, &c.RunID, &c.Label, &c.Path, &c.Size, &c.TakenAt); err != nil {
			return nil, err
		}
		captures = append(captures, c)
	}
	return captures, rows.Err()
}

// RunExists checks if a run ID already exists
func (s *Store) RunExists(id string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM runs WHERE id = ?)`, id).Scan(&exists)
	return exists, err
}

func scanRuns(rows *sql.Rows) ([]Run, error) {
	var runs []Run
	for rows.Next() {
		var r Run
		err := rows.Scan(
			&r.ID, &r.Scenario, &r.TargetURL, &r.Status, &r.Error,
			&r.StartedAt, &r.FinishedAt,
		)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
