package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore persists snapshots to a single-file SQLite database. Zero
// setup, one writer at a time — a good fit for local runs and tests that
// want real persistence without a server.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) a SQLite database at path —
// ":memory:" works for a process-local, restart-losing store.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	ctx := context.Background()
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("configure sqlite: %w", err)
		}
	}

	s := &SQLiteStore{db: db}
	if err := s.createTables(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) createTables(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS process_steps (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL,
			snapshot TEXT NOT NULL,
			saved_at TIMESTAMP NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_process_steps_run_id ON process_steps(run_id, id)`,
		`CREATE TABLE IF NOT EXISTS process_checkpoints (
			label TEXT PRIMARY KEY,
			snapshot TEXT NOT NULL,
			saved_at TIMESTAMP NOT NULL
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create sqlite schema: %w", err)
		}
	}
	return nil
}

// Save appends snapshot as a new row for runID.
func (s *SQLiteStore) Save(ctx context.Context, runID string, snapshot Snapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO process_steps (run_id, snapshot, saved_at) VALUES (?, ?, ?)`,
		runID, string(data), time.Now())
	return err
}

// LoadLatest returns the most recently inserted row for runID.
func (s *SQLiteStore) LoadLatest(ctx context.Context, runID string) (Snapshot, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT snapshot FROM process_steps WHERE run_id = ? ORDER BY id DESC LIMIT 1`, runID)
	var raw string
	if err := row.Scan(&raw); err != nil {
		if err == sql.ErrNoRows {
			return Snapshot{}, ErrNotFound
		}
		return Snapshot{}, err
	}
	var snap Snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return Snapshot{}, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return snap, nil
}

// SaveCheckpoint upserts a named snapshot.
func (s *SQLiteStore) SaveCheckpoint(ctx context.Context, label string, snapshot Snapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO process_checkpoints (label, snapshot, saved_at) VALUES (?, ?, ?)
		 ON CONFLICT(label) DO UPDATE SET snapshot = excluded.snapshot, saved_at = excluded.saved_at`,
		label, string(data), time.Now())
	return err
}

// LoadCheckpoint retrieves a named snapshot.
func (s *SQLiteStore) LoadCheckpoint(ctx context.Context, label string) (Snapshot, error) {
	row := s.db.QueryRowContext(ctx, `SELECT snapshot FROM process_checkpoints WHERE label = ?`, label)
	var raw string
	if err := row.Scan(&raw); err != nil {
		if err == sql.ErrNoRows {
			return Snapshot{}, ErrNotFound
		}
		return Snapshot{}, err
	}
	var snap Snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return Snapshot{}, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return snap, nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
