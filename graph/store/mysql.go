package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// MySQLStore persists snapshots to a MySQL/MariaDB database — the
// choice for long-running or distributed deployments where a process
// restart shouldn't lose run history.
//
// DSN format: [username[:password]@][protocol[(address)]]/dbname[?params].
// Never hardcode credentials; read the DSN from the environment.
type MySQLStore struct {
	db *sql.DB
}

// NewMySQLStore opens a connection pool against dsn and ensures the
// required tables exist.
func NewMySQLStore(dsn string) (*MySQLStore, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(10 * time.Minute)

	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping mysql: %w", err)
	}

	s := &MySQLStore{db: db}
	if err := s.createTables(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *MySQLStore) createTables(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS process_steps (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			run_id VARCHAR(191) NOT NULL,
			snapshot JSON NOT NULL,
			saved_at TIMESTAMP NOT NULL,
			INDEX idx_process_steps_run_id (run_id, id)
		)`,
		`CREATE TABLE IF NOT EXISTS process_checkpoints (
			label VARCHAR(191) PRIMARY KEY,
			snapshot JSON NOT NULL,
			saved_at TIMESTAMP NOT NULL
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create mysql schema: %w", err)
		}
	}
	return nil
}

// Save appends snapshot as a new row for runID.
func (s *MySQLStore) Save(ctx context.Context, runID string, snapshot Snapshot) error {
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
func (s *MySQLStore) LoadLatest(ctx context.Context, runID string) (Snapshot, error) {
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
func (s *MySQLStore) SaveCheckpoint(ctx context.Context, label string, snapshot Snapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO process_checkpoints (label, snapshot, saved_at) VALUES (?, ?, ?)
		 ON DUPLICATE KEY UPDATE snapshot = VALUES(snapshot), saved_at = VALUES(saved_at)`,
		label, string(data), time.Now())
	return err
}

// LoadCheckpoint retrieves a named snapshot.
func (s *MySQLStore) LoadCheckpoint(ctx context.Context, label string) (Snapshot, error) {
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

// Close releases the underlying connection pool.
func (s *MySQLStore) Close() error {
	return s.db.Close()
}
