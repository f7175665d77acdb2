package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"aichat/domain"
)

// SQLiteSnapshotter persists the snapshot as a single named blob in a
// key-value table.
type SQLiteSnapshotter struct {
	db   *sql.DB
	name string
}

// NewSQLiteSnapshotter opens (or creates) the snapshot database. The
// name selects which blob this store reads and rewrites.
func NewSQLiteSnapshotter(dsn, name string) (*SQLiteSnapshotter, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Single writer, and keeps :memory: databases on one connection.
	db.SetMaxOpenConns(1)

	s := &SQLiteSnapshotter{db: db, name: name}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

func (s *SQLiteSnapshotter) migrate() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS snapshots (
		name TEXT PRIMARY KEY,
		data TEXT NOT NULL,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}

// Load reads the blob. A missing row means a fresh store: (nil, nil).
func (s *SQLiteSnapshotter) Load(ctx context.Context) (*domain.Snapshot, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM snapshots WHERE name = ?`, s.name).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var snap domain.Snapshot
	if err := json.Unmarshal([]byte(data), &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	return &snap, nil
}

// Save rewrites the blob in full.
func (s *SQLiteSnapshotter) Save(ctx context.Context, snap *domain.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO snapshots (name, data, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(name) DO UPDATE SET data = excluded.data, updated_at = CURRENT_TIMESTAMP`,
		s.name, string(data))
	return err
}

// Close closes the database connection.
func (s *SQLiteSnapshotter) Close() error {
	return s.db.Close()
}
