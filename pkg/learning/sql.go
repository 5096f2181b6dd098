package learning

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	_ "github.com/tursodatabase/go-libsql"
)

var sqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS learning (
		reading    TEXT NOT NULL,
		candidate  TEXT NOT NULL,
		count      INTEGER NOT NULL DEFAULT 1,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (reading, candidate)
	);`,
	`CREATE INDEX IF NOT EXISTS idx_learning_reading ON learning(reading);`,
}

// SQLPersister stores counts in a libsql database, one row per pair.
type SQLPersister struct {
	db *sql.DB
}

var _ Persister = (*SQLPersister)(nil)

// OpenSQL opens (creating if needed) the database at path and migrates it.
// ":memory:" gives a throwaway database.
func OpenSQL(ctx context.Context, path string) (*SQLPersister, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("learning: creating db dir: %w", err)
		}
	}
	db, err := sql.Open("libsql", path)
	if err != nil {
		return nil, fmt.Errorf("learning: opening db: %w", err)
	}
	// single connection keeps :memory: databases shared across calls
	db.SetMaxOpenConns(1)
	return NewSQLPersister(ctx, db)
}

// NewSQLPersister migrates db and wraps it.
func NewSQLPersister(ctx context.Context, db *sql.DB) (*SQLPersister, error) {
	for _, stmt := range sqlSchema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("learning: failed to run migration statement: %w", err)
		}
	}
	return &SQLPersister{db: db}, nil
}

func (p *SQLPersister) Load(ctx context.Context) (Snapshot, error) {
	rows, err := p.db.QueryContext(ctx, `SELECT reading, candidate, count FROM learning ORDER BY reading, candidate`)
	if err != nil {
		return nil, fmt.Errorf("learning: querying counts: %w", err)
	}
	defer rows.Close()

	var snap Snapshot
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Reading, &e.Candidate, &e.Count); err != nil {
			return nil, fmt.Errorf("learning: scanning row: %w", err)
		}
		snap = append(snap, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	log.Debugf("Loaded %d learned pairs from db", len(snap))
	return snap, nil
}

func (p *SQLPersister) Record(ctx context.Context, reading, candidate string) error {
	if reading == "" || candidate == "" {
		return nil
	}
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO learning (reading, candidate, count)
		VALUES (?, ?, 1)
		ON CONFLICT(reading, candidate) DO UPDATE SET
			count = count + 1,
			updated_at = CURRENT_TIMESTAMP
	`, reading, candidate)
	if err != nil {
		return fmt.Errorf("learning: recording %s: %w", PairKey(reading, candidate), err)
	}
	return nil
}

func (p *SQLPersister) Close() error {
	return p.db.Close()
}
