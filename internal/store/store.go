// Package store is the durable statistics store: per-question stats, the
// append-only answer history, and session summaries, persisted in SQLite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

var (
	// ErrNotFound is returned when a keyed lookup matches no row.
	ErrNotFound = errors.New("store: not found")
	// ErrNotInitialized is returned by every accessor called before Init
	// has completed successfully.
	ErrNotInitialized = errors.New("store: not initialized")
	// ErrUnavailable wraps failures to open the underlying database.
	ErrUnavailable = errors.New("store: storage unavailable")
)

// Store owns the SQLite connection for the three statistics tables.
// It must be initialized with Init before use; accessors fail with
// ErrNotInitialized until then.
type Store struct {
	path string

	mu sync.Mutex
	db *sql.DB
}

// New creates an unopened store for the database file at path.
func New(path string) *Store {
	return &Store{path: path}
}

// Init opens (creating if needed) the database, applies pragmas, and ensures
// the schema exists. It is idempotent and safe to call from concurrent
// callers; redundant calls are no-ops.
func (s *Store) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db != nil {
		return nil
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("%w: create data dir: %v", ErrUnavailable, err)
		}
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if err := applyPragmas(ctx, db); err != nil {
		db.Close()
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return fmt.Errorf("%w: apply schema: %v", ErrUnavailable, err)
	}

	s.db = db
	return nil
}

// Close closes the database connection. The store can be re-initialized
// afterwards with Init.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// conn returns the open database handle or ErrNotInitialized.
func (s *Store) conn() (*sql.DB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil, ErrNotInitialized
	}
	return s.db, nil
}

// ClearAllData empties all three tables in a single transaction; either every
// table is cleared or none are observably changed. Wired to an explicit,
// irreversible user action.
func (s *Store) ClearAllData(ctx context.Context) error {
	db, err := s.conn()
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin reset: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"question_stats", "answer_history", "sessions"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	return tx.Commit()
}

// applyPragmas configures SQLite for single-user local use.
func applyPragmas(ctx context.Context, db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}
