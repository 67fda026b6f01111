package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	_ "modernc.org/sqlite"
)

// MemoryPath opens a private in-memory catalog. Used by tests and dry runs.
const MemoryPath = ":memory:"

// dsnPragmas are applied by the driver on every new connection.
const dsnPragmas = "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"

// querier is the subset of *sql.DB and *sql.Tx the catalog statements need.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store is the SQLite card catalog. Reads run directly against the database;
// the importer groups the writes for one card in a Tx.
type Store struct {
	writer

	mu     sync.Mutex
	db     *sql.DB
	path   string
	closed bool
}

// Open opens (creating if needed) the catalog at path and applies the schema.
// The parent directory is created when missing.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("open catalog: database path is required")
	}

	if path != MemoryPath {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create database directory: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite", path+"?"+dsnPragmas)
	if err != nil {
		return nil, fmt.Errorf("open catalog %s: %w", path, err)
	}
	// One connection keeps an in-memory catalog shared and serializes writers.
	db.SetMaxOpenConns(1)

	if err := applySchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{writer: writer{q: db}, db: db, path: path}, nil
}

func applySchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schemaDDL {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	for _, stmt := range indexDDL {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply indexes: %w", err)
		}
	}
	return nil
}

// Path returns the path the store was opened with.
func (s *Store) Path() string { return s.path }

// Close releases the database handle. Close is idempotent.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

// Tx groups catalog writes. It exposes the same write operations as Store.
// While a Tx is open it holds the store's only connection, so callers must
// not use the Store until Commit or Rollback.
type Tx struct {
	writer
	tx *sql.Tx
}

// Begin starts a write transaction.
func (s *Store) Begin(ctx context.Context) (*Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	return &Tx{writer: writer{q: tx}, tx: tx}, nil
}

// Commit commits the transaction.
func (t *Tx) Commit() error {
	if err := t.tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Rollback aborts the transaction. Rolling back a finished transaction is a
// no-op.
func (t *Tx) Rollback() error {
	if err := t.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return fmt.Errorf("rollback transaction: %w", err)
	}
	return nil
}
