// CLAUDE:SUMMARY SQLite open helper — pragmas, schema bootstrap, in-memory test databases.
// Package dbopen centralises SQLite database opening so every store in the
// repo gets the same pragmas and bootstrap behaviour.
package dbopen

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	_ "modernc.org/sqlite"
)

type options struct {
	busyTimeout time.Duration
	mkdirAll    bool
	schema      string
	readOnly    bool
	maxOpen     int
}

// Option customises Open.
type Option func(*options)

// WithBusyTimeout sets the SQLite busy_timeout pragma.
func WithBusyTimeout(d time.Duration) Option {
	return func(o *options) { o.busyTimeout = d }
}

// WithMkdirAll creates the parent directory of the database file if it
// does not exist.
func WithMkdirAll() Option {
	return func(o *options) { o.mkdirAll = true }
}

// WithSchema executes the given DDL after opening. The DDL must be
// idempotent (CREATE TABLE IF NOT EXISTS and friends).
func WithSchema(ddl string) Option {
	return func(o *options) { o.schema = ddl }
}

// WithReadOnly opens the database in read-only mode.
func WithReadOnly() Option {
	return func(o *options) { o.readOnly = true }
}

// WithMaxOpenConns caps the connection pool.
func WithMaxOpenConns(n int) Option {
	return func(o *options) { o.maxOpen = n }
}

// Open opens a SQLite database at path with WAL journaling, foreign keys
// on, and a busy timeout. Path ":memory:" opens an in-memory database
// with a single-connection pool.
func Open(path string, opts ...Option) (*sql.DB, error) {
	o := options{busyTimeout: 5 * time.Second}
	for _, opt := range opts {
		opt(&o)
	}

	memory := path == ":memory:" || strings.HasPrefix(path, "file::memory:")
	if o.mkdirAll && !memory {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("dbopen: mkdir %s: %w", filepath.Dir(path), err)
		}
	}

	dsn := dsnFor(path, o, memory)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("dbopen: open %s: %w", path, err)
	}
	if memory {
		// A second connection would see a different empty database.
		db.SetMaxOpenConns(1)
	} else if o.maxOpen > 0 {
		db.SetMaxOpenConns(o.maxOpen)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("dbopen: ping %s: %w", path, err)
	}
	if o.schema != "" {
		if _, err := db.Exec(o.schema); err != nil {
			db.Close()
			return nil, fmt.Errorf("dbopen: apply schema: %w", err)
		}
	}
	return db, nil
}

func dsnFor(path string, o options, memory bool) string {
	q := url.Values{}
	q.Add("_pragma", "foreign_keys(1)")
	q.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", o.busyTimeout.Milliseconds()))
	if !memory {
		q.Add("_pragma", "journal_mode(WAL)")
		q.Add("_pragma", "synchronous(NORMAL)")
	}
	if o.readOnly {
		q.Set("mode", "ro")
	}
	if memory {
		return "file::memory:?" + q.Encode()
	}
	return "file:" + path + "?" + q.Encode()
}

// OpenMemory opens a throwaway in-memory database for tests and closes it
// on cleanup.
func OpenMemory(t *testing.T, opts ...Option) *sql.DB {
	t.Helper()
	db, err := Open(":memory:", opts...)
	if err != nil {
		t.Fatalf("dbopen: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// RunTx runs fn inside a transaction, committing on nil and rolling back
// on error or panic.
func RunTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("dbopen: begin: %w", err)
	}
	defer tx.Rollback()
	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("dbopen: commit: %w", err)
	}
	return nil
}

// IsBusy reports whether err is a SQLITE_BUSY style contention error.
func IsBusy(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}
