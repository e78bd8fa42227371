package dbopen

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
)

func TestOpenMemoryWithSchema(t *testing.T) {
	db := OpenMemory(t, WithSchema(`CREATE TABLE t (id TEXT PRIMARY KEY, v INTEGER)`))

	if _, err := db.Exec(`INSERT INTO t (id, v) VALUES ('a', 1)`); err != nil {
		t.Fatalf("insert: %v", err)
	}
	var v int
	if err := db.QueryRow(`SELECT v FROM t WHERE id = 'a'`).Scan(&v); err != nil {
		t.Fatalf("select: %v", err)
	}
	if v != 1 {
		t.Errorf("got %d, want 1", v)
	}
}

func TestOpenMkdirAll(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "x.db")
	db, err := Open(path, WithMkdirAll())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		t.Errorf("ping: %v", err)
	}
}

func TestRunTxCommitAndRollback(t *testing.T) {
	db := OpenMemory(t, WithSchema(`CREATE TABLE t (id TEXT PRIMARY KEY)`))
	ctx := context.Background()

	if err := RunTx(ctx, db, func(tx *sql.Tx) error {
		_, err := tx.Exec(`INSERT INTO t (id) VALUES ('keep')`)
		return err
	}); err != nil {
		t.Fatalf("commit tx: %v", err)
	}

	boom := errors.New("boom")
	if err := RunTx(ctx, db, func(tx *sql.Tx) error {
		if _, err := tx.Exec(`INSERT INTO t (id) VALUES ('drop')`); err != nil {
			return err
		}
		return boom
	}); !errors.Is(err, boom) {
		t.Fatalf("rollback tx: got %v, want boom", err)
	}

	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM t`).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Errorf("rows after rollback: got %d, want 1", n)
	}
}

func TestIsBusy(t *testing.T) {
	if IsBusy(nil) {
		t.Error("nil is not busy")
	}
	if !IsBusy(errors.New("stmt: database is locked (5)")) {
		t.Error("locked error should read as busy")
	}
	if IsBusy(errors.New("no such table: t")) {
		t.Error("schema error is not busy")
	}
}
