// CLAUDE:SUMMARY Data access layer: document snapshots, query log, stats aggregate.
// Package store is the persistence layer for the inspect service. One
// database holds snapshot metadata for every loaded document plus a log
// of facade queries.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hazyhaar/domscope/dbopen"
)

// Store wraps the inspect database.
type Store struct {
	DB *sql.DB
}

// Open opens (or creates) the inspect database at path and applies the
// schema. Path ":memory:" is valid for tests.
func Open(path string) (*Store, error) {
	db, err := dbopen.Open(path, dbopen.WithMkdirAll(), dbopen.WithSchema(Schema))
	if err != nil {
		return nil, fmt.Errorf("store: open: %w", err)
	}
	return &Store{DB: db}, nil
}

// NewStore wraps an already-opened database. The caller owns the schema.
func NewStore(db *sql.DB) *Store {
	return &Store{DB: db}
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.DB.Close()
}

// UpsertDocument inserts or replaces the snapshot row for d.DocKey.
func (s *Store) UpsertDocument(ctx context.Context, d *Document) error {
	quirks := 0
	if d.Quirks {
		quirks = 1
	}
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO documents (id, doc_key, url, content_hash, node_count, element_count, scope_count, quirks, loaded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(doc_key) DO UPDATE SET
			id = excluded.id,
			url = excluded.url,
			content_hash = excluded.content_hash,
			node_count = excluded.node_count,
			element_count = excluded.element_count,
			scope_count = excluded.scope_count,
			quirks = excluded.quirks,
			loaded_at = excluded.loaded_at`,
		d.ID, d.DocKey, d.URL, d.ContentHash, d.NodeCount, d.ElementCount, d.ScopeCount, quirks, d.LoadedAt)
	if err != nil {
		return fmt.Errorf("store: upsert document %s: %w", d.DocKey, err)
	}
	return nil
}

// GetDocument returns the snapshot for key, or nil when absent.
func (s *Store) GetDocument(ctx context.Context, key string) (*Document, error) {
	row := s.DB.QueryRowContext(ctx, `
		SELECT id, doc_key, url, content_hash, node_count, element_count, scope_count, quirks, loaded_at
		FROM documents WHERE doc_key = ?`, key)
	d, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: get document %s: %w", key, err)
	}
	return d, nil
}

// ListDocuments returns all snapshots, most recently loaded first.
func (s *Store) ListDocuments(ctx context.Context) ([]*Document, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, doc_key, url, content_hash, node_count, element_count, scope_count, quirks, loaded_at
		FROM documents ORDER BY loaded_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("store: list documents: %w", err)
	}
	defer rows.Close()

	var docs []*Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("store: scan document: %w", err)
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

// DeleteDocument removes the snapshot for key. Missing keys are not an error.
func (s *Store) DeleteDocument(ctx context.Context, key string) error {
	if _, err := s.DB.ExecContext(ctx, `DELETE FROM documents WHERE doc_key = ?`, key); err != nil {
		return fmt.Errorf("store: delete document %s: %w", key, err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(row scanner) (*Document, error) {
	var d Document
	var quirks int
	if err := row.Scan(&d.ID, &d.DocKey, &d.URL, &d.ContentHash,
		&d.NodeCount, &d.ElementCount, &d.ScopeCount, &quirks, &d.LoadedAt); err != nil {
		return nil, err
	}
	d.Quirks = quirks != 0
	return &d, nil
}

// LogQuery appends one row to the query log.
func (s *Store) LogQuery(ctx context.Context, q *QueryRecord) error {
	found := 0
	if q.Found {
		found = 1
	}
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO query_log (id, doc_key, operation, argument, found, at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		q.ID, q.DocKey, q.Operation, q.Argument, found, q.At)
	if err != nil {
		return fmt.Errorf("store: log query: %w", err)
	}
	return nil
}

// RecentQueries returns the last n queries for a document key, newest first.
// An empty key returns queries across all documents.
func (s *Store) RecentQueries(ctx context.Context, key string, n int) ([]*QueryRecord, error) {
	if n <= 0 {
		n = 50
	}
	query := `SELECT id, doc_key, operation, argument, found, at FROM query_log`
	args := []any{}
	if key != "" {
		query += ` WHERE doc_key = ?`
		args = append(args, key)
	}
	query += ` ORDER BY at DESC LIMIT ?`
	args = append(args, n)

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("store: recent queries: %w", err)
	}
	defer rows.Close()

	var out []*QueryRecord
	for rows.Next() {
		var q QueryRecord
		var found int
		if err := rows.Scan(&q.ID, &q.DocKey, &q.Operation, &q.Argument, &found, &q.At); err != nil {
			return nil, fmt.Errorf("store: scan query: %w", err)
		}
		q.Found = found != 0
		out = append(out, &q)
	}
	return out, rows.Err()
}

// GetStats aggregates document and query counts.
func (s *Store) GetStats(ctx context.Context) (*Stats, error) {
	var st Stats
	err := s.DB.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(node_count), 0), COALESCE(SUM(scope_count), 0)
		FROM documents`).Scan(&st.Documents, &st.Nodes, &st.Scopes)
	if err != nil {
		return nil, fmt.Errorf("store: stats documents: %w", err)
	}
	err = s.DB.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(found), 0) FROM query_log`).Scan(&st.Queries, &st.QueriesFound)
	if err != nil {
		return nil, fmt.Errorf("store: stats queries: %w", err)
	}
	return &st, nil
}
