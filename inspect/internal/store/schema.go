// CLAUDE:SUMMARY SQL schema for document snapshots and the query log.
package store

// Schema is applied on open. All statements are idempotent.
const Schema = `
-- Snapshot row per loaded document
CREATE TABLE IF NOT EXISTS documents (
    id             TEXT PRIMARY KEY,
    doc_key        TEXT NOT NULL UNIQUE,
    url            TEXT NOT NULL DEFAULT '',
    content_hash   TEXT NOT NULL,
    node_count     INTEGER NOT NULL,
    element_count  INTEGER NOT NULL,
    scope_count    INTEGER NOT NULL,
    quirks         INTEGER NOT NULL DEFAULT 0,
    loaded_at      INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_documents_loaded ON documents(loaded_at DESC);

-- One row per facade query (observability)
CREATE TABLE IF NOT EXISTS query_log (
    id         TEXT PRIMARY KEY,
    doc_key    TEXT NOT NULL,
    operation  TEXT NOT NULL,
    argument   TEXT NOT NULL DEFAULT '',
    found      INTEGER NOT NULL DEFAULT 0,
    at         INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_query_log_doc ON query_log(doc_key, at DESC);
`
