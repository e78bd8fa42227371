// CLAUDE:SUMMARY Row types for the inspect store.
package store

// Document is a snapshot row describing one loaded document.
type Document struct {
	ID           string `json:"id"`
	DocKey       string `json:"doc_key"`
	URL          string `json:"url"`
	ContentHash  string `json:"content_hash"`
	NodeCount    int    `json:"node_count"`
	ElementCount int    `json:"element_count"`
	ScopeCount   int    `json:"scope_count"`
	Quirks       bool   `json:"quirks"`
	LoadedAt     int64  `json:"loaded_at"`
}

// QueryRecord is one logged facade query.
type QueryRecord struct {
	ID        string `json:"id"`
	DocKey    string `json:"doc_key"`
	Operation string `json:"operation"`
	Argument  string `json:"argument"`
	Found     bool   `json:"found"`
	At        int64  `json:"at"`
}

// Stats aggregates the store contents.
type Stats struct {
	Documents    int64 `json:"documents"`
	Nodes        int64 `json:"nodes"`
	Scopes       int64 `json:"scopes"`
	Queries      int64 `json:"queries"`
	QueriesFound int64 `json:"queries_found"`
}
