// CLAUDE:SUMMARY Public result types; store row types re-exported.
package inspect

import "github.com/hazyhaar/domscope/inspect/internal/store"

// Store row types, re-exported for callers.
type (
	DocumentInfo = store.Document
	QueryRecord  = store.QueryRecord
	StoreStats   = store.Stats
)

// ElementResult describes one element answer from a facade query.
type ElementResult struct {
	DocKey    string `json:"doc_key"`
	ID        string `json:"id,omitempty"`
	Tag       string `json:"tag"`
	ScopePath string `json:"scope_path"`
	Snippet   string `json:"snippet,omitempty"`
}

// CompareResult is the answer to a scope comparison.
type CompareResult struct {
	DocKey    string   `json:"doc_key"`
	ScopeA    string   `json:"scope_a"`
	ScopeB    string   `json:"scope_b"`
	Position  uint16   `json:"position"`
	Names     []string `json:"names"`
	Common    string   `json:"common_ancestor,omitempty"`
	HasCommon bool     `json:"has_common_ancestor"`
}

// StatsResult combines store aggregates with the live registry size.
type StatsResult struct {
	Loaded int        `json:"loaded"`
	Store  StoreStats `json:"store"`
}
