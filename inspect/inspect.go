// CLAUDE:SUMMARY Inspect service: loads named documents, runs scope queries, persists snapshots and a query log.
// Package inspect wraps the dom package as a service. It holds a registry
// of named, parsed documents and exposes the scope facade operations over
// MCP, connectivity, and plain Go calls, persisting document snapshots
// and a query log to SQLite.
package inspect

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"

	"github.com/hazyhaar/domscope/dom"
	"github.com/hazyhaar/domscope/idgen"
	"github.com/hazyhaar/domscope/inspect/internal/store"
)

// Inspector is the inspect service. Safe for concurrent use.
type Inspector struct {
	cfg      Config
	logger   *slog.Logger
	st       *store.Store
	docIDs   idgen.Generator
	queryIDs idgen.Generator
	sanitize *bluemonday.Policy

	mu    sync.Mutex
	docs  map[string]*docEntry
	order []string // load order, oldest first
}

type docEntry struct {
	doc      *dom.Document
	loadedAt int64
}

// New creates an Inspector, opening the snapshot store at cfg.DBPath.
func New(cfg *Config, logger *slog.Logger) (*Inspector, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	cfg.defaults()
	if logger == nil {
		logger = slog.Default()
	}
	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("inspect: %w", err)
	}
	return &Inspector{
		cfg:      *cfg,
		logger:   logger,
		st:       st,
		docIDs:   idgen.Prefixed("doc_", idgen.Default),
		queryIDs: idgen.Prefixed("qry_", idgen.Default),
		sanitize: bluemonday.UGCPolicy(),
		docs:     make(map[string]*docEntry),
	}, nil
}

// Close releases every loaded document and closes the store.
func (svc *Inspector) Close() error {
	svc.mu.Lock()
	for _, e := range svc.docs {
		e.doc.Release()
	}
	svc.docs = make(map[string]*docEntry)
	svc.order = nil
	svc.mu.Unlock()
	return svc.st.Close()
}

// Store exposes the persistence layer (snapshot rows, query log).
func (svc *Inspector) Store() *store.Store { return svc.st }

// LoadDocument parses markup, registers it under key, and persists a
// snapshot row. Reloading an existing key replaces it. When the registry
// is at MaxDocuments, the oldest document is evicted first.
func (svc *Inspector) LoadDocument(ctx context.Context, key, url, markup string) (*DocumentInfo, error) {
	if key == "" {
		return nil, fmt.Errorf("inspect: empty document key")
	}
	doc, err := dom.Parse(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("inspect: parse %s: %w", key, err)
	}

	nodes, elements, scopes := 0, 0, 1
	dom.WalkComposed(doc.Root(), func(n *dom.Node) bool {
		nodes++
		switch n.Kind {
		case dom.KindElement:
			elements++
		case dom.KindShadowRoot:
			scopes++
		}
		return true
	})

	sum := sha256.Sum256([]byte(markup))
	info := &DocumentInfo{
		ID:           svc.docIDs(),
		DocKey:       key,
		URL:          url,
		ContentHash:  hex.EncodeToString(sum[:]),
		NodeCount:    nodes,
		ElementCount: elements,
		ScopeCount:   scopes,
		Quirks:       doc.QuirksMode(),
		LoadedAt:     time.Now().UnixMilli(),
	}

	svc.mu.Lock()
	if old, ok := svc.docs[key]; ok {
		old.doc.Release()
		svc.removeFromOrder(key)
	}
	for len(svc.docs) >= svc.cfg.MaxDocuments && len(svc.order) > 0 {
		oldest := svc.order[0]
		svc.order = svc.order[1:]
		if e, ok := svc.docs[oldest]; ok {
			e.doc.Release()
			delete(svc.docs, oldest)
			svc.logger.Info("document evicted", "key", oldest)
		}
	}
	svc.docs[key] = &docEntry{doc: doc, loadedAt: info.LoadedAt}
	svc.order = append(svc.order, key)
	svc.mu.Unlock()

	if err := svc.st.UpsertDocument(ctx, info); err != nil {
		// A document without a snapshot row would make stats and queries
		// disagree; unregister it again.
		svc.mu.Lock()
		if e, ok := svc.docs[key]; ok && e.doc == doc {
			doc.Release()
			delete(svc.docs, key)
			svc.removeFromOrder(key)
		}
		svc.mu.Unlock()
		return nil, err
	}
	svc.logger.Info("document loaded",
		"key", key, "nodes", nodes, "scopes", scopes, "quirks", info.Quirks)
	return info, nil
}

// UnloadDocument drops a document from the registry and the store.
func (svc *Inspector) UnloadDocument(ctx context.Context, key string) error {
	svc.mu.Lock()
	if e, ok := svc.docs[key]; ok {
		e.doc.Release()
		delete(svc.docs, key)
		svc.removeFromOrder(key)
	}
	svc.mu.Unlock()
	return svc.st.DeleteDocument(ctx, key)
}

// ListDocuments returns the persisted snapshot rows.
func (svc *Inspector) ListDocuments(ctx context.Context) ([]*DocumentInfo, error) {
	return svc.st.ListDocuments(ctx)
}

func (svc *Inspector) removeFromOrder(key string) {
	for i, k := range svc.order {
		if k == key {
			svc.order = append(svc.order[:i], svc.order[i+1:]...)
			return
		}
	}
}

func (svc *Inspector) document(key string) (*dom.Document, error) {
	svc.mu.Lock()
	e, ok := svc.docs[key]
	svc.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("inspect: document %q not loaded", key)
	}
	return e.doc, nil
}

// resolveScope walks a scope path of shadow host element IDs, like
// "outer/inner". The empty path is the document scope.
func resolveScope(doc *dom.Document, path string) (*dom.Scope, error) {
	scope := doc.Scope()
	if path == "" {
		return scope, nil
	}
	for _, hostID := range strings.Split(path, "/") {
		host := scope.ElementByID(hostID)
		if host == nil {
			return nil, fmt.Errorf("inspect: scope path %q: no element with id %q", path, hostID)
		}
		sr := host.YoungestShadowRoot()
		if sr == nil {
			return nil, fmt.Errorf("inspect: scope path %q: element %q hosts no shadow root", path, hostID)
		}
		scope = sr.Scope()
	}
	return scope, nil
}

// scopePath renders the host-ID path of a scope for results. Hosts
// without an id render as "?".
func scopePath(s *dom.Scope) string {
	var segs []string
	for s != nil && s.RootNode().Kind == dom.KindShadowRoot {
		host := s.RootNode().Host()
		id := host.ID()
		if id == "" {
			id = "?"
		}
		segs = append([]string{id}, segs...)
		s = host.Scope()
	}
	return strings.Join(segs, "/")
}

func (svc *Inspector) elementResult(key string, el *dom.Node) *ElementResult {
	if el == nil {
		return nil
	}
	res := &ElementResult{
		DocKey:    key,
		ID:        el.ID(),
		Tag:       el.Tag,
		ScopePath: scopePath(el.Scope()),
	}
	if raw, err := dom.OuterHTML(el); err == nil {
		res.Snippet = truncateSnippet(svc.sanitize.Sanitize(raw), svc.cfg.SnippetMaxBytes)
	}
	return res
}

// truncateSnippet cuts s to at most max bytes without splitting a UTF-8
// sequence.
func truncateSnippet(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

func (svc *Inspector) logQuery(ctx context.Context, key, op, arg string, found bool) {
	err := svc.st.LogQuery(ctx, &QueryRecord{
		ID:        svc.queryIDs(),
		DocKey:    key,
		Operation: op,
		Argument:  arg,
		Found:     found,
		At:        time.Now().UnixMilli(),
	})
	if err != nil {
		svc.logger.Warn("query log write failed", "op", op, "error", err)
	}
	svc.logger.Debug("query", "key", key, "op", op, "arg", arg, "found", found)
}

// ElementByID returns the first element with the given id in tree order,
// within the addressed scope.
func (svc *Inspector) ElementByID(ctx context.Context, key, scopePath, id string) (*ElementResult, error) {
	doc, err := svc.document(key)
	if err != nil {
		return nil, err
	}
	scope, err := resolveScope(doc, scopePath)
	if err != nil {
		return nil, err
	}
	el := scope.ElementByID(id)
	svc.logQuery(ctx, key, "element_by_id", id, el != nil)
	return svc.elementResult(key, el), nil
}

// AllElementsByID returns every element carrying the id, in tree order.
func (svc *Inspector) AllElementsByID(ctx context.Context, key, scopePath, id string) ([]*ElementResult, error) {
	doc, err := svc.document(key)
	if err != nil {
		return nil, err
	}
	scope, err := resolveScope(doc, scopePath)
	if err != nil {
		return nil, err
	}
	els := scope.AllElementsByID(id)
	svc.logQuery(ctx, key, "all_elements_by_id", id, len(els) > 0)
	out := make([]*ElementResult, 0, len(els))
	for _, el := range els {
		out = append(out, svc.elementResult(key, el))
	}
	return out, nil
}

// FindAnchor resolves an anchor name the way fragment navigation does:
// id match first, then named <a> elements, case-insensitive in quirks mode.
func (svc *Inspector) FindAnchor(ctx context.Context, key, scopePath, name string) (*ElementResult, error) {
	doc, err := svc.document(key)
	if err != nil {
		return nil, err
	}
	scope, err := resolveScope(doc, scopePath)
	if err != nil {
		return nil, err
	}
	el := scope.FindAnchor(name)
	svc.logQuery(ctx, key, "find_anchor", name, el != nil)
	return svc.elementResult(key, el), nil
}

// AccessKeyElement returns the last element in the scope (including its
// shadow stacks) whose accesskey attribute matches, case-insensitive.
func (svc *Inspector) AccessKeyElement(ctx context.Context, key, scopePath, accessKey string) (*ElementResult, error) {
	doc, err := svc.document(key)
	if err != nil {
		return nil, err
	}
	scope, err := resolveScope(doc, scopePath)
	if err != nil {
		return nil, err
	}
	el := scope.ElementByAccessKey(accessKey)
	svc.logQuery(ctx, key, "access_key", accessKey, el != nil)
	return svc.elementResult(key, el), nil
}

// ResolveFragment resolves a URL fragment to its target element, using
// everything after the last '#'.
func (svc *Inspector) ResolveFragment(ctx context.Context, key, scopePath, url string) (*ElementResult, error) {
	doc, err := svc.document(key)
	if err != nil {
		return nil, err
	}
	scope, err := resolveScope(doc, scopePath)
	if err != nil {
		return nil, err
	}
	el := scope.FragmentTarget(url)
	svc.logQuery(ctx, key, "resolve_fragment", url, el != nil)
	return svc.elementResult(key, el), nil
}

// CompareScopes compares two scopes addressed by host-ID paths and
// reports the position bitmask plus the common ancestor scope, if any.
func (svc *Inspector) CompareScopes(ctx context.Context, key, pathA, pathB string) (*CompareResult, error) {
	doc, err := svc.document(key)
	if err != nil {
		return nil, err
	}
	a, err := resolveScope(doc, pathA)
	if err != nil {
		return nil, err
	}
	b, err := resolveScope(doc, pathB)
	if err != nil {
		return nil, err
	}
	pos := a.ComparePosition(b)
	res := &CompareResult{
		DocKey:   key,
		ScopeA:   pathA,
		ScopeB:   pathB,
		Position: uint16(pos),
		Names:    pos.Names(),
	}
	if common := a.CommonAncestorScope(b); common != nil {
		res.Common = scopePath(common)
		res.HasCommon = true
	}
	svc.logQuery(ctx, key, "compare_scopes", pathA+" vs "+pathB, true)
	return res, nil
}

// Retarget finds the element with targetID anywhere in the composed tree
// and retargets it into the addressed scope.
func (svc *Inspector) Retarget(ctx context.Context, key, scopePathArg, targetID string) (*ElementResult, error) {
	doc, err := svc.document(key)
	if err != nil {
		return nil, err
	}
	scope, err := resolveScope(doc, scopePathArg)
	if err != nil {
		return nil, err
	}
	var target *dom.Node
	dom.WalkComposed(doc.Root(), func(n *dom.Node) bool {
		if target == nil && n.Kind == dom.KindElement && n.ID() == targetID {
			target = n
		}
		return target == nil
	})
	var adjusted *dom.Node
	if target != nil {
		adjusted = scope.Retarget(target)
	}
	svc.logQuery(ctx, key, "retarget", targetID, adjusted != nil)
	return svc.elementResult(key, adjusted), nil
}

// Stats reports the live registry size and store aggregates.
func (svc *Inspector) Stats(ctx context.Context) (*StatsResult, error) {
	st, err := svc.st.GetStats(ctx)
	if err != nil {
		return nil, err
	}
	svc.mu.Lock()
	loaded := len(svc.docs)
	svc.mu.Unlock()
	return &StatsResult{Loaded: loaded, Store: *st}, nil
}
