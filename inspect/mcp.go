// CLAUDE:SUMMARY Registers the domscope MCP tools: load, element_by_id, find_anchor, access_key, compare_scopes, stats.
package inspect

import (
	"context"
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hazyhaar/domscope/kit"
)

// RegisterMCP registers all domscope tools on an MCP server.
func (svc *Inspector) RegisterMCP(srv *mcp.Server) {
	svc.registerLoad(srv)
	svc.registerElementByID(srv)
	svc.registerFindAnchor(srv)
	svc.registerAccessKey(srv)
	svc.registerCompareScopes(srv)
	svc.registerStats(srv)
}

func inputSchema(properties map[string]any, required []string) map[string]any {
	s := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

func (svc *Inspector) registerLoad(srv *mcp.Server) {
	type req struct {
		Key  string `json:"key"`
		URL  string `json:"url"`
		HTML string `json:"html"`
	}

	tool := &mcp.Tool{
		Name:        "domscope_load",
		Description: "Parse an HTML document and register it under a key for scope queries",
		InputSchema: inputSchema(map[string]any{
			"key":  map[string]any{"type": "string", "description": "Document key"},
			"url":  map[string]any{"type": "string", "description": "Source URL, informational"},
			"html": map[string]any{"type": "string", "description": "HTML markup"},
		}, []string{"key", "html"}),
	}

	endpoint := func(ctx context.Context, r any) (any, error) {
		p := r.(*req)
		return svc.LoadDocument(ctx, p.Key, p.URL, p.HTML)
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decodeInto[req])
}

func (svc *Inspector) registerElementByID(srv *mcp.Server) {
	type req struct {
		Key   string `json:"key"`
		Scope string `json:"scope"`
		ID    string `json:"id"`
		All   bool   `json:"all"`
	}

	tool := &mcp.Tool{
		Name:        "domscope_element_by_id",
		Description: "Look up element(s) by id within a scope; scope is a path of shadow host ids like 'outer/inner'",
		InputSchema: inputSchema(map[string]any{
			"key":   map[string]any{"type": "string", "description": "Document key"},
			"scope": map[string]any{"type": "string", "description": "Scope path, empty for the document scope"},
			"id":    map[string]any{"type": "string", "description": "Element id"},
			"all":   map[string]any{"type": "boolean", "description": "Return every element carrying the id, in tree order"},
		}, []string{"key", "id"}),
	}

	endpoint := func(ctx context.Context, r any) (any, error) {
		p := r.(*req)
		if p.All {
			return svc.AllElementsByID(ctx, p.Key, p.Scope, p.ID)
		}
		return svc.ElementByID(ctx, p.Key, p.Scope, p.ID)
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decodeInto[req])
}

func (svc *Inspector) registerFindAnchor(srv *mcp.Server) {
	type req struct {
		Key   string `json:"key"`
		Scope string `json:"scope"`
		Name  string `json:"name"`
	}

	tool := &mcp.Tool{
		Name:        "domscope_find_anchor",
		Description: "Resolve an anchor name (id first, then named <a>; case-insensitive in quirks mode)",
		InputSchema: inputSchema(map[string]any{
			"key":   map[string]any{"type": "string", "description": "Document key"},
			"scope": map[string]any{"type": "string", "description": "Scope path"},
			"name":  map[string]any{"type": "string", "description": "Anchor name or fragment"},
		}, []string{"key", "name"}),
	}

	endpoint := func(ctx context.Context, r any) (any, error) {
		p := r.(*req)
		return svc.FindAnchor(ctx, p.Key, p.Scope, p.Name)
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decodeInto[req])
}

func (svc *Inspector) registerAccessKey(srv *mcp.Server) {
	type req struct {
		Key       string `json:"key"`
		Scope     string `json:"scope"`
		AccessKey string `json:"access_key"`
	}

	tool := &mcp.Tool{
		Name:        "domscope_access_key",
		Description: "Find the element bound to an accesskey, searching shadow stacks; the last match wins",
		InputSchema: inputSchema(map[string]any{
			"key":        map[string]any{"type": "string", "description": "Document key"},
			"scope":      map[string]any{"type": "string", "description": "Scope path"},
			"access_key": map[string]any{"type": "string", "description": "Access key character"},
		}, []string{"key", "access_key"}),
	}

	endpoint := func(ctx context.Context, r any) (any, error) {
		p := r.(*req)
		return svc.AccessKeyElement(ctx, p.Key, p.Scope, p.AccessKey)
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decodeInto[req])
}

func (svc *Inspector) registerCompareScopes(srv *mcp.Server) {
	type req struct {
		Key    string `json:"key"`
		ScopeA string `json:"scope_a"`
		ScopeB string `json:"scope_b"`
	}

	tool := &mcp.Tool{
		Name:        "domscope_compare_scopes",
		Description: "Compare two scopes: position bitmask plus common ancestor scope",
		InputSchema: inputSchema(map[string]any{
			"key":     map[string]any{"type": "string", "description": "Document key"},
			"scope_a": map[string]any{"type": "string", "description": "First scope path"},
			"scope_b": map[string]any{"type": "string", "description": "Second scope path"},
		}, []string{"key"}),
	}

	endpoint := func(ctx context.Context, r any) (any, error) {
		p := r.(*req)
		return svc.CompareScopes(ctx, p.Key, p.ScopeA, p.ScopeB)
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decodeInto[req])
}

func (svc *Inspector) registerStats(srv *mcp.Server) {
	type req struct{}

	tool := &mcp.Tool{
		Name:        "domscope_stats",
		Description: "Loaded-document and query-log statistics",
		InputSchema: inputSchema(map[string]any{}, nil),
	}

	endpoint := func(ctx context.Context, _ any) (any, error) {
		return svc.Stats(ctx)
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decodeInto[req])
}

func decodeInto[T any](r *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
	var p T
	if len(r.Params.Arguments) > 0 {
		if err := json.Unmarshal(r.Params.Arguments, &p); err != nil {
			return nil, err
		}
	}
	return &kit.MCPDecodeResult{Request: &p}, nil
}
