// CLAUDE:SUMMARY Registers connectivity.Router handlers: domscope_load, domscope_query, domscope_stats.
package inspect

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hazyhaar/domscope/connectivity"
)

// RegisterConnectivity registers inspect handlers on a connectivity Router.
func (svc *Inspector) RegisterConnectivity(router *connectivity.Router) {
	router.RegisterLocal("domscope_load", svc.handleLoad)
	router.RegisterLocal("domscope_query", svc.handleQuery)
	router.RegisterLocal("domscope_stats", svc.handleStats)
}

func (svc *Inspector) handleLoad(ctx context.Context, payload []byte) ([]byte, error) {
	var req struct {
		Key  string `json:"key"`
		URL  string `json:"url"`
		HTML string `json:"html"`
	}
	if err := json.Unmarshal(payload, &req); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	info, err := svc.LoadDocument(ctx, req.Key, req.URL, req.HTML)
	if err != nil {
		return nil, err
	}
	return json.Marshal(info)
}

// handleQuery multiplexes the facade operations behind one handler; op
// selects the operation.
func (svc *Inspector) handleQuery(ctx context.Context, payload []byte) ([]byte, error) {
	var req struct {
		Key    string `json:"key"`
		Op     string `json:"op"`
		Scope  string `json:"scope"`
		ScopeB string `json:"scope_b"`
		Arg    string `json:"arg"`
	}
	if err := json.Unmarshal(payload, &req); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	var (
		result any
		err    error
	)
	switch req.Op {
	case "element_by_id":
		result, err = svc.ElementByID(ctx, req.Key, req.Scope, req.Arg)
	case "all_elements_by_id":
		result, err = svc.AllElementsByID(ctx, req.Key, req.Scope, req.Arg)
	case "find_anchor":
		result, err = svc.FindAnchor(ctx, req.Key, req.Scope, req.Arg)
	case "access_key":
		result, err = svc.AccessKeyElement(ctx, req.Key, req.Scope, req.Arg)
	case "resolve_fragment":
		result, err = svc.ResolveFragment(ctx, req.Key, req.Scope, req.Arg)
	case "compare_scopes":
		result, err = svc.CompareScopes(ctx, req.Key, req.Scope, req.ScopeB)
	case "retarget":
		result, err = svc.Retarget(ctx, req.Key, req.Scope, req.Arg)
	default:
		return nil, fmt.Errorf("inspect: unknown op %q", req.Op)
	}
	if err != nil {
		return nil, err
	}
	return json.Marshal(result)
}

func (svc *Inspector) handleStats(ctx context.Context, payload []byte) ([]byte, error) {
	stats, err := svc.Stats(ctx)
	if err != nil {
		return nil, err
	}
	return json.Marshal(stats)
}
