package inspect

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/hazyhaar/domscope/connectivity"
)

func connRouter(t *testing.T) *connectivity.Router {
	t.Helper()
	svc := testInspector(t)
	router := connectivity.New()
	svc.RegisterConnectivity(router)
	t.Cleanup(func() { router.Close() })
	return router
}

func connLoad(t *testing.T, router *connectivity.Router, key string) {
	t.Helper()
	payload, _ := json.Marshal(map[string]string{"key": key, "html": testMarkup})
	if _, err := router.Call(context.Background(), "domscope_load", payload); err != nil {
		t.Fatalf("load: %v", err)
	}
}

func TestConnectivity_LoadAndQuery(t *testing.T) {
	router := connRouter(t)
	connLoad(t, router, "page")

	payload, _ := json.Marshal(map[string]string{
		"key": "page", "op": "element_by_id", "scope": "outer/inner", "arg": "deep",
	})
	out, err := router.Call(context.Background(), "domscope_query", payload)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	var el ElementResult
	if err := json.Unmarshal(out, &el); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if el.Tag != "p" || el.ID != "deep" {
		t.Errorf("element: %+v", el)
	}
}

func TestConnectivity_UnknownOp(t *testing.T) {
	router := connRouter(t)
	connLoad(t, router, "page")

	payload, _ := json.Marshal(map[string]string{"key": "page", "op": "levitate"})
	if _, err := router.Call(context.Background(), "domscope_query", payload); err == nil {
		t.Error("unknown op must fail")
	}
}

func TestConnectivity_Stats(t *testing.T) {
	router := connRouter(t)
	connLoad(t, router, "page")

	out, err := router.Call(context.Background(), "domscope_stats", nil)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	var stats StatsResult
	if err := json.Unmarshal(out, &stats); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if stats.Loaded != 1 {
		t.Errorf("loaded: got %d, want 1", stats.Loaded)
	}
}
