package connectivity

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
)

func TestCallLocal(t *testing.T) {
	r := New()
	r.RegisterLocal("echo", func(_ context.Context, p []byte) ([]byte, error) {
		return p, nil
	})

	out, err := r.Call(context.Background(), "echo", []byte("hi"))
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	if string(out) != "hi" {
		t.Errorf("got %q", out)
	}
}

func TestCallNotRoutable(t *testing.T) {
	r := New()
	_, err := r.Call(context.Background(), "ghost", nil)
	var nf *ErrServiceNotFound
	if !errors.As(err, &nf) {
		t.Fatalf("got %v, want ErrServiceNotFound", err)
	}
	if nf.Service != "ghost" {
		t.Errorf("service: got %q", nf.Service)
	}
}

func TestNoopRoute(t *testing.T) {
	r := New()
	r.RegisterLocal("svc", func(_ context.Context, _ []byte) ([]byte, error) {
		t.Fatal("noop must not reach the local handler")
		return nil, nil
	})
	if err := r.SetRoute("svc", "noop", "", nil); err != nil {
		t.Fatalf("set route: %v", err)
	}
	out, err := r.Call(context.Background(), "svc", []byte("x"))
	if err != nil || out != nil {
		t.Errorf("noop: got %q, %v", out, err)
	}
}

func TestRemoteRouteAndClose(t *testing.T) {
	r := New()
	closed := 0
	r.RegisterTransport("fake", func(endpoint string, cfg json.RawMessage) (Handler, func(), error) {
		h := func(_ context.Context, _ []byte) ([]byte, error) {
			return []byte("remote:" + endpoint), nil
		}
		return h, func() { closed++ }, nil
	})

	if err := r.SetRoute("svc", "fake", "host-a", nil); err != nil {
		t.Fatalf("set route: %v", err)
	}
	out, err := r.Call(context.Background(), "svc", nil)
	if err != nil || string(out) != "remote:host-a" {
		t.Fatalf("remote call: got %q, %v", out, err)
	}

	// Replacing the route closes the old handler.
	if err := r.SetRoute("svc", "fake", "host-b", nil); err != nil {
		t.Fatalf("replace route: %v", err)
	}
	if closed != 1 {
		t.Errorf("closed after replace: got %d, want 1", closed)
	}

	if err := r.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if closed != 2 {
		t.Errorf("closed after shutdown: got %d, want 2", closed)
	}
}

func TestUnknownStrategy(t *testing.T) {
	r := New()
	if err := r.SetRoute("svc", "carrier-pigeon", "coop", nil); err == nil {
		t.Error("unknown strategy must fail")
	}
}

func TestLocalRouteFallsThrough(t *testing.T) {
	r := New()
	r.RegisterLocal("svc", func(_ context.Context, _ []byte) ([]byte, error) {
		return []byte("local"), nil
	})
	if err := r.SetRoute("svc", "local", "", nil); err != nil {
		t.Fatalf("set route: %v", err)
	}
	out, err := r.Call(context.Background(), "svc", nil)
	if err != nil || string(out) != "local" {
		t.Errorf("got %q, %v", out, err)
	}
}
