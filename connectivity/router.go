// CLAUDE:SUMMARY Service router — dispatches calls to local handlers or transport-built remote handlers.
// Package connectivity provides a service router that dispatches calls
// either locally (in-memory function call) or remotely through a
// registered transport, based on per-service routes set at startup.
//
//	router := connectivity.New()
//	router.RegisterTransport("http", myHTTPFactory)
//	router.RegisterLocal("domscope", svc.Handle)
//
//	// Caller doesn't know or care whether this is local or remote:
//	resp, err := router.Call(ctx, "domscope", payload)
package connectivity

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
)

// Handler is a transport-agnostic service function: bytes in, bytes out.
// Both local Go functions and remote RPC clients implement this signature.
type Handler func(ctx context.Context, payload []byte) ([]byte, error)

// TransportFactory creates a Handler for a given remote endpoint. It
// receives the endpoint URL and any per-route config JSON. The returned
// close function is called when the route is replaced or the router shuts
// down; it may be nil.
type TransportFactory func(endpoint string, config json.RawMessage) (handler Handler, close func(), err error)

// ErrServiceNotFound is returned by Call when no route or local handler
// exists for the requested service.
type ErrServiceNotFound struct {
	Service string
}

func (e *ErrServiceNotFound) Error() string {
	return fmt.Sprintf("connectivity: service %q not routable", e.Service)
}

type remoteEntry struct {
	handler Handler
	close   func()
}

// Router dispatches service calls. Thread-safe: reads use RLock, route
// changes use full Lock.
type Router struct {
	mu            sync.RWMutex
	localHandlers map[string]Handler
	remoteEntries map[string]remoteEntry
	noop          map[string]bool
	factories     map[string]TransportFactory
	logger        *slog.Logger
}

// Option configures a Router.
type Option func(*Router)

// WithLogger sets a custom logger for the router.
func WithLogger(l *slog.Logger) Option {
	return func(r *Router) { r.logger = l }
}

// New creates a Router with no routes.
func New(opts ...Option) *Router {
	r := &Router{
		localHandlers: make(map[string]Handler),
		remoteEntries: make(map[string]remoteEntry),
		noop:          make(map[string]bool),
		factories:     make(map[string]TransportFactory),
		logger:        slog.Default(),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// RegisterLocal registers an in-memory handler for a service. The
// function lives in the same binary; Call dispatches here with zero
// network overhead unless a remote route overrides it.
func (r *Router) RegisterLocal(service string, h Handler) {
	r.mu.Lock()
	r.localHandlers[service] = h
	r.mu.Unlock()
}

// RegisterTransport registers a factory for a transport protocol.
// Example protocols: "http", "grpc", "mcp".
func (r *Router) RegisterTransport(protocol string, f TransportFactory) {
	r.mu.Lock()
	r.factories[protocol] = f
	r.mu.Unlock()
}

// SetRoute installs a route for a service.
//   - strategy "local" clears any remote handler; Call uses the local one.
//   - strategy "noop" makes Call succeed silently (service disabled).
//   - any other strategy must name a registered transport; the factory
//     builds the remote handler now.
//
// A replaced remote handler has its close function invoked.
func (r *Router) SetRoute(service, strategy, endpoint string, config json.RawMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if old, ok := r.remoteEntries[service]; ok {
		if old.close != nil {
			old.close()
		}
		delete(r.remoteEntries, service)
	}
	delete(r.noop, service)

	switch strategy {
	case "local":
		return nil
	case "noop":
		r.noop[service] = true
		return nil
	}

	factory, ok := r.factories[strategy]
	if !ok {
		return fmt.Errorf("connectivity: no transport factory for strategy %q", strategy)
	}
	h, closeFn, err := factory(endpoint, config)
	if err != nil {
		return fmt.Errorf("connectivity: build route %s via %s: %w", service, strategy, err)
	}
	r.remoteEntries[service] = remoteEntry{handler: h, close: closeFn}
	r.logger.Info("route built", "service", service, "strategy", strategy, "endpoint", endpoint)
	return nil
}

// Call dispatches a service call. The resolution order is:
//  1. Noop route — silently succeeds (service disabled).
//  2. Remote route — if one was installed with SetRoute.
//  3. Local handler.
//  4. Error — service not routable.
func (r *Router) Call(ctx context.Context, service string, payload []byte) ([]byte, error) {
	r.mu.RLock()
	entry, hasRemote := r.remoteEntries[service]
	localH := r.localHandlers[service]
	isNoop := r.noop[service]
	r.mu.RUnlock()

	if isNoop {
		r.logger.DebugContext(ctx, "routing noop", "service", service)
		return nil, nil
	}
	if hasRemote {
		r.logger.DebugContext(ctx, "routing remote", "service", service)
		return entry.handler(ctx, payload)
	}
	if localH != nil {
		r.logger.DebugContext(ctx, "routing local", "service", service)
		return localH(ctx, payload)
	}
	return nil, &ErrServiceNotFound{Service: service}
}

// Close shuts down all remote handlers.
func (r *Router) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, entry := range r.remoteEntries {
		if entry.close != nil {
			entry.close()
		}
	}
	r.remoteEntries = make(map[string]remoteEntry)
	r.noop = make(map[string]bool)
	return nil
}
