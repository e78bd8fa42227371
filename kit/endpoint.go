// CLAUDE:SUMMARY Transport-agnostic Endpoint type and middleware chaining.
// Package kit holds the transport-agnostic plumbing shared by every
// service: the Endpoint abstraction, request-scoped context values, and
// adapters that expose endpoints over concrete transports.
package kit

import "context"

// Endpoint is a single service operation, independent of transport.
// Adapters (MCP, HTTP, connectivity) decode their wire format into the
// request value and encode the response back out.
type Endpoint func(ctx context.Context, req any) (any, error)

// Middleware wraps an Endpoint with cross-cutting behaviour.
type Middleware func(Endpoint) Endpoint

// Chain composes middlewares so the first argument is the outermost.
func Chain(mw ...Middleware) Middleware {
	return func(next Endpoint) Endpoint {
		for i := len(mw) - 1; i >= 0; i-- {
			next = mw[i](next)
		}
		return next
	}
}
