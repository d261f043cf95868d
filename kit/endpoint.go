// Package kit holds the transport-agnostic plumbing shared by the HTTP and
// MCP surfaces: the Endpoint abstraction, middleware chaining, request
// context accessors and the MCP tool adapter.
package kit

import "context"

// Endpoint is a single operation exposed over any transport. Handlers decode
// transport requests into a typed value, call the endpoint, and encode the
// response back out.
type Endpoint func(ctx context.Context, req any) (any, error)

// Middleware wraps an Endpoint with cross-cutting behavior.
type Middleware func(Endpoint) Endpoint

// Chain composes middlewares with the first argument outermost: the request
// traverses them in argument order before reaching the endpoint, and the
// response unwinds in reverse.
func Chain(outer Middleware, others ...Middleware) Middleware {
	return func(next Endpoint) Endpoint {
		for i := len(others) - 1; i >= 0; i-- {
			next = others[i](next)
		}
		return outer(next)
	}
}
