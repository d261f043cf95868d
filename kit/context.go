package kit

import "context"

type contextKey string

const (
	// TraceIDKey carries the per-request trace ID set by the HTTP trace
	// middleware.
	TraceIDKey contextKey = "kit_trace_id"

	// TransportKey names the transport a request arrived on: "http" or
	// "mcp". HTTP is the default when nothing set it.
	TransportKey contextKey = "kit_transport"
)

func WithTraceID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, TraceIDKey, id)
}

func GetTraceID(ctx context.Context) string {
	v, _ := ctx.Value(TraceIDKey).(string)
	return v
}

func WithTransport(ctx context.Context, t string) context.Context {
	return context.WithValue(ctx, TransportKey, t)
}

func GetTransport(ctx context.Context) string {
	if v, ok := ctx.Value(TransportKey).(string); ok {
		return v
	}
	return "http"
}
