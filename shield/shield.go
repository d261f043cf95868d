// Package shield provides the reusable HTTP middleware for the scan service:
// security headers, request body limits, request tracing with per-request
// structured loggers, per-IP rate limiting and HEAD method handling.
//
// Usage:
//
//	r := chi.NewRouter()
//	stack, rl := shield.DefaultAPIStack(db)
//	rl.StartReloader(done)
//	for _, mw := range stack {
//		r.Use(mw)
//	}
package shield

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
)

type contextKey string

// LoggerKey is the context key for the per-request structured logger set by
// the TraceID middleware.
const LoggerKey contextKey = "shield_logger"

// GetLogger retrieves the per-request logger from the context. Returns
// slog.Default() when the trace middleware did not run.
func GetLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(LoggerKey).(*slog.Logger); ok {
		return l
	}
	return slog.Default()
}

// DefaultAPIStack returns the standard middleware stack for the scan API,
// ordered HeadToGet → SecurityHeaders → MaxRequestBody → TraceID →
// RateLimiter. Health and metrics endpoints bypass rate limiting. The rate
// limiter handle is returned so the caller can StartReloader.
func DefaultAPIStack(db *sql.DB) ([]func(http.Handler) http.Handler, *RateLimiter) {
	rl := NewRateLimiter(db, "/health", "/metrics")
	return []func(http.Handler) http.Handler{
		HeadToGet,
		SecurityHeaders(DefaultHeaders()),
		MaxRequestBody(8 << 20),
		TraceID,
		rl.Middleware,
	}, rl
}
