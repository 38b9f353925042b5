package logging

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/trace"
)

// Context keys for common log fields.
type contextKey string

const (
	// RequestIDKey is the context key for request IDs.
	RequestIDKey contextKey = "request_id"

	// RouteKey is the context key for the relay route.
	RouteKey contextKey = "route"
)

// WithRequestID adds a request ID to the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// GetRequestID retrieves the request ID from the context.
func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok {
		return requestID
	}
	return ""
}

// WithRoute adds the relay route to the context.
func WithRoute(ctx context.Context, route string) context.Context {
	return context.WithValue(ctx, RouteKey, route)
}

// GetRoute retrieves the relay route from the context.
func GetRoute(ctx context.Context) string {
	if route, ok := ctx.Value(RouteKey).(string); ok {
		return route
	}
	return ""
}

// contextAttrs extracts the fields every record logged under ctx carries:
// request ID, route, and the active trace and span IDs.
func contextAttrs(ctx context.Context) []slog.Attr {
	var attrs []slog.Attr

	if requestID := GetRequestID(ctx); requestID != "" {
		attrs = append(attrs, slog.String("request_id", requestID))
	}
	if route := GetRoute(ctx); route != "" {
		attrs = append(attrs, slog.String("route", route))
	}

	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		attrs = append(attrs,
			slog.String("trace_id", sc.TraceID().String()),
			slog.String("span_id", sc.SpanID().String()),
		)
	}

	return attrs
}
