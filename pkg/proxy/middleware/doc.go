// Package middleware provides HTTP middleware for cross-cutting concerns.
//
// # Middleware Chain
//
// Chain composes the standard stack, outermost first:
//
//	handler = RequestID(Logging(Recovery(handler)))
//
//  1. RequestID: Assign a request ID and store it in the context
//  2. Logging: Log request start (debug) and completion with status and latency
//  3. Recovery: Recover from panics, answer 500 if nothing was written yet
//
// # Request ID
//
// RequestIDMiddleware generates a UUID v4 for each request unless the caller
// supplied a usable one:
//
//	X-Request-ID: 550e8400-e29b-41d4-a716-446655440000
//
// The ID is stored with logging.WithRequestID, so every record logged through
// slog's *Context functions carries it without handlers passing it around.
//
// # Streaming
//
// The logging wrapper forwards Flush and Unwrap to the underlying writer, so
// event streams pass through the chain without buffering.
package middleware
