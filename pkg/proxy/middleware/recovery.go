package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"mercator-hq/gateway/pkg/proxy"
	"mercator-hq/gateway/pkg/proxy/types"
)

// RecoveryMiddleware recovers from panics in HTTP handlers and returns a 500
// Internal Server Error response in OpenAI error format. It logs the panic
// with stack trace but does not expose internal details to clients.
//
// If the handler had already started its response (an event stream, say)
// the status can no longer change, so the response is simply ended.
// http.ErrAbortHandler is re-raised so net/http aborts the connection
// quietly.
//
// Example usage:
//
//	handler = RecoveryMiddleware(handler)
func RecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rw, ok := w.(*responseWriter)
		if !ok {
			rw = newResponseWriter(w)
		}

		defer func() {
			err := recover()
			if err == nil {
				return
			}
			if err == http.ErrAbortHandler {
				panic(err)
			}

			slog.ErrorContext(r.Context(), "panic in handler",
				"error", err,
				"method", r.Method,
				"path", r.URL.Path,
				"stack", string(debug.Stack()),
			)

			if rw.written {
				return
			}
			_ = proxy.WriteErrorResponse(rw, types.NewServerError(
				"An internal error occurred. Please try again later.",
			))
		}()

		next.ServeHTTP(rw, r)
	})
}

// Chain wraps handler in the gateway's standard middleware, outermost first:
// request ID, logging, panic recovery.
func Chain(handler http.Handler) http.Handler {
	return RequestIDMiddleware(LoggingMiddleware(RecoveryMiddleware(handler)))
}
