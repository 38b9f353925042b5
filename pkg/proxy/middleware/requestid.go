package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"mercator-hq/gateway/pkg/telemetry/logging"
)

const (
	// RequestIDHeader is the HTTP header for request ID.
	RequestIDHeader = "X-Request-ID"

	// maxRequestIDLength bounds caller-supplied IDs so they cannot bloat logs.
	maxRequestIDLength = 128
)

// RequestIDMiddleware assigns a request ID to each request and adds it to
// the context and response headers. A well-formed ID supplied by the client
// in X-Request-ID is kept; otherwise a UUID v4 is generated.
//
// The request ID is:
//   - Added to the request context, so every slog record logged with that
//     context carries a request_id attribute
//   - Included in the X-Request-ID response header
//   - Recorded on the relay span
//
// Example usage:
//
//	handler = RequestIDMiddleware(handler)
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if !validRequestID(requestID) {
			requestID = uuid.NewString()
		}

		ctx := logging.WithRequestID(r.Context(), requestID)
		w.Header().Set(RequestIDHeader, requestID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// validRequestID accepts non-empty printable ASCII IDs of bounded length.
func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < 0x21 || id[i] > 0x7e {
			return false
		}
	}
	return true
}

// GetRequestID extracts the request ID from the context.
// Returns empty string if not found.
func GetRequestID(ctx context.Context) string {
	return logging.GetRequestID(ctx)
}
