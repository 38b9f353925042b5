package proxy

import (
	"encoding/json"
	"fmt"
	"net/http"

	"mercator-hq/gateway/pkg/proxy/types"
)

// EventStreamContentType is the media type of a relayed stream.
const EventStreamContentType = "text/event-stream"

// WriteSSEHeaders commits a 200 event-stream response and flushes it, so the
// caller sees the headers before the backend produces its first byte.
// Intermediaries are told not to cache or buffer the stream.
func WriteSSEHeaders(w http.ResponseWriter) {
	h := w.Header()
	h.Set("Content-Type", EventStreamContentType)
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	Flush(w)
}

// Flush pushes buffered response bytes to the caller, if w supports it.
func Flush(w http.ResponseWriter) {
	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}
}

// WriteJSONResponse writes a JSON response to the HTTP response writer.
// It sets the appropriate content-type header and handles marshaling errors.
func WriteJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON response: %w", err)
	}

	return nil
}

// WriteErrorResponse writes an OpenAI-compatible error response.
// It extracts the appropriate HTTP status code from the error type.
func WriteErrorResponse(w http.ResponseWriter, errResp *types.ErrorResponse) error {
	statusCode := errResp.Error.HTTPStatusCode()
	return WriteJSONResponse(w, statusCode, errResp)
}
