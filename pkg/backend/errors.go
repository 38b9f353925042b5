package backend

import "fmt"

// ConnectError is returned when the backend could not be reached or did not
// answer with response headers.
type ConnectError struct {
	// URL is the backend endpoint that was dialled.
	URL string

	// Cause is the underlying transport error.
	Cause error
}

// Error implements the error interface.
func (e *ConnectError) Error() string {
	return fmt.Sprintf("backend %s unreachable: %v", e.URL, e.Cause)
}

// Unwrap returns the underlying error for error chain support.
func (e *ConnectError) Unwrap() error {
	return e.Cause
}

// StreamError is returned when reading the response body fails after the
// stream was opened. Cancellation of the request context surfaces here too,
// and errors.Is(err, context.Canceled) holds in that case.
type StreamError struct {
	// Read is the number of body bytes successfully read before the failure.
	Read int64

	// Cause is the underlying read error.
	Cause error
}

// Error implements the error interface.
func (e *StreamError) Error() string {
	return fmt.Sprintf("backend stream failed after %d bytes: %v", e.Read, e.Cause)
}

// Unwrap returns the underlying error for error chain support.
func (e *StreamError) Unwrap() error {
	return e.Cause
}

// ProbeError is returned by Probe when the backend answers with a non-2xx
// status.
type ProbeError struct {
	// StatusCode is the HTTP status the health endpoint returned.
	StatusCode int
}

// Error implements the error interface.
func (e *ProbeError) Error() string {
	return fmt.Sprintf("backend health check returned status %d", e.StatusCode)
}
