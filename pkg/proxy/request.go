package proxy

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"mercator-hq/gateway/pkg/proxy/types"
)

const (
	// MaxRequestBodySize is the default limit on the inbound body (10MB).
	MaxRequestBodySize = 10 * 1024 * 1024

	// RequestIDHeader is the HTTP header for request ID propagation.
	RequestIDHeader = "X-Request-ID"
)

// RelayRequest is a caller's chat-completion payload on its way to the
// backend. The payload is kept as a generic JSON object so fields the gateway
// does not know about are forwarded unchanged.
type RelayRequest struct {
	payload map[string]any
}

// ParseRelayRequest reads r's body as a JSON object of at most maxBytes
// bytes. A non-positive maxBytes means MaxRequestBodySize.
//
// Every rejection is a *RequestError, so callers can answer 400 without
// inspecting the cause.
//
// Example usage:
//
//	req, err := ParseRelayRequest(r, cfg.Proxy.MaxBodyBytes)
//	if err != nil {
//	    WriteErrorResponse(w, HandleError(err))
//	    return
//	}
func ParseRelayRequest(r *http.Request, maxBytes int64) (*RelayRequest, error) {
	if maxBytes <= 0 {
		maxBytes = MaxRequestBodySize
	}
	if r.Body == nil {
		return nil, &RequestError{
			Message: "request body is empty",
			Code:    types.CodeInvalidJSON,
			Param:   "body",
		}
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBytes+1))
	if err != nil {
		return nil, &RequestError{
			Message: "failed to read request body",
			Code:    types.CodeInvalidValue,
			Param:   "body",
			Cause:   err,
		}
	}
	if int64(len(body)) > maxBytes {
		return nil, &RequestError{
			Message: fmt.Sprintf("request body exceeds maximum size of %d bytes", maxBytes),
			Code:    types.CodeRequestTooLarge,
			Param:   "body",
		}
	}

	payload, err := decodeObject(body)
	if err != nil {
		return nil, &RequestError{
			Message: fmt.Sprintf("invalid JSON: %v", err),
			Code:    types.CodeInvalidJSON,
			Param:   "body",
			Cause:   err,
		}
	}

	return &RelayRequest{payload: payload}, nil
}

var errNotObject = errors.New("request body must be a JSON object")

// decodeObject decodes exactly one JSON object. Numbers stay json.Number so
// they are re-encoded with their original precision.
func decodeObject(body []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("request body is empty")
		}
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after JSON object")
	}

	obj, ok := v.(map[string]any)
	if !ok {
		return nil, errNotObject
	}
	return obj, nil
}

// ApplyDefaults prepares the payload for a streaming relay: streaming is
// forced on, and model and messages are filled in when the caller left them
// out or set them to null.
func (r *RelayRequest) ApplyDefaults(model, prompt string) {
	r.payload[types.FieldStream] = true

	if isAbsent(r.payload, types.FieldModel) {
		r.payload[types.FieldModel] = model
	}
	if isAbsent(r.payload, types.FieldMessages) {
		r.payload[types.FieldMessages] = types.UserMessages(prompt)
	}
}

func isAbsent(payload map[string]any, field string) bool {
	v, ok := payload[field]
	return !ok || v == nil
}

// Model returns the requested model, or "" when it is not a string.
func (r *RelayRequest) Model() string {
	model, _ := r.payload[types.FieldModel].(string)
	return model
}

// Stream reports whether the payload asks for a streamed response.
func (r *RelayRequest) Stream() bool {
	stream, _ := r.payload[types.FieldStream].(bool)
	return stream
}

// Body encodes the payload for the backend.
func (r *RelayRequest) Body() ([]byte, error) {
	body, err := json.Marshal(r.payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode relay request: %w", err)
	}
	return body, nil
}

// ExtractRequestID extracts the request ID from the X-Request-ID header.
// If the header is not present, it returns an empty string.
func ExtractRequestID(r *http.Request) string {
	return r.Header.Get(RequestIDHeader)
}

// RequestError represents a request parsing error.
type RequestError struct {
	Message string
	Code    string
	Param   string
	Cause   error
}

// Error implements the error interface.
func (e *RequestError) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause, if any.
func (e *RequestError) Unwrap() error {
	return e.Cause
}

// ToErrorResponse converts a RequestError to an OpenAI-compatible error response.
func (e *RequestError) ToErrorResponse() *types.ErrorResponse {
	return types.NewInvalidRequestError(e.Message, e.Param, e.Code)
}
