package types

import "net/http"

// ErrorResponse represents an OpenAI-compatible error response.
// This is returned for all error conditions to ensure compatibility with
// OpenAI SDKs and tools.
type ErrorResponse struct {
	// Error contains the error details.
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains detailed error information.
type ErrorDetail struct {
	// Message is a human-readable error message.
	Message string `json:"message"`

	// Type categorizes the error.
	// One of "invalid_request_error", "method_not_allowed", "server_error".
	Type string `json:"type"`

	// Param is the name of the parameter that caused the error (if applicable).
	Param string `json:"param,omitempty"`

	// Code is a machine-readable error code.
	Code string `json:"code,omitempty"`
}

// Error type constants matching the OpenAI API error format.
const (
	// ErrorTypeInvalidRequest indicates a client-side error (400).
	ErrorTypeInvalidRequest = "invalid_request_error"

	// ErrorTypeMethodNotAllowed indicates the route exists but not for this method (405).
	ErrorTypeMethodNotAllowed = "method_not_allowed"

	// ErrorTypeServerError indicates an internal server error (500).
	ErrorTypeServerError = "server_error"
)

// Error code constants for common error scenarios.
const (
	// CodeInvalidValue indicates a field has an invalid value.
	CodeInvalidValue = "invalid_value"

	// CodeInvalidJSON indicates the request body is not a JSON object.
	CodeInvalidJSON = "invalid_json"

	// CodeRequestTooLarge indicates the request payload is too large.
	CodeRequestTooLarge = "request_too_large"

	// CodeInternalError indicates an internal server error.
	CodeInternalError = "internal_error"
)

// NewErrorResponse creates a new error response with the given details.
func NewErrorResponse(message, errorType, param, code string) *ErrorResponse {
	return &ErrorResponse{
		Error: ErrorDetail{
			Message: message,
			Type:    errorType,
			Param:   param,
			Code:    code,
		},
	}
}

// NewInvalidRequestError creates an error response for invalid requests (400).
func NewInvalidRequestError(message, param, code string) *ErrorResponse {
	return NewErrorResponse(message, ErrorTypeInvalidRequest, param, code)
}

// NewMethodNotAllowedError creates an error response for a wrong method (405).
func NewMethodNotAllowedError(method string) *ErrorResponse {
	return NewErrorResponse("method "+method+" is not allowed", ErrorTypeMethodNotAllowed, "", "")
}

// NewServerError creates an error response for internal server errors (500).
func NewServerError(message string) *ErrorResponse {
	return NewErrorResponse(message, ErrorTypeServerError, "", CodeInternalError)
}

// HTTPStatusCode returns the HTTP status for the error type. Every payload
// rejection, oversized bodies included, is a 400.
func (e *ErrorDetail) HTTPStatusCode() int {
	switch e.Type {
	case ErrorTypeInvalidRequest:
		return http.StatusBadRequest
	case ErrorTypeMethodNotAllowed:
		return http.StatusMethodNotAllowed
	default:
		return http.StatusInternalServerError
	}
}
