package proxy

import (
	"errors"

	"mercator-hq/gateway/pkg/proxy/types"
)

// HandleError converts an error raised before relaying starts into an
// OpenAI-compatible error response. Request errors keep their message; any
// other error is reported as a generic internal error so internal details do
// not leak to callers.
//
// Example usage:
//
//	if err != nil {
//	    WriteErrorResponse(w, HandleError(err))
//	    return
//	}
func HandleError(err error) *types.ErrorResponse {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.ToErrorResponse()
	}

	return types.NewServerError(
		"An internal error occurred. Please try again later.",
	)
}
