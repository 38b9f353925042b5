// Package types defines the OpenAI-compatible wire types the gateway
// produces itself.
//
// The gateway forwards chat payloads as opaque JSON objects, so only the
// pieces it injects are typed here:
//   - Message: the default conversation entry added when a caller omits one
//   - ErrorResponse: the error body for requests rejected before relaying
//
// # Error Format
//
//	{
//	    "error": {
//	        "message": "request body must be a JSON object",
//	        "type": "invalid_request_error",
//	        "param": "body",
//	        "code": "invalid_json"
//	    }
//	}
package types
