// Package proxy holds the request and response plumbing shared by the
// gateway's HTTP handlers.
//
// The gateway is a transparent streaming relay: a caller's chat-completion
// payload is forwarded to the inference backend as a JSON object, and the
// backend's Server-Sent Events body is copied back byte for byte. This
// package covers the two ends of that path that the gateway itself owns:
//
//   - RelayRequest: parses the inbound payload and injects defaults
//     (stream forced on, a default model, a single user message)
//   - Response helpers: event-stream headers, flushing, and
//     OpenAI-compatible JSON errors for requests rejected before relaying
//
// # Request Flow
//
//  1. Middleware chain assigns a request ID, logs, and recovers panics
//  2. Handler parses the body with ParseRelayRequest (400 on failure)
//  3. Defaults are applied and the payload is re-encoded with Body
//  4. WriteSSEHeaders commits the event-stream response
//  5. Backend chunks are written and flushed in arrival order
//
// # Defaults
//
// Given the payload {} the backend receives:
//
//	{
//	  "messages": [{"role": "user", "content": "Say hello"}],
//	  "model": "TinyLlama/TinyLlama-1.1B-Chat-v1.0",
//	  "stream": true
//	}
//
// # Error Handling
//
// Errors raised before the stream starts follow the OpenAI error format:
//
//	{
//	  "error": {
//	    "message": "invalid JSON: request body must be a JSON object",
//	    "type": "invalid_request_error",
//	    "param": "body",
//	    "code": "invalid_json"
//	  }
//	}
//
// Once the event-stream headers are sent the status can no longer change, so
// backend failures end the stream early instead of producing an error body.
package proxy
