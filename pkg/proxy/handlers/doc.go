// Package handlers provides the gateway's relay handler.
//
// RelayHandler serves the chat routes (/chat and /v1/chat/completions by
// default). It forwards the caller's payload to the inference backend with
// streaming forced on, and copies the backend's Server-Sent Events body back
// without parsing or re-framing it.
//
// # Measurements
//
// While relaying, the handler records:
//   - gateway_requests_total{route} and gateway_rps_total on every request
//   - gateway_queue_depth, incremented once the body parses and decremented
//     when the relay finishes for any reason
//   - gateway_time_to_first_token_seconds on the first backend chunk
//   - gateway_tokens_per_second when the backend ends the stream normally
//   - gateway_relay_outcomes_total{outcome} and gateway_backend_status_total{code}
//
// # Outcomes
//
//   - completed: the backend ended the stream
//   - backend_error: the backend was unreachable or dropped the stream
//   - client_gone: the caller disconnected first
//
// Each relay also ends with a span and a summary log line:
//
//	{
//	  "level": "INFO",
//	  "msg": "relay completed",
//	  "request_id": "550e8400-e29b-41d4-a716-446655440000",
//	  "route": "/chat",
//	  "model": "TinyLlama/TinyLlama-1.1B-Chat-v1.0",
//	  "chunks": 14,
//	  "tokens": 12,
//	  "ttft_ms": 84.2,
//	  "outcome": "completed"
//	}
package handlers
