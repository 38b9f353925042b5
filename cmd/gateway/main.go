// Gateway is a streaming passthrough in front of a vLLM OpenAI-compatible
// inference server.
//
// It relays chat-completion requests to the backend with streaming forced on,
// copies the backend's Server-Sent-Events body back to the caller unmodified,
// and measures each stream as it passes:
//   - time to first token
//   - generated tokens per second
//   - requests in flight
//
// Usage:
//
//	# Start with defaults (listen on 127.0.0.1:8000, backend on 127.0.0.1:9000)
//	gateway run
//
//	# Start with a configuration file
//	gateway run --config /etc/gateway/config.yaml
//
//	# Print the effective configuration
//	gateway check --config /etc/gateway/config.yaml
//
//	# Show version information
//	gateway version
package main

func main() {
	Execute()
}
