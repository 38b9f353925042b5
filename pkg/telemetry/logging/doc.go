// Package logging provides structured logging for the gateway.
//
// # Overview
//
// The logging package wraps Go's standard log/slog package to provide:
//   - JSON or text output
//   - A level that can be changed at runtime (used by config hot reload)
//   - Request ID, route, and trace/span IDs attached from the context
//
// # Usage
//
//	logger, err := logging.New(logging.Config{Level: "info", Format: "json"})
//	if err != nil {
//	    return err
//	}
//	slog.SetDefault(logger.Logger)
//
//	ctx = logging.WithRequestID(ctx, "req-123")
//	slog.InfoContext(ctx, "relay completed", "tokens", 42) // includes request_id
//
//	logger.SetLevel("debug")
package logging
