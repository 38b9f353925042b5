package handlers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"mercator-hq/gateway/pkg/backend"
	"mercator-hq/gateway/pkg/config"
	"mercator-hq/gateway/pkg/inflight"
	"mercator-hq/gateway/pkg/proxy"
	"mercator-hq/gateway/pkg/proxy/types"
	"mercator-hq/gateway/pkg/stream"
	"mercator-hq/gateway/pkg/telemetry/logging"
	"mercator-hq/gateway/pkg/telemetry/tracing"
)

// Relay outcomes, used as the outcome metric label and span attribute.
const (
	OutcomeCompleted    = "completed"
	OutcomeBackendError = "backend_error"
	OutcomeClientGone   = "client_gone"
)

// Backend opens streaming chat completions. *backend.Client implements it.
type Backend interface {
	OpenStream(ctx context.Context, body []byte) (*backend.Stream, error)
}

// Recorder receives the relay's metrics. *metrics.Collector implements it.
type Recorder interface {
	stream.Observer
	RecordRequest(route string)
	RecordOutcome(outcome string)
	RecordBackendStatus(code int)
}

// Tracer starts relay spans. *tracing.Tracer implements it.
type Tracer interface {
	Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span)
}

// RelayDeps are the collaborators shared by every relay route.
type RelayDeps struct {
	Backend  Backend
	Counter  *inflight.Counter
	Recorder Recorder

	// Tracer is optional; spans are not recorded when nil.
	Tracer Tracer

	Config config.RelayConfig

	// MaxBodyBytes bounds the inbound payload. Zero means
	// proxy.MaxRequestBodySize.
	MaxBodyBytes int64
}

// RelayHandler relays a chat-completion request to the backend and streams
// the backend's response back unmodified while measuring it.
//
// A request moves through four stages:
//
//  1. Accepted: counted, parsed (400 on failure), in-flight incremented,
//     defaults applied.
//  2. Forwarding: event-stream headers are sent and the backend is called.
//  3. Streaming: each backend chunk is written and flushed in arrival order.
//  4. Completed or failed: backend closed, in-flight decremented, outcome
//     recorded.
//
// Once the event-stream headers are sent the status is fixed at 200, so a
// backend failure shows up to the caller as a stream that ends early.
type RelayHandler struct {
	route string
	deps  RelayDeps
	now   func() time.Time
}

// NewRelayHandler creates the handler serving route.
func NewRelayHandler(route string, deps RelayDeps) *RelayHandler {
	if deps.Tracer == nil {
		deps.Tracer = noop.NewTracerProvider().Tracer("gateway")
	}
	return &RelayHandler{
		route: route,
		deps:  deps,
		now:   time.Now,
	}
}

// relayResult is what the streaming stage reports back.
type relayResult struct {
	observation stream.Observation
	outcome     string
	err         error
}

// ServeHTTP implements http.Handler.
func (h *RelayHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		_ = proxy.WriteErrorResponse(w, types.NewMethodNotAllowedError(r.Method))
		return
	}

	ctx := logging.WithRoute(r.Context(), h.route)
	h.deps.Recorder.RecordRequest(h.route)

	req, err := proxy.ParseRelayRequest(r, h.deps.MaxBodyBytes)
	if err != nil {
		slog.WarnContext(ctx, "rejected relay request", "error", err)
		if err := proxy.WriteErrorResponse(w, proxy.HandleError(err)); err != nil {
			slog.ErrorContext(ctx, "failed to write error response", "error", err)
		}
		return
	}

	h.deps.Counter.Increment()
	defer h.deps.Counter.Decrement()

	req.ApplyDefaults(h.deps.Config.DefaultModel, h.deps.Config.DefaultPrompt)
	body, err := req.Body()
	if err != nil {
		slog.ErrorContext(ctx, "failed to encode relay request", "error", err)
		_ = proxy.WriteErrorResponse(w, proxy.HandleError(err))
		return
	}

	ctx, span := h.deps.Tracer.Start(tracing.Extract(ctx, r.Header), "relay",
		trace.WithSpanKind(trace.SpanKindServer))
	defer span.End()
	tracing.SetRequestAttributes(span, logging.GetRequestID(ctx), h.route, req.Model())

	started := h.now()
	proxy.WriteSSEHeaders(w)

	result := h.relay(ctx, w, span, body, started)

	obs := result.observation
	ttftMs := float64(obs.TTFT().Microseconds()) / 1000

	h.deps.Recorder.RecordOutcome(result.outcome)
	tracing.SetStreamAttributes(span, obs.Chunks, obs.Tokens, ttftMs, result.outcome)

	attrs := []any{
		"model", req.Model(),
		"chunks", obs.Chunks,
		"tokens", obs.Tokens,
		"ttft_ms", ttftMs,
		"duration_ms", h.now().Sub(started).Milliseconds(),
		"outcome", result.outcome,
	}
	switch result.outcome {
	case OutcomeBackendError:
		tracing.SetError(span, result.err)
		slog.ErrorContext(ctx, "relay failed", append(attrs, "error", result.err)...)
	case OutcomeClientGone:
		slog.WarnContext(ctx, "client disconnected during relay", append(attrs, "error", result.err)...)
	default:
		slog.InfoContext(ctx, "relay completed", attrs...)
	}
}

// relay opens the backend stream and copies it to w until it ends.
func (h *RelayHandler) relay(ctx context.Context, w http.ResponseWriter, span trace.Span, body []byte, started time.Time) relayResult {
	src, err := h.deps.Backend.OpenStream(ctx, body)
	if err != nil {
		return relayResult{
			observation: stream.Observation{Started: started},
			outcome:     classify(ctx, err),
			err:         err,
		}
	}
	defer src.Close()

	status := src.StatusCode()
	h.deps.Recorder.RecordBackendStatus(status)
	tracing.SetBackendStatus(span, status)
	if status >= http.StatusBadRequest {
		slog.WarnContext(ctx, "backend answered with error status, relaying body", "backend_status", status)
	}

	instrumented := stream.Instrument(src, h.deps.Recorder, started,
		stream.WithMarker([]byte(h.deps.Config.TokenMarker)),
		stream.WithClock(h.now),
	)

	for {
		chunk, err := instrumented.Next(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return relayResult{observation: instrumented.Observation(), outcome: OutcomeCompleted}
			}
			return relayResult{
				observation: instrumented.Observation(),
				outcome:     classify(ctx, err),
				err:         err,
			}
		}

		if _, err := w.Write(chunk); err != nil {
			return relayResult{
				observation: instrumented.Observation(),
				outcome:     OutcomeClientGone,
				err:         err,
			}
		}
		proxy.Flush(w)
	}
}

// classify attributes a failure to the caller when its context is done and
// to the backend otherwise.
func classify(ctx context.Context, err error) string {
	if ctx.Err() != nil || errors.Is(err, context.Canceled) {
		return OutcomeClientGone
	}
	return OutcomeBackendError
}
