package tracing

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Attribute keys recorded on relay spans.
const (
	AttrRequestID     = "gateway.request_id"
	AttrRoute         = "gateway.route"
	AttrModel         = "gateway.model"
	AttrBackendStatus = "gateway.backend.status_code"
	AttrChunks        = "gateway.stream.chunks"
	AttrTokens        = "gateway.stream.tokens"
	AttrTTFTMs        = "gateway.stream.ttft_ms"
	AttrOutcome       = "gateway.outcome"
)

// SetRequestAttributes records what the relay was asked to do.
func SetRequestAttributes(span trace.Span, requestID, route, model string) {
	attrs := []attribute.KeyValue{
		attribute.String(AttrRoute, route),
	}
	if requestID != "" {
		attrs = append(attrs, attribute.String(AttrRequestID, requestID))
	}
	if model != "" {
		attrs = append(attrs, attribute.String(AttrModel, model))
	}
	span.SetAttributes(attrs...)
}

// SetStreamAttributes records what the relay observed on the stream.
func SetStreamAttributes(span trace.Span, chunks, tokens int, ttftMs float64, outcome string) {
	span.SetAttributes(
		attribute.Int(AttrChunks, chunks),
		attribute.Int(AttrTokens, tokens),
		attribute.Float64(AttrTTFTMs, ttftMs),
		attribute.String(AttrOutcome, outcome),
	)
}

// SetBackendStatus records the status code the backend answered with.
func SetBackendStatus(span trace.Span, code int) {
	span.SetAttributes(attribute.Int(AttrBackendStatus, code))
}

// AddEvent adds a timestamped event to the span.
func AddEvent(span trace.Span, name string, attrs ...attribute.KeyValue) {
	span.AddEvent(name, trace.WithAttributes(attrs...))
}
