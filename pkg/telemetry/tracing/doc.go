// Package tracing provides OpenTelemetry distributed tracing for the gateway.
//
// # Overview
//
// Each relay is recorded as one span carrying the route, model, chunk and
// token counts, time to first token, backend status, and outcome. Spans are
// exported over OTLP/gRPC.
//
// # Trace Context Propagation
//
// W3C Trace Context is extracted from incoming requests and injected into the
// backend request, so a relay appears between its caller and the inference
// server in the same trace:
//
//	traceparent: 00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01
//
// # Sampling Strategies
//
//   - always: Sample all traces (development/debugging)
//   - never: Sample no traces
//   - ratio: Sample a percentage of traces (production)
//
// # Usage
//
//	tracer, err := tracing.New(&cfg.Telemetry.Tracing)
//	if err != nil {
//	    return err
//	}
//	defer tracer.Shutdown(context.Background())
//
//	ctx, span := tracer.Start(tracing.Extract(r.Context(), r.Header), "relay")
//	defer span.End()
package tracing
