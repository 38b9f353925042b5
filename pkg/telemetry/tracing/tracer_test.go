package tracing

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"mercator-hq/gateway/pkg/config"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func testTracingConfig() *config.TracingConfig {
	return &config.TracingConfig{
		Enabled:     true,
		Sampler:     SamplerAlways,
		SampleRatio: 1.0,
		ServiceName: "gateway-test",
	}
}

func TestNew_Disabled(t *testing.T) {
	tracer, err := New(&config.TracingConfig{Enabled: false})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if tracer.Enabled() {
		t.Error("expected disabled tracer")
	}

	_, span := tracer.Start(context.Background(), "relay")
	if span.SpanContext().IsValid() {
		t.Error("noop tracer produced a valid span")
	}
	span.End()

	if err := tracer.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown: %v", err)
	}
}

func TestNew_NilConfig(t *testing.T) {
	if _, err := New(nil); err == nil {
		t.Error("expected error for nil config")
	}
	if _, err := NewWithExporter(nil, tracetest.NewInMemoryExporter()); err == nil {
		t.Error("expected error for nil config")
	}
}

func TestNew_InvalidSampler(t *testing.T) {
	cfg := testTracingConfig()
	cfg.Sampler = "sometimes"
	if _, err := NewWithExporter(cfg, tracetest.NewInMemoryExporter()); err == nil {
		t.Error("expected error for unknown sampler")
	}
}

func TestTracer_RecordsRelaySpan(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tracer, err := NewWithExporter(testTracingConfig(), exporter)
	if err != nil {
		t.Fatalf("NewWithExporter: %v", err)
	}
	defer tracer.Shutdown(context.Background())

	_, span := tracer.Start(context.Background(), "relay")
	SetRequestAttributes(span, "req-1", "/chat", "tiny")
	SetBackendStatus(span, 200)
	SetStreamAttributes(span, 3, 7, 120.5, "completed")
	AddEvent(span, "first_chunk")
	span.End()

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("exported %d spans, want 1", len(spans))
	}
	got := make(map[attribute.Key]attribute.Value)
	for _, kv := range spans[0].Attributes {
		got[kv.Key] = kv.Value
	}

	if got[AttrRoute].AsString() != "/chat" {
		t.Errorf("route = %v", got[AttrRoute])
	}
	if got[AttrTokens].AsInt64() != 7 {
		t.Errorf("tokens = %v", got[AttrTokens])
	}
	if got[AttrBackendStatus].AsInt64() != 200 {
		t.Errorf("backend status = %v", got[AttrBackendStatus])
	}
	if len(spans[0].Events) != 1 || spans[0].Events[0].Name != "first_chunk" {
		t.Errorf("events = %v", spans[0].Events)
	}
}

func TestSetError(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tracer, err := NewWithExporter(testTracingConfig(), exporter)
	if err != nil {
		t.Fatal(err)
	}

	_, span := tracer.Start(context.Background(), "relay")
	SetError(span, nil)
	SetError(span, errors.New("backend reset"))
	span.End()

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("exported %d spans", len(spans))
	}
	if spans[0].Status.Code != codes.Error {
		t.Errorf("status = %v, want Error", spans[0].Status)
	}
	if len(spans[0].Events) != 1 {
		t.Errorf("expected one exception event, got %d", len(spans[0].Events))
	}
}

func TestPropagation_RoundTrip(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tracer, err := NewWithExporter(testTracingConfig(), exporter)
	if err != nil {
		t.Fatal(err)
	}

	incoming := http.Header{}
	incoming.Set("traceparent", "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01")

	ctx := Extract(context.Background(), incoming)
	ctx, span := tracer.Start(ctx, "relay")
	defer span.End()

	if got := span.SpanContext().TraceID().String(); got != "4bf92f3577b34da6a3ce929d0e0e4736" {
		t.Errorf("relay span did not join caller trace: %s", got)
	}

	outgoing := http.Header{}
	Inject(ctx, outgoing)
	tp := outgoing.Get("traceparent")
	if tp == "" {
		t.Fatal("no traceparent injected")
	}
	wantSpan := span.SpanContext().SpanID().String()
	if want := "00-4bf92f3577b34da6a3ce929d0e0e4736-" + wantSpan + "-01"; tp != want {
		t.Errorf("traceparent = %q, want %q", tp, want)
	}
}

func TestCreateSampler(t *testing.T) {
	tests := []struct {
		strategy string
		ratio    float64
		wantErr  bool
	}{
		{SamplerAlways, 0, false},
		{SamplerNever, 0, false},
		{SamplerRatio, 0.5, false},
		{SamplerRatio, 1.5, true},
		{"sometimes", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.strategy, func(t *testing.T) {
			s, err := createSampler(tt.strategy, tt.ratio)
			if (err != nil) != tt.wantErr {
				t.Fatalf("createSampler(%q, %v) error = %v", tt.strategy, tt.ratio, err)
			}
			if !tt.wantErr && s == nil {
				t.Error("nil sampler")
			}
		})
	}
}
