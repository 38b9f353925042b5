package health

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func Benchmark_CheckReadiness_OneCheck(b *testing.B) {
	checker := New(5 * time.Second)
	checker.RegisterCheck("backend", func(ctx context.Context) error {
		return nil
	})

	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = checker.CheckReadiness(ctx)
	}
}

func Benchmark_LivenessHandler(b *testing.B) {
	handler := New(5 * time.Second).LivenessHandler()
	req := httptest.NewRequest(http.MethodGet, LivenessPath, nil)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		handler(httptest.NewRecorder(), req)
	}
}
