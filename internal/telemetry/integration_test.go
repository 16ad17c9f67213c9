package telemetry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// TestTraceContextPropagation verifies that a span started for an incoming
// request reaches the upstream call through InjectHeaders.
func TestTraceContextPropagation(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	defer func() {
		_ = tp.Shutdown(context.Background())
	}()

	var upstreamTraceParent string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		upstreamTraceParent = r.Header.Get("traceparent")
		w.WriteHeader(http.StatusOK)
	}))
	defer upstream.Close()

	r := mux.NewRouter()
	r.Use(otelmux.Middleware("test-service"))
	r.HandleFunc("/generate", func(w http.ResponseWriter, r *http.Request) {
		ctx, span := Tracer("test").Start(r.Context(), "upstream_call")
		defer span.End()

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, upstream.URL, nil)
		if err != nil {
			t.Errorf("failed to build request: %v", err)
			return
		}
		InjectHeaders(ctx, req.Header)
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Errorf("upstream call failed: %v", err)
			return
		}
		_ = resp.Body.Close()
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/generate", nil)
	req.Header.Set("traceparent", "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if !strings.Contains(upstreamTraceParent, "4bf92f3577b34da6a3ce929d0e0e4736") {
		t.Errorf("Expected upstream traceparent to carry incoming trace ID, got %q", upstreamTraceParent)
	}
	if spans := exporter.GetSpans(); len(spans) < 2 {
		t.Errorf("Expected at least 2 spans (server + upstream_call), got %d", len(spans))
	}
}
