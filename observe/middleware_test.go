package observe

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// recordingMetrics captures RecordRequest calls for assertions.
type recordingMetrics struct {
	mu      sync.Mutex
	metas   []RouteMeta
	statuses []int
}

func (m *recordingMetrics) RecordRequest(_ context.Context, meta RouteMeta, status int, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.metas = append(m.metas, meta)
	m.statuses = append(m.statuses, status)
}

// passthroughTracer satisfies Tracer without an SDK provider.
type passthroughTracer struct {
	noop trace.Tracer
}

func (t *passthroughTracer) StartSpan(ctx context.Context, meta RouteMeta) (context.Context, trace.Span) {
	return t.noop.Start(ctx, meta.SpanName())
}

func (t *passthroughTracer) EndSpan(span trace.Span, status int, err error) {
	span.End()
}

func newTestMiddleware(metrics Metrics, logger Logger) *Middleware {
	tracer := &passthroughTracer{noop: tracenoop.NewTracerProvider().Tracer("test")}
	return NewMiddleware(tracer, metrics, logger)
}

func TestMiddleware_RecordsStatus(t *testing.T) {
	metrics := &recordingMetrics{}
	mw := newTestMiddleware(metrics, &noopLogger{})

	meta := RouteMeta{Name: "catalog.products.get", Method: "GET", Pattern: "/products/{id}", Version: "1.0"}
	handler := mw.Wrap(meta, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/products/99", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if len(metrics.statuses) != 1 || metrics.statuses[0] != http.StatusNotFound {
		t.Errorf("recorded statuses = %v, want [404]", metrics.statuses)
	}
	if metrics.metas[0].Name != "catalog.products.get" {
		t.Errorf("recorded route = %q", metrics.metas[0].Name)
	}
}

func TestMiddleware_DefaultsToOK(t *testing.T) {
	metrics := &recordingMetrics{}
	mw := newTestMiddleware(metrics, &noopLogger{})

	handler := mw.Wrap(RouteMeta{Name: "health"}, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok")) // implicit 200
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/healthz", nil))

	if len(metrics.statuses) != 1 || metrics.statuses[0] != http.StatusOK {
		t.Errorf("recorded statuses = %v, want [200]", metrics.statuses)
	}
}

func TestMiddleware_LogsRequest(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("info", &buf)
	mw := newTestMiddleware(&NoopMetrics{}, logger)

	handler := mw.Wrap(RouteMeta{Name: "catalog.vendors.list", Method: "GET", Pattern: "/vendors"},
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/vendors", nil))

	entry := decodeLogLine(t, &buf)
	if entry["msg"] != "request completed" {
		t.Errorf("msg = %v", entry["msg"])
	}
	if entry["route.name"] != "catalog.vendors.list" {
		t.Errorf("route.name = %v", entry["route.name"])
	}
	if entry["status"] != float64(200) {
		t.Errorf("status = %v", entry["status"])
	}
}

func TestMiddlewareFromObserver_NilObserver(t *testing.T) {
	if _, err := MiddlewareFromObserver(nil); err != ErrNilObserver {
		t.Errorf("error = %v, want ErrNilObserver", err)
	}
}
