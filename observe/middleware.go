package observe

import (
	"net/http"
	"time"
)

// Middleware wraps HTTP handlers with observability (tracing, metrics, logging).
//
// Contract:
//   - Concurrency: Wrap() returns a thread-safe http.Handler.
//   - Context: Propagates context through tracing spans.
//   - Errors: the wrapped handler's response status determines error recording.
type Middleware struct {
	tracer  Tracer
	metrics Metrics
	logger  Logger
}

// NewMiddleware creates a new Middleware with the given observability components.
func NewMiddleware(tracer Tracer, metrics Metrics, logger Logger) *Middleware {
	return &Middleware{
		tracer:  tracer,
		metrics: metrics,
		logger:  logger,
	}
}

// Wrap wraps an HTTP handler with tracing, metrics, and logging for the route.
func (m *Middleware) Wrap(meta RouteMeta, next http.Handler) http.Handler {
	routeLogger := m.logger.WithRoute(meta)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := m.tracer.StartSpan(r.Context(), meta)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(rec, r.WithContext(ctx))

		duration := time.Since(start)

		m.tracer.EndSpan(span, rec.status, nil)
		m.metrics.RecordRequest(ctx, meta, rec.status, duration)

		fields := []Field{
			{Key: "status", Value: rec.status},
			{Key: "duration_ms", Value: float64(duration.Milliseconds())},
			{Key: "remote_addr", Value: r.RemoteAddr},
		}

		switch {
		case rec.status >= 500:
			routeLogger.Error(ctx, "request failed", fields...)
		case rec.status >= 400:
			routeLogger.Warn(ctx, "request rejected", fields...)
		default:
			routeLogger.Info(ctx, "request completed", fields...)
		}
	})
}

// MiddlewareFromObserver creates a Middleware from an Observer.
// This is a convenience function for common use cases.
func MiddlewareFromObserver(obs Observer) (*Middleware, error) {
	if obs == nil {
		return nil, ErrNilObserver
	}

	tracer := NewTracer(obs.Tracer())

	metrics, err := NewMetrics(obs.Meter())
	if err != nil {
		return nil, err
	}

	return NewMiddleware(tracer, metrics, obs.Logger()), nil
}

// statusRecorder captures the response status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
	wrote  bool
}

func (r *statusRecorder) WriteHeader(code int) {
	if !r.wrote {
		r.status = code
		r.wrote = true
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	r.wrote = true
	return r.ResponseWriter.Write(b)
}
