// Package observe provides observability primitives for the catalog API:
// structured logging, request tracing, and request metrics behind a single
// Observer. It is a pure instrumentation layer; consumers wire the observer
// into the HTTP router as middleware.
package observe
