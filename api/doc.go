// Package api assembles the catalog HTTP surface: the static route table,
// API-version resolution, request handlers, generated documentation, and the
// chi router wiring them together with authentication, caching, rate
// limiting, and observability middleware.
package api
