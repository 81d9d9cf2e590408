package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/jonwraymond/catalogapi/auth"
	"github.com/jonwraymond/catalogapi/cache"
	"github.com/jonwraymond/catalogapi/health"
	"github.com/jonwraymond/catalogapi/observe"
	"github.com/jonwraymond/catalogapi/resilience"
)

// Options carries the router's collaborators. Handlers, Authenticator, and
// Authorizer are required; the rest degrade to no-ops when absent.
type Options struct {
	Handlers      *Handlers
	Authenticator auth.Authenticator
	Authorizer    auth.Authorizer

	// Health, when set, exposes /healthz, /readyz, and /health.
	Health *health.Aggregator

	// Observe, when set, wraps every route with tracing/metrics/logging.
	Observe *observe.Middleware

	// Cache, when set, serves anonymous catalog GETs from cache and clears
	// it on successful writes.
	Cache *cache.Middleware

	// LoginLimiter, when set, throttles POST /token per client address.
	LoginLimiter *resilience.ClientLimiter
}

// NewRouter builds the full HTTP surface. Route-table resolution runs first;
// a table that leaves a route unservable or double-registers a slot fails
// here, before the server starts listening.
func NewRouter(opts Options) (chi.Router, error) {
	if opts.Handlers == nil || opts.Authenticator == nil || opts.Authorizer == nil {
		return nil, errors.New("api: handlers, authenticator, and authorizer are required")
	}

	routes := Table()
	docs, err := BuildDocs(routes)
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(chimw.Recoverer)

	// Token endpoint, outside the versioned catalog tree.
	var token http.Handler = http.HandlerFunc(opts.Handlers.Token)
	if opts.LoginLimiter != nil {
		token = opts.LoginLimiter.Middleware(token)
	}
	r.Method(http.MethodPost, "/token",
		opts.observed(observe.RouteMeta{Name: "auth.token", Method: http.MethodPost, Pattern: "/token"}, token))

	r.Method(http.MethodGet, "/docs/{version}",
		opts.observed(observe.RouteMeta{Name: "docs", Method: http.MethodGet, Pattern: "/docs/{version}"}, DocsHandler(docs)))

	if opts.Health != nil {
		r.Get("/healthz", health.LivenessHandler())
		r.Get("/readyz", health.ReadinessHandler(opts.Health))
		r.Get("/health", health.DetailedHandler(opts.Health))
	}

	byVersion, err := ResolveVersions(routes)
	if err != nil {
		return nil, err
	}

	for _, tag := range Versions {
		if err := opts.mount(r, "/api/v"+tag+"/catalog", tag, byVersion[tag]); err != nil {
			return nil, err
		}
	}
	// Unversioned requests default to the oldest supported version.
	if err := opts.mount(r, "/api/catalog", Version1, byVersion[Version1]); err != nil {
		return nil, err
	}

	return r, nil
}

func (o *Options) mount(r chi.Router, prefix, tag string, routes []Route) error {
	sub := chi.NewRouter()
	for _, route := range routes {
		handler, err := o.Handlers.handlerFor(route.Name)
		if err != nil {
			return err
		}

		wrapped := o.cached(route, o.guarded(route, handler))
		meta := observe.RouteMeta{
			Name:    route.Name,
			Method:  route.Method,
			Pattern: route.Pattern,
			Version: tag,
		}
		sub.Method(route.Method, route.Pattern, o.observed(meta, wrapped))
	}
	r.Mount(prefix, sub)
	return nil
}

func (o *Options) guarded(route Route, handler http.Handler) http.Handler {
	return auth.Guard(o.Authenticator, o.Authorizer, route.Name, route.Policy)(handler)
}

// cached applies response caching around the guard: anonymous GETs read
// through the cache, writes clear it only after the guard has let them
// succeed.
func (o *Options) cached(route Route, handler http.Handler) http.Handler {
	if o.Cache == nil {
		return handler
	}
	if route.Method == http.MethodGet {
		if route.Policy.RequireAuth {
			return handler
		}
		return o.Cache.ReadThrough(handler)
	}
	return o.Cache.Invalidate(handler)
}

func (o *Options) observed(meta observe.RouteMeta, handler http.Handler) http.Handler {
	if o.Observe == nil {
		return handler
	}
	return o.Observe.Wrap(meta, handler)
}
