package cache

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"
)

// cachedResponse is the stored form of a rendered response.
type cachedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"contentType"`
	Body        []byte `json:"body"`
}

// Middleware caches rendered GET responses and clears the cache on writes.
type Middleware struct {
	cache Cache
	keyer Keyer
	ttl   time.Duration
}

// NewMiddleware creates a caching middleware.
func NewMiddleware(c Cache, keyer Keyer, ttl time.Duration) *Middleware {
	return &Middleware{cache: c, keyer: keyer, ttl: ttl}
}

// ReadThrough serves GET responses from the cache, filling it on miss.
// Only 200 responses to unauthenticated GET requests are cached; requests
// carrying an Authorization header bypass the cache.
func (m *Middleware) ReadThrough(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.Header.Get("Authorization") != "" {
			next.ServeHTTP(w, r)
			return
		}

		key := m.keyer.Key(r)
		if err := ValidateKey(key); err != nil {
			next.ServeHTTP(w, r)
			return
		}

		if raw, ok := m.cache.Get(r.Context(), key); ok {
			var resp cachedResponse
			if err := json.Unmarshal(raw, &resp); err == nil {
				if resp.ContentType != "" {
					w.Header().Set("Content-Type", resp.ContentType)
				}
				w.Header().Set("X-Cache", "HIT")
				w.WriteHeader(resp.Status)
				w.Write(resp.Body)
				return
			}
			// Undecodable entry, drop it and fall through.
			m.cache.Delete(r.Context(), key)
		}

		rec := &captureWriter{ResponseWriter: w, status: http.StatusOK}
		w.Header().Set("X-Cache", "MISS")
		next.ServeHTTP(rec, r)

		if rec.status == http.StatusOK {
			raw, err := json.Marshal(cachedResponse{
				Status:      rec.status,
				ContentType: rec.Header().Get("Content-Type"),
				Body:        rec.body.Bytes(),
			})
			if err == nil {
				m.cache.Set(r.Context(), key, raw, m.ttl)
			}
		}
	})
}

// Invalidate clears the cache after any successful write.
func (m *Middleware) Invalidate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			next.ServeHTTP(w, r)
			return
		}

		rec := &captureWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		if rec.status >= 200 && rec.status < 300 {
			m.cache.Clear(r.Context())
		}
	})
}

// captureWriter tees the response body and records the status code.
type captureWriter struct {
	http.ResponseWriter
	status int
	wrote  bool
	body   bytes.Buffer
}

func (w *captureWriter) WriteHeader(code int) {
	if !w.wrote {
		w.status = code
		w.wrote = true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *captureWriter) Write(b []byte) (int, error) {
	w.wrote = true
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}
