package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
)

// Keyer generates deterministic cache keys from HTTP requests.
//
// Contract:
// - Determinism: the same method and URI must produce the same key.
// - Concurrency: implementations must be safe for concurrent use.
type Keyer interface {
	// Key generates a cache key for the request.
	Key(r *http.Request) string
}

// RequestKeyer generates SHA-256 based cache keys from the request line.
type RequestKeyer struct{}

// NewRequestKeyer creates a new request keyer.
func NewRequestKeyer() *RequestKeyer {
	return &RequestKeyer{}
}

// Key generates a deterministic cache key.
// Format: resp:<hash>
// where hash is the first 16 characters of SHA-256(method + " " + URI).
func (k *RequestKeyer) Key(r *http.Request) string {
	hash := sha256.Sum256([]byte(r.Method + " " + r.URL.RequestURI()))
	return fmt.Sprintf("resp:%s", hex.EncodeToString(hash[:8]))
}

// Ensure RequestKeyer implements Keyer
var _ Keyer = (*RequestKeyer)(nil)
