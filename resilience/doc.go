// Package resilience provides request throttling for the catalog API.
//
// The login limiter keeps credential-stuffing attempts against the token
// endpoint bounded per client address. Limits are enforced with token buckets
// from golang.org/x/time/rate.
package resilience
