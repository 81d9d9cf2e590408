// Package cache provides response caching for the catalog API.
//
// The cache stores rendered HTTP responses for anonymous read routes keyed by
// method and request URI. Any successful write to the catalog clears the cache
// so that readers never see stale listings.
package cache
