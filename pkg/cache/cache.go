// Package cache stores fetched source payloads between runs.
//
// Fetching Apple's published table is the slowest and least reliable step of
// a run, so the web source keeps the raw page bytes in a [Cache] and only
// refetches when the entry expires or the caller asks for a refresh. Three
// backends implement the interface:
//
//   - [FileCache]: one JSON envelope per key under a directory (CLI default)
//   - [RedisCache]: a shared Redis instance, for servers and CI runners
//   - [NullCache]: never stores anything (--no-cache)
//
// Keys are produced by a [Keyer] so that backends never see raw URLs.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the cached bytes and true on a hit. A miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
