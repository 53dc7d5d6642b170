// Package cache provides byte caches for memoizing layout results.
//
// Backends implement [Cache]:
//   - [Disabled]: caching turned off (--no-cache)
//   - [MemoryCache]: process-local map with TTLs and a size bound (CLI, tests)
//   - [RedisCache]: shared cache for server deployments (go-redis)
//
// Keys are produced by a [Keyer]. [ScopedKeyer] prefixes keys so several
// document roots can share one Redis instance without collisions.
//
// Nothing here persists graph or layout state beyond the cache TTL; losing a
// cache only costs recomputation.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte values under string keys.
type Cache interface {
	// Get returns the value and whether it was present. A miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores a value. ttl <= 0 means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

// DefaultLayoutTTL bounds how long a memoized layout is kept.
const DefaultLayoutTTL = time.Hour

// Disabled returns a cache that stores nothing. Every Get misses.
func Disabled() Cache { return disabled{} }

type disabled struct{}

func (disabled) Get(ctx context.Context, _ string) ([]byte, bool, error) {
	return nil, false, ctx.Err()
}

func (disabled) Set(ctx context.Context, _ string, _ []byte, _ time.Duration) error {
	return ctx.Err()
}

func (disabled) Delete(context.Context, string) error { return nil }
func (disabled) Close() error                         { return nil }
