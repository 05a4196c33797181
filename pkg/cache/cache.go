// Package cache memoizes computed gallery values.
//
// Layout and Panner values are pure functions of the screen size, the box
// count and the gallery geometry, so they can be shared between relay
// instances and API requests. Entries are opaque byte slices (the pipeline
// stores JSON) keyed by [Keyer].
//
// Backends:
//   - [NullCache]: caching disabled
//   - [MemoryCache]: in-process map with expiry (default for the relay)
//   - [RedisCache]: shared cache for several relay or API instances
//
// Nothing in a cache is authoritative: every entry can be recomputed.
package cache

import (
	"context"
	"time"
)

// Cache stores computed values with an optional time-to-live.
type Cache interface {
	// Get returns the value for key and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Clearer is implemented by caches that can drop every entry they own.
type Clearer interface {
	// Clear removes all entries and returns how many were removed.
	Clear(ctx context.Context) (int, error)
}

// Backend names accepted by [New].
const (
	BackendNone   = "none"
	BackendMemory = "memory"
	BackendRedis  = "redis"
)
