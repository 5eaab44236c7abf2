// Package cache stores opaque byte blobs under string keys with an optional
// time-to-live.
//
// Three backends implement [Cache]:
//   - [FileCache]: one file per key under a directory, for the CLI
//   - [RedisCache]: keys under a prefix in Redis, for shared servers
//   - [NullCache]: never stores anything, for disabling caching
//
// Keys are built by a [Keyer] so every caller namespaces the same way.
// The designer caches generated layouts keyed by model and prompt; see
// [Keyer.GenerationKey].
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with expiry.
type Cache interface {
	// Get returns the stored data and true, or false on a miss. Expired
	// entries are misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data. A ttl of zero or less never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
