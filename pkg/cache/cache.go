// Package cache stores intermediate crosscover results between runs.
//
// Building an informative map means scanning the whole assay table, and an
// exhaustive selection can walk millions of subsets. Both are pure functions
// of their inputs, so results are keyed by content hashes and reused:
//
//   - map: assay hash + pairs hash + parse options -> coverage map
//   - selection: map hash + strategy + budget -> report
//   - artifact: report hash + format + size -> rendered bytes
//
// # Backends
//
//   - [FileCache]: JSON entry files under a local directory (CLI default)
//   - [RedisCache]: shared cache for several machines or users
//   - [NullCache]: caching disabled
//
// All backends implement [Cache]. Keys are produced by a [Keyer].
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with expiry.
type Cache interface {
	// Get returns the value for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A non-positive ttl means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Clearer is implemented by caches that can drop every entry at once.
type Clearer interface {
	Clear(ctx context.Context) error
}

// Default TTLs per entry kind.
const (
	MapTTL       = 7 * 24 * time.Hour
	SelectionTTL = 7 * 24 * time.Hour
	ArtifactTTL  = 24 * time.Hour
)
