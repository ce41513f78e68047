// Package cache provides byte-blob caching for deterministic LUT
// generation results.
//
// Synthesizing a 65³ conversion LUT is pure CPU work on fixed inputs, so
// the serialized .cube bytes can be cached by a hash of the generation
// parameters. The file backend serves local CLI runs; the redis backend
// lets render-farm nodes share one cache; the null backend disables
// caching entirely.
package cache

import (
	"context"
	"time"
)

// TTLGeneration is how long generated LUTs stay cached. Generation is
// deterministic, so the TTL exists only to bound disk usage.
const TTLGeneration = 30 * 24 * time.Hour

// Cache stores opaque byte blobs under string keys.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get retrieves a value. The second return reports a hit.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with a TTL. A zero TTL means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Keyer derives cache keys from generation parameters.
type Keyer interface {
	// GenerationKey identifies a synthesized LUT by everything that
	// affects its bytes: source/target format, grid size, and chromatic
	// adaptation method.
	GenerationKey(source, target string, size int, adaptation string) string
}

// DefaultKeyer hashes parameters into versioned keys. The version prefix
// invalidates old entries when the key layout or synthesis output changes.
type DefaultKeyer struct {
	version string
}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() *DefaultKeyer {
	return &DefaultKeyer{version: "v1"}
}

// GenerationKey implements Keyer.
func (k *DefaultKeyer) GenerationKey(source, target string, size int, adaptation string) string {
	return hashKey("gen:"+k.version, source, target, size, adaptation)
}
