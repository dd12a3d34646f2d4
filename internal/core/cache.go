// Package core provides the business logic contracts for the site.
package core

import (
	"context"
	"time"
)

// CacheRepository caches rendered content for the public site. The core
// defines the contract; the data layer supplies the Redis implementation.
type CacheRepository interface {
	// Set stores value under key. A zero ttl means the key never expires.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Get returns the cached value, or nil when the key is absent or
	// expired.
	Get(ctx context.Context, key string) ([]byte, error)

	// Delete removes key, reporting whether it existed.
	Delete(ctx context.Context, key string) (bool, error)
}
