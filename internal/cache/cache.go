// Package cache provides the injectable TTL cache used by the tenant
// resolver. The interface keeps resolver logic independent of the backing
// store, so the in-process map can be swapped for a distributed cache.
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss is returned when a key is absent or expired.
var ErrMiss = errors.New("cache: miss")

// Cache stores small values with a TTL.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
