package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/guestlane/guestchat/internal/db"
)

// kvStore is the consumer interface for the redis-backed cache (ISP).
type kvStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

// Redis backs the cache with the shared key-value store, letting multiple
// instances share tenant resolutions. Expiry is enforced server-side.
type Redis struct {
	store kvStore
}

// NewRedis creates a store-backed cache.
func NewRedis(store kvStore) *Redis {
	return &Redis{store: store}
}

// Get returns the cached value, mapping a missing key to ErrMiss.
func (r *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := r.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return nil, ErrMiss
		}
		return nil, fmt.Errorf("cache get: %w", err)
	}
	return data, nil
}

// Set stores a value with a server-side TTL.
func (r *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := r.store.SetWithTTL(ctx, key, value, ttl); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Delete removes a key.
func (r *Redis) Delete(ctx context.Context, key string) error {
	if err := r.store.Del(ctx, key); err != nil {
		return fmt.Errorf("cache delete: %w", err)
	}
	return nil
}
