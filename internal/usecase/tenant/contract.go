package tenant

import (
	"context"
	"time"

	"github.com/google/uuid"

	domtenant "github.com/guestlane/guestchat/internal/domain/tenant"
)

// Repository reads tenant records from the authoritative store.
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (domtenant.Tenant, error)
	GetBySlug(ctx context.Context, slug string) (domtenant.Tenant, error)
}

// Cache stores resolved tenants keyed by the original handle.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}
