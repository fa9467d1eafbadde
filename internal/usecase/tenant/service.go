// Package tenant resolves a tenant handle (uuid or slug) to a validated,
// active tenant identity. This is the security boundary for all tenant
// isolation: resolution never falls back to a default tenant, because
// substituting one would leak a tenant's data into another's response.
package tenant

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/guestlane/guestchat/internal/domain"
	domtenant "github.com/guestlane/guestchat/internal/domain/tenant"
	"github.com/guestlane/guestchat/internal/metrics"
)

// DefaultTTL is the cache lifetime for a resolved tenant. Activation rarely
// changes in real time, so a stale-but-not-wrong entry for up to the TTL
// window is an accepted trade-off.
const DefaultTTL = 5 * time.Minute

const cacheKeyPrefix = domain.KeyPrefix + "tenant_resolve:"

// Service resolves and caches tenant identities.
type Service struct {
	repo   Repository
	cache  Cache
	ttl    time.Duration
	logger *zap.Logger
}

// New creates a tenant resolver. ttl <= 0 selects DefaultTTL.
func New(repo Repository, cache Cache, ttl time.Duration, logger *zap.Logger) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{repo: repo, cache: cache, ttl: ttl, logger: logger}
}

// Resolve maps a handle to an active tenant. The handle form (uuid vs slug)
// is detected by format check, not a database round trip. Failures are a
// single kind: domain.ErrTenantUnresolved.
func (s *Service) Resolve(ctx context.Context, handle string) (domtenant.Tenant, error) {
	if handle == "" {
		return domtenant.Tenant{}, fmt.Errorf("empty handle: %w", domain.ErrTenantUnresolved)
	}

	if t, ok := s.fromCache(ctx, handle); ok {
		metrics.TenantCacheTotal.WithLabelValues("hit").Inc()
		return t, nil
	}
	metrics.TenantCacheTotal.WithLabelValues("miss").Inc()

	var (
		t   domtenant.Tenant
		err error
	)
	if id, parseErr := uuid.Parse(handle); parseErr == nil {
		t, err = s.repo.GetByID(ctx, id)
	} else {
		t, err = s.repo.GetBySlug(ctx, handle)
	}
	if err != nil {
		s.logger.Warn("tenant resolution failed",
			zap.String("handle", handle), zap.Error(err))
		return domtenant.Tenant{}, fmt.Errorf("resolve tenant %q: %w", handle, domain.ErrTenantUnresolved)
	}
	if !t.Active {
		return domtenant.Tenant{}, fmt.Errorf("tenant %q inactive: %w", handle, domain.ErrTenantUnresolved)
	}

	s.toCache(ctx, handle, t)
	return t, nil
}

func (s *Service) fromCache(ctx context.Context, handle string) (domtenant.Tenant, bool) {
	data, err := s.cache.Get(ctx, cacheKeyPrefix+handle)
	if err != nil {
		return domtenant.Tenant{}, false
	}

	var t domtenant.Tenant
	if err := json.Unmarshal(data, &t); err != nil {
		s.logger.Warn("corrupt tenant cache entry",
			zap.String("handle", handle), zap.Error(err))
		return domtenant.Tenant{}, false
	}
	return t, true
}

// toCache failures are logged and ignored: the cache is an optimization.
func (s *Service) toCache(ctx context.Context, handle string, t domtenant.Tenant) {
	data, err := json.Marshal(t)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, cacheKeyPrefix+handle, data, s.ttl); err != nil {
		s.logger.Warn("failed to cache tenant resolution",
			zap.String("handle", handle), zap.Error(err))
	}
}
