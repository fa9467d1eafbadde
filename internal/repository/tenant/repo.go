// Package tenant persists tenant records as hashes keyed by id, with a
// slug alias key pointing at the id. The admin platform writes these rows;
// the retrieval core only reads them.
package tenant

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/guestlane/guestchat/internal/db"
	"github.com/guestlane/guestchat/internal/domain"
	domtenant "github.com/guestlane/guestchat/internal/domain/tenant"
)

const (
	tenantKeyPrefix = domain.KeyPrefix + "tenant:"
	slugKeyPrefix   = domain.KeyPrefix + "tenant_slug:"
)

// store is the consumer interface for tenant lookups (ISP).
type store interface {
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	Get(ctx context.Context, key string) ([]byte, error)
}

// Repo implements the tenant resolver's Repository contract.
type Repo struct {
	store store
}

// New creates a tenant repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// GetByID fetches a tenant record by its canonical id.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (domtenant.Tenant, error) {
	fields, err := r.store.HGetAll(ctx, tenantKeyPrefix+id.String())
	if err != nil {
		return domtenant.Tenant{}, fmt.Errorf("get tenant %s: %w", id, err)
	}
	if len(fields) == 0 {
		return domtenant.Tenant{}, fmt.Errorf("tenant %s: %w", id, domain.ErrTenantUnresolved)
	}
	return parseTenant(id, fields)
}

// GetBySlug resolves the slug alias to an id, then fetches the record.
func (r *Repo) GetBySlug(ctx context.Context, slug string) (domtenant.Tenant, error) {
	data, err := r.store.Get(ctx, slugKeyPrefix+slug)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domtenant.Tenant{}, fmt.Errorf("tenant slug %q: %w", slug, domain.ErrTenantUnresolved)
		}
		return domtenant.Tenant{}, fmt.Errorf("resolve slug %q: %w", slug, err)
	}

	id, err := uuid.Parse(string(data))
	if err != nil {
		return domtenant.Tenant{}, fmt.Errorf("slug %q points at invalid tenant id %q: %w",
			slug, data, domain.ErrTenantUnresolved)
	}

	return r.GetByID(ctx, id)
}

func parseTenant(id uuid.UUID, fields map[string]string) (domtenant.Tenant, error) {
	t := domtenant.Tenant{
		ID:     id,
		Handle: fields["handle"],
	}
	t.Active = parseBool(fields["active"])
	t.Features.SharedDomainAccess = parseBool(fields["shared_domain_access"])
	t.Features.PremiumChat = parseBool(fields["premium_chat"])
	return t, nil
}

func parseBool(s string) bool {
	b, err := strconv.ParseBool(s)
	return err == nil && b
}
