package tenant

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/guestlane/guestchat/internal/cache"
	"github.com/guestlane/guestchat/internal/domain"
	domtenant "github.com/guestlane/guestchat/internal/domain/tenant"
)

type mockRepo struct {
	byID       map[uuid.UUID]domtenant.Tenant
	bySlug     map[string]domtenant.Tenant
	idCalls    int
	slugCalls  int
	forcedErr  error
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		byID:   make(map[uuid.UUID]domtenant.Tenant),
		bySlug: make(map[string]domtenant.Tenant),
	}
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (domtenant.Tenant, error) {
	m.idCalls++
	if m.forcedErr != nil {
		return domtenant.Tenant{}, m.forcedErr
	}
	if t, ok := m.byID[id]; ok {
		return t, nil
	}
	return domtenant.Tenant{}, domain.ErrTenantUnresolved
}

func (m *mockRepo) GetBySlug(_ context.Context, slug string) (domtenant.Tenant, error) {
	m.slugCalls++
	if m.forcedErr != nil {
		return domtenant.Tenant{}, m.forcedErr
	}
	if t, ok := m.bySlug[slug]; ok {
		return t, nil
	}
	return domtenant.Tenant{}, domain.ErrTenantUnresolved
}

func (m *mockRepo) add(t domtenant.Tenant) {
	m.byID[t.ID] = t
	m.bySlug[t.Handle] = t
}

func activeTenant(slug string) domtenant.Tenant {
	return domtenant.Tenant{
		ID:       uuid.New(),
		Handle:   slug,
		Active:   true,
		Features: domtenant.Features{SharedDomainAccess: true},
	}
}

func TestResolve_BySlug(t *testing.T) {
	repo := newMockRepo()
	want := activeTenant("casa-del-mar")
	repo.add(want)
	svc := New(repo, cache.NewMemory(), 0, zap.NewNop())

	got, err := svc.Resolve(context.Background(), "casa-del-mar")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != want.ID {
		t.Errorf("id = %s, want %s", got.ID, want.ID)
	}
	if repo.slugCalls != 1 || repo.idCalls != 0 {
		t.Errorf("calls: slug=%d id=%d, want slug path only", repo.slugCalls, repo.idCalls)
	}
}

func TestResolve_ByUUID(t *testing.T) {
	repo := newMockRepo()
	want := activeTenant("casa-del-mar")
	repo.add(want)
	svc := New(repo, cache.NewMemory(), 0, zap.NewNop())

	got, err := svc.Resolve(context.Background(), want.ID.String())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != want.ID {
		t.Errorf("id = %s, want %s", got.ID, want.ID)
	}
	if repo.idCalls != 1 || repo.slugCalls != 0 {
		t.Errorf("calls: slug=%d id=%d, want id path only", repo.slugCalls, repo.idCalls)
	}
}

func TestResolve_NotFound(t *testing.T) {
	svc := New(newMockRepo(), cache.NewMemory(), 0, zap.NewNop())

	_, err := svc.Resolve(context.Background(), "unknown")
	if !errors.Is(err, domain.ErrTenantUnresolved) {
		t.Errorf("err = %v, want ErrTenantUnresolved", err)
	}
}

func TestResolve_Inactive(t *testing.T) {
	repo := newMockRepo()
	dormant := activeTenant("dormant")
	dormant.Active = false
	repo.add(dormant)
	svc := New(repo, cache.NewMemory(), 0, zap.NewNop())

	_, err := svc.Resolve(context.Background(), "dormant")
	if !errors.Is(err, domain.ErrTenantUnresolved) {
		t.Errorf("err = %v, want ErrTenantUnresolved", err)
	}
}

func TestResolve_EmptyHandle(t *testing.T) {
	svc := New(newMockRepo(), cache.NewMemory(), 0, zap.NewNop())

	_, err := svc.Resolve(context.Background(), "")
	if !errors.Is(err, domain.ErrTenantUnresolved) {
		t.Errorf("err = %v, want ErrTenantUnresolved", err)
	}
}

func TestResolve_CacheHitSkipsBackend(t *testing.T) {
	repo := newMockRepo()
	want := activeTenant("casa-del-mar")
	repo.add(want)
	svc := New(repo, cache.NewMemory(), 0, zap.NewNop())
	ctx := context.Background()

	if _, err := svc.Resolve(ctx, "casa-del-mar"); err != nil {
		t.Fatalf("first resolve: %v", err)
	}
	got, err := svc.Resolve(ctx, "casa-del-mar")
	if err != nil {
		t.Fatalf("second resolve: %v", err)
	}
	if got.ID != want.ID {
		t.Errorf("id = %s, want %s", got.ID, want.ID)
	}
	if repo.slugCalls != 1 {
		t.Errorf("slug calls = %d, want 1 (second hit from cache)", repo.slugCalls)
	}
}

func TestResolve_CacheTTLExpiryRefetches(t *testing.T) {
	start := time.Unix(1700000000, 0)
	now := start
	mem := cache.NewMemoryWithClock(func() time.Time { return now })

	repo := newMockRepo()
	repo.add(activeTenant("casa-del-mar"))
	svc := New(repo, mem, 5*time.Minute, zap.NewNop())
	ctx := context.Background()

	if _, err := svc.Resolve(ctx, "casa-del-mar"); err != nil {
		t.Fatalf("resolve at T: %v", err)
	}

	// T+TTL-ε: still served from cache, no backend call.
	now = start.Add(5*time.Minute - time.Second)
	if _, err := svc.Resolve(ctx, "casa-del-mar"); err != nil {
		t.Fatalf("resolve at T+TTL-ε: %v", err)
	}
	if repo.slugCalls != 1 {
		t.Errorf("slug calls = %d, want 1 before expiry", repo.slugCalls)
	}

	// T+TTL+ε: entry expired, backend hit again.
	now = start.Add(5*time.Minute + time.Second)
	if _, err := svc.Resolve(ctx, "casa-del-mar"); err != nil {
		t.Fatalf("resolve at T+TTL+ε: %v", err)
	}
	if repo.slugCalls != 2 {
		t.Errorf("slug calls = %d, want 2 after expiry", repo.slugCalls)
	}
}

func TestResolve_CorruptCacheEntryRefetches(t *testing.T) {
	mem := cache.NewMemory()
	ctx := context.Background()
	_ = mem.Set(ctx, cacheKeyPrefix+"casa-del-mar", []byte("{not json"), time.Minute)

	repo := newMockRepo()
	want := activeTenant("casa-del-mar")
	repo.add(want)
	svc := New(repo, mem, 0, zap.NewNop())

	got, err := svc.Resolve(ctx, "casa-del-mar")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != want.ID {
		t.Errorf("id = %s, want %s", got.ID, want.ID)
	}
	if repo.slugCalls != 1 {
		t.Errorf("slug calls = %d, want 1", repo.slugCalls)
	}
}

func TestResolve_BackendErrorIsUnresolved(t *testing.T) {
	repo := newMockRepo()
	repo.forcedErr = errors.New("connection refused")
	svc := New(repo, cache.NewMemory(), 0, zap.NewNop())

	_, err := svc.Resolve(context.Background(), "casa-del-mar")
	if !errors.Is(err, domain.ErrTenantUnresolved) {
		t.Errorf("err = %v, want ErrTenantUnresolved", err)
	}
}
