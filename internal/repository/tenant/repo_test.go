package tenant

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/guestlane/guestchat/internal/db"
	"github.com/guestlane/guestchat/internal/domain"
)

type mockStore struct {
	hashes map[string]map[string]string
	kv     map[string][]byte
}

func newMockStore() *mockStore {
	return &mockStore{
		hashes: make(map[string]map[string]string),
		kv:     make(map[string][]byte),
	}
}

func (m *mockStore) HGetAll(_ context.Context, key string) (map[string]string, error) {
	if fields, ok := m.hashes[key]; ok {
		return fields, nil
	}
	return map[string]string{}, nil
}

func (m *mockStore) Get(_ context.Context, key string) ([]byte, error) {
	if v, ok := m.kv[key]; ok {
		return v, nil
	}
	return nil, db.ErrKeyNotFound
}

func seedTenant(s *mockStore, id uuid.UUID, slug string, active bool) {
	activeStr := "false"
	if active {
		activeStr = "true"
	}
	s.hashes[tenantKeyPrefix+id.String()] = map[string]string{
		"handle":               slug,
		"active":               activeStr,
		"shared_domain_access": "true",
		"premium_chat":         "false",
	}
	s.kv[slugKeyPrefix+slug] = []byte(id.String())
}

func TestGetByID(t *testing.T) {
	s := newMockStore()
	id := uuid.New()
	seedTenant(s, id, "casa-del-mar", true)

	got, err := New(s).GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != id {
		t.Errorf("id = %s, want %s", got.ID, id)
	}
	if got.Handle != "casa-del-mar" {
		t.Errorf("handle = %q", got.Handle)
	}
	if !got.Active {
		t.Error("expected active tenant")
	}
	if !got.Features.SharedDomainAccess {
		t.Error("expected shared domain access")
	}
	if got.Features.PremiumChat {
		t.Error("premium chat should be off")
	}
}

func TestGetByID_Missing(t *testing.T) {
	_, err := New(newMockStore()).GetByID(context.Background(), uuid.New())
	if !errors.Is(err, domain.ErrTenantUnresolved) {
		t.Errorf("err = %v, want ErrTenantUnresolved", err)
	}
}

func TestGetBySlug(t *testing.T) {
	s := newMockStore()
	id := uuid.New()
	seedTenant(s, id, "casa-del-mar", true)

	got, err := New(s).GetBySlug(context.Background(), "casa-del-mar")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != id {
		t.Errorf("id = %s, want %s", got.ID, id)
	}
}

func TestGetBySlug_Unknown(t *testing.T) {
	_, err := New(newMockStore()).GetBySlug(context.Background(), "nope")
	if !errors.Is(err, domain.ErrTenantUnresolved) {
		t.Errorf("err = %v, want ErrTenantUnresolved", err)
	}
}

func TestGetBySlug_DanglingAlias(t *testing.T) {
	s := newMockStore()
	s.kv[slugKeyPrefix+"ghost"] = []byte("not-a-uuid")

	_, err := New(s).GetBySlug(context.Background(), "ghost")
	if !errors.Is(err, domain.ErrTenantUnresolved) {
		t.Errorf("err = %v, want ErrTenantUnresolved", err)
	}
}

func TestGetByID_InactiveRowStillReturned(t *testing.T) {
	// The repository reports rows as stored; the resolver enforces the
	// active invariant.
	s := newMockStore()
	id := uuid.New()
	seedTenant(s, id, "dormant", false)

	got, err := New(s).GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Active {
		t.Error("expected inactive tenant")
	}
}
