package profile

import (
	"testing"

	"github.com/google/uuid"

	"github.com/guestlane/guestchat/internal/domain/intent"
	"github.com/guestlane/guestchat/internal/domain/tenant"
)

func entitledTenant() tenant.Tenant {
	return tenant.Tenant{
		ID:       uuid.New(),
		Handle:   "casa-del-mar",
		Active:   true,
		Features: tenant.Features{SharedDomainAccess: true},
	}
}

func TestRatioConservation(t *testing.T) {
	for _, c := range intent.Categories() {
		cfg := Base(c)
		if got := cfg.TenantRatio + cfg.SharedRatio; got != 1.0 {
			t.Errorf("%s: tenantRatio + sharedRatio = %v, want 1.0", c, got)
		}
	}
}

func TestConfigure_BaseTable(t *testing.T) {
	tests := []struct {
		category intent.Category
		want     SearchConfig
	}{
		{intent.InventoryComplete, SearchConfig{12, 0.9, 0.1, PriorityTenant}},
		{intent.SpecificUnit, SearchConfig{6, 0.9, 0.1, PriorityTenant}},
		{intent.FeatureInquiry, SearchConfig{4, 0.9, 0.1, PriorityTenant}},
		{intent.PricingInquiry, SearchConfig{4, 0.9, 0.1, PriorityTenant}},
		{intent.General, SearchConfig{4, 0.5, 0.5, PriorityBalanced}},
	}

	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			got := Configure(intent.QueryIntent{Category: tt.category, Confidence: 0.9}, entitledTenant())
			if got != tt.want {
				t.Errorf("Configure = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestConfigure_UnknownCategoryFallsBackToGeneral(t *testing.T) {
	got := Configure(intent.QueryIntent{Category: "mystery"}, entitledTenant())
	if got != Base(intent.General) {
		t.Errorf("Configure(unknown) = %+v, want general shape %+v", got, Base(intent.General))
	}
}

func TestConfigure_NoSharedAccessOverride(t *testing.T) {
	noAccess := entitledTenant()
	noAccess.Features.SharedDomainAccess = false

	for _, c := range intent.Categories() {
		cfg := Configure(intent.QueryIntent{Category: c}, noAccess)
		if cfg.TenantRatio != 1.0 || cfg.SharedRatio != 0.0 {
			t.Errorf("%s: ratios = %v/%v, want 1.0/0.0", c, cfg.TenantRatio, cfg.SharedRatio)
		}
		if cfg.Priority != PriorityTenant {
			t.Errorf("%s: priority = %s, want %s", c, cfg.Priority, PriorityTenant)
		}
		if cfg.TotalCount != Base(c).TotalCount {
			t.Errorf("%s: override changed totalCount %d -> %d", c, Base(c).TotalCount, cfg.TotalCount)
		}
	}
}

func TestCounts_InventoryScenario(t *testing.T) {
	// "what apartments do you have?" → {12, 0.9, 0.1} → tenant 11, shared 1.
	cfg := Base(intent.InventoryComplete)
	tenantCount, sharedCount := cfg.Counts()
	if tenantCount != 11 || sharedCount != 1 {
		t.Errorf("counts = {%d, %d}, want {11, 1}", tenantCount, sharedCount)
	}
}

func TestCounts_Reconciliation(t *testing.T) {
	tests := []struct {
		name       string
		cfg        SearchConfig
		wantTenant int
		wantShared int
	}{
		{"inventory 12", SearchConfig{12, 0.9, 0.1, PriorityTenant}, 11, 1},
		{"specific 6", SearchConfig{6, 0.9, 0.1, PriorityTenant}, 5, 1},
		{"feature 4 shared floor", SearchConfig{4, 0.9, 0.1, PriorityTenant}, 3, 1},
		{"general 4 even", SearchConfig{4, 0.5, 0.5, PriorityBalanced}, 2, 2},
		{"tenant only", SearchConfig{5, 1.0, 0.0, PriorityTenant}, 5, 0},
		{"shared only", SearchConfig{5, 0.0, 1.0, PriorityShared}, 0, 5},
		{"single slot keeps tenant", SearchConfig{1, 0.9, 0.1, PriorityTenant}, 1, 0},
		{"zero total", SearchConfig{0, 0.5, 0.5, PriorityBalanced}, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tenantCount, sharedCount := tt.cfg.Counts()
			if tenantCount != tt.wantTenant || sharedCount != tt.wantShared {
				t.Errorf("counts = {%d, %d}, want {%d, %d}",
					tenantCount, sharedCount, tt.wantTenant, tt.wantShared)
			}
		})
	}
}

// Sweep totals and ratios: counts must be non-negative, sum exactly to the
// total, and keep shared >= 1 whenever sharedRatio > 0 and total >= 2.
func TestCounts_Properties(t *testing.T) {
	ratios := []float64{0.0, 0.1, 0.25, 0.3, 0.5, 0.7, 0.9, 1.0}

	for total := 0; total <= 50; total++ {
		for _, shared := range ratios {
			cfg := SearchConfig{
				TotalCount:  total,
				TenantRatio: 1.0 - shared,
				SharedRatio: shared,
				Priority:    PriorityTenant,
			}
			tenantCount, sharedCount := cfg.Counts()

			if tenantCount < 0 || sharedCount < 0 {
				t.Fatalf("total=%d shared=%v: negative counts {%d, %d}",
					total, shared, tenantCount, sharedCount)
			}
			if total > 0 && tenantCount+sharedCount != total {
				t.Fatalf("total=%d shared=%v: sum %d != total",
					total, shared, tenantCount+sharedCount)
			}
			if shared > 0 && total >= 2 && sharedCount < 1 {
				t.Fatalf("total=%d shared=%v: sharedCount %d < 1",
					total, shared, sharedCount)
			}
			if shared == 0 && sharedCount != 0 {
				t.Fatalf("total=%d: sharedCount %d with zero ratio", total, sharedCount)
			}
		}
	}
}
