// Package profile maps query intent to a retrieval shape: how many chunks
// to fetch, split across the tenant and shared domains. Pure and total —
// no I/O, no failure mode.
package profile

import (
	"math"

	"github.com/guestlane/guestchat/internal/domain/intent"
	"github.com/guestlane/guestchat/internal/domain/tenant"
)

// Priority names the domain whose results are placed first when merging.
type Priority string

// Merge priorities.
const (
	PriorityTenant   Priority = "tenant"
	PriorityShared   Priority = "shared"
	PriorityBalanced Priority = "balanced"
)

// SearchConfig is the retrieval shape derived from a classified intent.
type SearchConfig struct {
	TotalCount  int
	TenantRatio float64
	SharedRatio float64
	Priority    Priority
}

// baseTable is the intent → shape lookup. Data-driven so it can be tuned
// without touching orchestration code. Ratios always sum to 1.0.
var baseTable = map[intent.Category]SearchConfig{
	intent.InventoryComplete: {TotalCount: 12, TenantRatio: 0.9, SharedRatio: 0.1, Priority: PriorityTenant},
	intent.SpecificUnit:      {TotalCount: 6, TenantRatio: 0.9, SharedRatio: 0.1, Priority: PriorityTenant},
	intent.FeatureInquiry:    {TotalCount: 4, TenantRatio: 0.9, SharedRatio: 0.1, Priority: PriorityTenant},
	intent.PricingInquiry:    {TotalCount: 4, TenantRatio: 0.9, SharedRatio: 0.1, Priority: PriorityTenant},
	intent.General:           {TotalCount: 4, TenantRatio: 0.5, SharedRatio: 0.5, Priority: PriorityBalanced},
}

// Base returns the table entry for a category (General for unknown ones).
func Base(c intent.Category) SearchConfig {
	if cfg, ok := baseTable[c]; ok {
		return cfg
	}
	return baseTable[intent.General]
}

// Configure derives the retrieval shape for a classified query, applying
// the tenant-feature override: without shared-domain access the shape is
// forced to 100% tenant.
func Configure(qi intent.QueryIntent, t tenant.Tenant) SearchConfig {
	cfg := Base(qi.Category)
	if !t.Features.SharedDomainAccess {
		cfg.TenantRatio = 1.0
		cfg.SharedRatio = 0.0
		cfg.Priority = PriorityTenant
	}
	return cfg
}

// Counts reconciles the ratios into exact per-domain counts.
// tenantCount = ceil(total*tenantRatio), sharedCount = floor(total*sharedRatio),
// with sharedCount held at >= 1 while SharedRatio > 0 and total >= 2. When
// rounding pushes the sum past the total, sharedCount shrinks first (down to
// its floor), then tenantCount. The sum always equals TotalCount.
func (c SearchConfig) Counts() (tenantCount, sharedCount int) {
	if c.TotalCount <= 0 {
		return 0, 0
	}

	tenantCount = int(math.Ceil(float64(c.TotalCount) * c.TenantRatio))
	sharedCount = int(math.Floor(float64(c.TotalCount) * c.SharedRatio))

	sharedFloor := 0
	if c.SharedRatio > 0 && c.TotalCount >= 2 {
		sharedFloor = 1
		if sharedCount < sharedFloor {
			sharedCount = sharedFloor
		}
	}

	for tenantCount+sharedCount > c.TotalCount {
		if sharedCount > sharedFloor {
			sharedCount--
		} else {
			tenantCount--
		}
	}
	if tenantCount+sharedCount < c.TotalCount {
		tenantCount = c.TotalCount - sharedCount
	}

	return tenantCount, sharedCount
}
