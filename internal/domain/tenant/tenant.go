// Package tenant defines the tenant identity resolved per request. The
// resolver is the security boundary for all tenant isolation, so a Tenant
// value is only ever constructed from an active row.
package tenant

import "github.com/google/uuid"

// Features holds per-tenant entitlements.
type Features struct {
	// SharedDomainAccess entitles the tenant to the shared tourism corpus.
	SharedDomainAccess bool `json:"shared_domain_access"`
	// PremiumChat enables the premium classifier variant with avoid-entity hints.
	PremiumChat bool `json:"premium_chat"`
}

// Tenant is an independent hotel/business account. Immutable once resolved
// within a request; the authoritative store is external.
type Tenant struct {
	ID       uuid.UUID `json:"id"`
	Handle   string    `json:"handle"`
	Active   bool      `json:"active"`
	Features Features  `json:"features"`
}
