package domain

import "errors"

// Sentinel errors shared across layers. The HTTP layer maps these to status codes.
var (
	// ErrTenantUnresolved is a hard failure: the handle matched no active tenant.
	// Never substituted with a default tenant.
	ErrTenantUnresolved = errors.New("tenant not found or inactive")

	// ErrPrimaryDomainUnavailable means the tenant-domain search failed.
	// Surfaced to the caller: shared-only results would mislead the guest.
	ErrPrimaryDomainUnavailable = errors.New("tenant knowledge search unavailable")

	// ErrSecondaryDomainUnavailable means the shared-domain search failed.
	// Recovered locally with tenant-only results.
	ErrSecondaryDomainUnavailable = errors.New("shared knowledge search unavailable")

	// ErrEmbeddingUnavailable means the embedding call for the required
	// resolution failed. No silent fallback to a different resolution.
	ErrEmbeddingUnavailable = errors.New("embedding provider unavailable")

	// ErrClassifierUnavailable marks intent classifier transport failures.
	// The classifier usecase recovers from it with a conservative default.
	ErrClassifierUnavailable = errors.New("intent classifier unavailable")

	ErrSessionInvalid = errors.New("guest session invalid")

	// ErrSessionTenantMismatch means a guest session carries a tenant id that
	// differs from the tenant resolved for the request. A cross-tenant token
	// must never broaden the result set.
	ErrSessionTenantMismatch = errors.New("guest session tenant mismatch")
)
