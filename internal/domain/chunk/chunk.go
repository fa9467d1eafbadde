// Package chunk defines the knowledge chunk read model. Chunks are created
// by external ingestion pipelines and only read here.
package chunk

import "github.com/google/uuid"

// Domain identifies which knowledge corpus a chunk belongs to.
type Domain string

// Knowledge domains.
const (
	// DomainTenant is tenant-private operational/accommodation content.
	DomainTenant Domain = "tenant"
	// DomainShared is the tourism corpus not owned by any single tenant.
	DomainShared Domain = "shared"
)

// Chunk is a retrieved knowledge fragment with its similarity score.
// A chunk with a non-nil TenantID must never be returned for a different
// tenant's query.
type Chunk struct {
	ID           string
	TenantID     *uuid.UUID // nil = shared corpus
	Content      string
	SectionTitle string
	SourceRef    string
	Similarity   float64
}

// Domain reports which corpus the chunk came from.
func (c Chunk) Domain() Domain {
	if c.TenantID == nil {
		return DomainShared
	}
	return DomainTenant
}
