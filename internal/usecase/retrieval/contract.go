package retrieval

import (
	"context"

	"github.com/google/uuid"

	domchunk "github.com/guestlane/guestchat/internal/domain/chunk"
	"github.com/guestlane/guestchat/internal/domain/resolution"
)

// Searcher runs a KNN search within exactly one knowledge domain. The split
// into two methods is deliberate: a tenant search cannot be expressed
// without a tenant id, so the isolation filter cannot be forgotten.
type Searcher interface {
	SearchTenant(ctx context.Context, vector []float32, res resolution.Resolution,
		tenantID uuid.UUID, count int) ([]domchunk.Chunk, error)
	SearchShared(ctx context.Context, vector []float32, res resolution.Resolution,
		count int) ([]domchunk.Chunk, error)
}
