// Package chunk runs per-domain KNN searches over the knowledge index.
// Every row in the index carries a tenant_id tag: the owning tenant's uuid
// for private content, or the shared-corpus tag for tourism content. The
// tag filter is built here and is never omitted.
package chunk

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/guestlane/guestchat/internal/db"
	domchunk "github.com/guestlane/guestchat/internal/domain/chunk"
	"github.com/guestlane/guestchat/internal/domain/resolution"
)

// SharedTag marks shared-corpus rows in the tenant_id tag field. Chosen so
// it can never collide with a uuid.
const SharedTag = "shared"

var returnFields = []string{"content", "section_title", "source_ref", "tenant_id"}

// store is the consumer interface for chunk search (ISP).
type store interface {
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
}

// Repo implements the orchestrator's Searcher contract.
type Repo struct {
	store         store
	indexName     string
	minSimilarity float64
}

// New creates a chunk search repository.
func New(s store, indexName string, minSimilarity float64) *Repo {
	return &Repo{store: s, indexName: indexName, minSimilarity: minSimilarity}
}

// SearchTenant searches the private domain of exactly one tenant.
func (r *Repo) SearchTenant(
	ctx context.Context, vector []float32, res resolution.Resolution,
	tenantID uuid.UUID, count int,
) ([]domchunk.Chunk, error) {
	return r.search(ctx, vector, res, tenantID.String(), count)
}

// SearchShared searches the shared tourism corpus.
func (r *Repo) SearchShared(
	ctx context.Context, vector []float32, res resolution.Resolution, count int,
) ([]domchunk.Chunk, error) {
	return r.search(ctx, vector, res, SharedTag, count)
}

func (r *Repo) search(
	ctx context.Context, vector []float32, res resolution.Resolution,
	tenantTag string, count int,
) ([]domchunk.Chunk, error) {
	if count <= 0 {
		return nil, nil
	}
	if !res.IsValid() {
		return nil, fmt.Errorf("invalid resolution %q", res)
	}
	if got, want := len(vector), res.Dimensions(); got != want {
		return nil, fmt.Errorf("vector has %d dims, %s needs %d", got, res, want)
	}

	sr, err := r.store.SearchKNN(ctx, &db.KNNQuery{
		IndexName:    r.indexName,
		VectorField:  res.VectorField(),
		Vector:       vector,
		TenantTag:    tenantTag,
		K:            count,
		ReturnFields: returnFields,
	})
	if err != nil {
		return nil, fmt.Errorf("search knn %s: %w", tenantTag, err)
	}

	return r.parseChunks(sr), nil
}

func (r *Repo) parseChunks(sr *db.SearchResult) []domchunk.Chunk {
	chunks := make([]domchunk.Chunk, 0, len(sr.Entries))
	for _, e := range sr.Entries {
		if e.Score < r.minSimilarity {
			continue
		}

		c := domchunk.Chunk{
			ID:           e.Key,
			Content:      e.Fields["content"],
			SectionTitle: e.Fields["section_title"],
			SourceRef:    e.Fields["source_ref"],
			Similarity:   e.Score,
		}
		if tag := e.Fields["tenant_id"]; tag != "" && tag != SharedTag {
			if id, err := uuid.Parse(tag); err == nil {
				c.TenantID = &id
			}
		}
		chunks = append(chunks, c)
	}

	// Stable store-independent order: similarity desc, chunk id asc.
	sort.Slice(chunks, func(i, j int) bool {
		if chunks[i].Similarity != chunks[j].Similarity {
			return chunks[i].Similarity > chunks[j].Similarity
		}
		return chunks[i].ID < chunks[j].ID
	})

	return chunks
}
