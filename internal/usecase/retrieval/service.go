// Package retrieval orchestrates multi-domain vector retrieval: one
// embedding per request, concurrent per-domain searches, and a
// priority-aware merge. The two domains fail asymmetrically: the tenant's
// own content is the product, the shared tourism corpus is an enrichment.
package retrieval

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/guestlane/guestchat/internal/domain"
	domchunk "github.com/guestlane/guestchat/internal/domain/chunk"
	domintent "github.com/guestlane/guestchat/internal/domain/intent"
	"github.com/guestlane/guestchat/internal/domain/profile"
	"github.com/guestlane/guestchat/internal/domain/resolution"
	domtenant "github.com/guestlane/guestchat/internal/domain/tenant"
	"github.com/guestlane/guestchat/internal/metrics"
)

// DefaultSearchTimeout bounds each per-domain search independently, so a
// slow shared search cannot starve the tenant search of its budget.
const DefaultSearchTimeout = 5 * time.Second

// Result is the merged retrieval outcome.
type Result struct {
	Chunks []domchunk.Chunk
	// Degraded is set when the shared domain failed and the result was
	// served from the tenant domain alone.
	Degraded bool
	// Resolution records which vector field served the request.
	Resolution resolution.Resolution
}

// Service is the retrieval orchestrator.
type Service struct {
	embedder        domain.Embedder
	searcher        Searcher
	searchTimeout   time.Duration
	avoidConfidence float64
	logger          *zap.Logger
}

// New creates an orchestrator. searchTimeout <= 0 selects
// DefaultSearchTimeout; avoidConfidence is the minimum classifier
// confidence before avoid-entity hints are applied.
func New(
	embedder domain.Embedder, searcher Searcher,
	searchTimeout time.Duration, avoidConfidence float64, logger *zap.Logger,
) *Service {
	if searchTimeout <= 0 {
		searchTimeout = DefaultSearchTimeout
	}
	return &Service{
		embedder:        embedder,
		searcher:        searcher,
		searchTimeout:   searchTimeout,
		avoidConfidence: avoidConfidence,
		logger:          logger,
	}
}

// Retrieve embeds the query once at the requested resolution, searches the
// tenant and shared domains concurrently per the search config, and merges
// the results in priority order.
//
// Failure policy: an embedding failure aborts the request; a tenant-domain
// failure surfaces as domain.ErrPrimaryDomainUnavailable even when the
// shared search succeeded; a shared-domain failure degrades the response
// to tenant-only.
func (s *Service) Retrieve(
	ctx context.Context, t domtenant.Tenant, query string,
	qi domintent.QueryIntent, cfg profile.SearchConfig, res resolution.Resolution,
) (Result, error) {
	emb, err := s.embedder.Embed(ctx, query, res)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, err)
	}

	tenantCount, sharedCount := cfg.Counts()

	var (
		wg           sync.WaitGroup
		tenantChunks []domchunk.Chunk
		sharedChunks []domchunk.Chunk
		tenantErr    error
		sharedErr    error
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		tenantChunks, tenantErr = s.searchDomain(ctx, domchunk.DomainTenant, func(sctx context.Context) ([]domchunk.Chunk, error) {
			return s.searcher.SearchTenant(sctx, emb.Vector, res, t.ID, tenantCount)
		})
	}()

	if sharedCount > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sharedChunks, sharedErr = s.searchDomain(ctx, domchunk.DomainShared, func(sctx context.Context) ([]domchunk.Chunk, error) {
				return s.searcher.SearchShared(sctx, emb.Vector, res, sharedCount)
			})
		}()
	}

	wg.Wait()

	if tenantErr != nil {
		s.logger.Error("tenant domain search failed",
			zap.String("tenant_id", t.ID.String()), zap.Error(tenantErr))
		return Result{}, fmt.Errorf("%w: %w", domain.ErrPrimaryDomainUnavailable, tenantErr)
	}

	result := Result{Resolution: res}
	if sharedErr != nil {
		sharedErr = fmt.Errorf("%w: %w", domain.ErrSecondaryDomainUnavailable, sharedErr)
		s.logger.Warn("shared domain search failed, serving tenant-only",
			zap.String("tenant_id", t.ID.String()), zap.Error(sharedErr))
		sharedChunks = nil
		result.Degraded = true
	}

	tenantChunks, sharedChunks = s.applyAvoidHints(qi, cfg.Priority, tenantChunks, sharedChunks)
	result.Chunks = merge(cfg, tenantChunks, sharedChunks)
	return result, nil
}

// searchDomain runs one domain search under its own timeout and records
// its metrics.
func (s *Service) searchDomain(
	ctx context.Context, d domchunk.Domain,
	search func(context.Context) ([]domchunk.Chunk, error),
) ([]domchunk.Chunk, error) {
	sctx, cancel := context.WithTimeout(ctx, s.searchTimeout)
	defer cancel()

	start := time.Now()
	chunks, err := search(sctx)
	metrics.DomainSearchDuration.WithLabelValues(string(d)).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.DomainSearchErrorsTotal.WithLabelValues(string(d)).Inc()
	}
	return chunks, err
}

// applyAvoidHints drops chunks matching the classifier's avoid entities
// from the non-priority domain. Hints only apply when the classifier was
// confident; the priority domain is never filtered, so the hints can
// narrow a response but not empty its main content.
func (s *Service) applyAvoidHints(
	qi domintent.QueryIntent, priority profile.Priority,
	tenantChunks, sharedChunks []domchunk.Chunk,
) (tc, sc []domchunk.Chunk) {
	if len(qi.AvoidEntities) == 0 || qi.Confidence < s.avoidConfidence {
		return tenantChunks, sharedChunks
	}

	if priority == profile.PriorityShared {
		return filterAvoided(tenantChunks, qi.AvoidEntities), sharedChunks
	}
	return tenantChunks, filterAvoided(sharedChunks, qi.AvoidEntities)
}

// filterAvoided removes chunks whose section title or content contains any
// avoided entity, case-insensitively.
func filterAvoided(chunks []domchunk.Chunk, entities []string) []domchunk.Chunk {
	kept := make([]domchunk.Chunk, 0, len(chunks))
	for _, c := range chunks {
		if !mentionsAny(c, entities) {
			kept = append(kept, c)
		}
	}
	return kept
}

func mentionsAny(c domchunk.Chunk, entities []string) bool {
	title := strings.ToLower(c.SectionTitle)
	content := strings.ToLower(c.Content)
	for _, e := range entities {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if strings.Contains(title, e) || strings.Contains(content, e) {
			return true
		}
	}
	return false
}

// merge orders the two result sets by the config's priority and caps the
// total. A balanced priority interleaves by similarity alone; otherwise
// the priority domain's chunks all precede the other domain's.
func merge(cfg profile.SearchConfig, tenantChunks, sharedChunks []domchunk.Chunk) []domchunk.Chunk {
	var merged []domchunk.Chunk
	switch cfg.Priority {
	case profile.PriorityShared:
		merged = append(append(merged, sharedChunks...), tenantChunks...)
	case profile.PriorityBalanced:
		merged = append(append(merged, tenantChunks...), sharedChunks...)
		sort.Slice(merged, func(i, j int) bool {
			if merged[i].Similarity != merged[j].Similarity {
				return merged[i].Similarity > merged[j].Similarity
			}
			return merged[i].ID < merged[j].ID
		})
	default: // PriorityTenant
		merged = append(append(merged, tenantChunks...), sharedChunks...)
	}

	if cfg.TotalCount > 0 && len(merged) > cfg.TotalCount {
		merged = merged[:cfg.TotalCount]
	}
	return merged
}
