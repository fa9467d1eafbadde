// Package chat composes tenant resolution, intent classification, search
// configuration and retrieval into the two request flows the API exposes:
// guest chat and admin retrieval.
package chat

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/guestlane/guestchat/internal/domain"
	domintent "github.com/guestlane/guestchat/internal/domain/intent"
	"github.com/guestlane/guestchat/internal/domain/profile"
	"github.com/guestlane/guestchat/internal/domain/resolution"
	"github.com/guestlane/guestchat/internal/domain/session"
	domtenant "github.com/guestlane/guestchat/internal/domain/tenant"
	"github.com/guestlane/guestchat/internal/usecase/retrieval"
)

// Request is a guest chat retrieval request. Session is optional: anonymous
// widget traffic carries only the tenant handle.
type Request struct {
	TenantHandle string
	Query        string
	History      []domintent.Message
	Session      *session.GuestSession
}

// AdminRequest is an operator retrieval request with an explicit resolution.
type AdminRequest struct {
	TenantHandle string
	Query        string
	Resolution   resolution.Resolution
}

// Service drives the guest chat and admin retrieval flows.
type Service struct {
	resolver   Resolver
	classifier Classifier
	retriever  Retriever
	chatRes    resolution.Resolution
	adminRes   resolution.Resolution
	logger     *zap.Logger
}

// New creates the chat service. chatRes and adminRes select the embedding
// resolution for each flow.
func New(
	resolver Resolver, classifier Classifier, retriever Retriever,
	chatRes, adminRes resolution.Resolution, logger *zap.Logger,
) *Service {
	return &Service{
		resolver:   resolver,
		classifier: classifier,
		retriever:  retriever,
		chatRes:    chatRes,
		adminRes:   adminRes,
		logger:     logger,
	}
}

// Result is the outcome of one retrieval flow.
type Result struct {
	Tenant    domtenant.Tenant
	Intent    domintent.QueryIntent
	Config    profile.SearchConfig
	Retrieved retrieval.Result
}

// Retrieve runs the guest chat flow: tenant resolution and intent
// classification run concurrently, then the retrieval shape is derived and
// the orchestrator invoked at the chat resolution.
//
// The premium classifier variant needs entitlement from both sides: the
// session token must claim it AND the resolved tenant must carry the
// PremiumChat feature. The tenant flag is only known after resolution, so
// a premium-claiming request classifies after Resolve returns instead of
// concurrently; a token claim alone never buys the premium variant.
//
// A classification failure never fails the request; a resolution failure
// always does, and the classification result is discarded unread.
func (s *Service) Retrieve(ctx context.Context, req Request) (Result, error) {
	claimsPremium := req.Session != nil && req.Session.Features.PremiumChat

	var intentCh chan domintent.QueryIntent
	if !claimsPremium {
		intentCh = make(chan domintent.QueryIntent, 1)
		go func() {
			intentCh <- s.classifier.Classify(ctx, req.Query, req.History)
		}()
	}

	t, err := s.resolver.Resolve(ctx, req.TenantHandle)
	if err != nil {
		return Result{}, err
	}

	if req.Session != nil && req.Session.TenantID != t.ID {
		s.logger.Warn("guest session tenant mismatch",
			zap.String("session_tenant", req.Session.TenantID.String()),
			zap.String("resolved_tenant", t.ID.String()))
		return Result{}, fmt.Errorf("session for %s, request for %s: %w",
			req.Session.TenantID, t.ID, domain.ErrSessionTenantMismatch)
	}

	var qi domintent.QueryIntent
	switch {
	case !claimsPremium:
		qi = <-intentCh
	case t.Features.PremiumChat:
		qi = s.classifier.ClassifyPremium(ctx, req.Query, req.History)
	default:
		s.logger.Warn("session claims premium chat for a tenant without it",
			zap.String("tenant_id", t.ID.String()))
		qi = s.classifier.Classify(ctx, req.Query, req.History)
	}
	cfg := profile.Configure(qi, t)

	retrieved, err := s.retriever.Retrieve(ctx, t, req.Query, qi, cfg, s.chatRes)
	if err != nil {
		return Result{}, err
	}

	return Result{Tenant: t, Intent: qi, Config: cfg, Retrieved: retrieved}, nil
}

// RetrieveAdmin runs the operator flow: same pipeline, standard classifier
// variant, caller-chosen resolution (defaulting to the admin resolution).
func (s *Service) RetrieveAdmin(ctx context.Context, req AdminRequest) (Result, error) {
	res := req.Resolution
	if res == "" {
		res = s.adminRes
	}
	if !res.IsValid() {
		return Result{}, fmt.Errorf("invalid resolution %q", res)
	}

	t, err := s.resolver.Resolve(ctx, req.TenantHandle)
	if err != nil {
		return Result{}, err
	}

	qi := s.classifier.Classify(ctx, req.Query, nil)
	cfg := profile.Configure(qi, t)

	retrieved, err := s.retriever.Retrieve(ctx, t, req.Query, qi, cfg, res)
	if err != nil {
		return Result{}, err
	}

	return Result{Tenant: t, Intent: qi, Config: cfg, Retrieved: retrieved}, nil
}
