package chat

import (
	"context"

	domintent "github.com/guestlane/guestchat/internal/domain/intent"
	"github.com/guestlane/guestchat/internal/domain/profile"
	"github.com/guestlane/guestchat/internal/domain/resolution"
	domtenant "github.com/guestlane/guestchat/internal/domain/tenant"
	"github.com/guestlane/guestchat/internal/usecase/retrieval"
)

// Resolver maps a tenant handle to an active tenant.
type Resolver interface {
	Resolve(ctx context.Context, handle string) (domtenant.Tenant, error)
}

// Classifier infers query intent. Both variants substitute a conservative
// default on failure instead of erroring.
type Classifier interface {
	Classify(ctx context.Context, query string, history []domintent.Message) domintent.QueryIntent
	ClassifyPremium(ctx context.Context, query string, history []domintent.Message) domintent.QueryIntent
}

// Retriever runs the multi-domain retrieval for a resolved tenant.
type Retriever interface {
	Retrieve(ctx context.Context, t domtenant.Tenant, query string,
		qi domintent.QueryIntent, cfg profile.SearchConfig,
		res resolution.Resolution) (retrieval.Result, error)
}
