package domain

import (
	"context"

	"github.com/guestlane/guestchat/internal/domain/resolution"
)

// Embedder vectorizes text at a chosen resolution.
type Embedder interface {
	Embed(ctx context.Context, text string, res resolution.Resolution) (EmbeddingResult, error)
}

// HealthChecker verifies embedding provider availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// EmbeddingResult carries the embedding vector and token usage.
type EmbeddingResult struct {
	Vector       []float32
	PromptTokens int
	TotalTokens  int
}
