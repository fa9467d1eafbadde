// Package intent classifies guest queries into the retrieval taxonomy via
// a small, near-deterministic LLM call. Classification is an optimization,
// not a correctness requirement: every failure path substitutes the
// conservative default instead of propagating an error.
package intent

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"go.uber.org/zap"

	domintent "github.com/guestlane/guestchat/internal/domain/intent"
	"github.com/guestlane/guestchat/internal/metrics"
)

// Service classifies queries against the fixed five-category taxonomy.
type Service struct {
	llm    Completer
	logger *zap.Logger
}

// New creates a classifier service.
func New(llm Completer, logger *zap.Logger) *Service {
	return &Service{llm: llm, logger: logger}
}

// Classify returns the query intent, or the conservative default on any
// transport or parse failure. It never returns an error.
func (s *Service) Classify(ctx context.Context, query string, history []domintent.Message) domintent.QueryIntent {
	return s.classify(ctx, query, history, "standard")
}

// ClassifyPremium additionally requests avoid-entity hints. Hints are only
// attached for confident, non-blended classifications; they are a relevance
// shaping aid, never an enforcement mechanism.
func (s *Service) ClassifyPremium(ctx context.Context, query string, history []domintent.Message) domintent.QueryIntent {
	return s.classify(ctx, query, history, "premium")
}

func (s *Service) classify(
	ctx context.Context, query string, history []domintent.Message, variant string,
) domintent.QueryIntent {
	system := systemPrompt
	if variant == "premium" {
		system += premiumAddendum
	}

	start := time.Now()
	raw, err := s.llm.Complete(ctx, system, buildUserPrompt(query, history))
	metrics.ClassificationDuration.WithLabelValues(variant).Observe(time.Since(start).Seconds())

	if err != nil {
		return s.fallback(variant, "classifier call failed", err)
	}

	qi, err := parseIntent(raw, variant == "premium")
	if err != nil {
		return s.fallback(variant, "classifier output rejected", err)
	}

	metrics.ClassificationTotal.WithLabelValues(variant, "ok").Inc()
	return qi
}

func (s *Service) fallback(variant, msg string, err error) domintent.QueryIntent {
	metrics.ClassificationTotal.WithLabelValues(variant, "fallback").Inc()
	s.logger.Warn(msg, zap.String("variant", variant), zap.Error(err))
	return domintent.Fallback()
}

// classifierOutput is the strict JSON contract expected from the model.
type classifierOutput struct {
	Type           string   `json:"type"`
	Confidence     float64  `json:"confidence"`
	Reasoning      string   `json:"reasoning"`
	ShouldShowBoth bool     `json:"should_show_both"`
	AvoidEntities  []string `json:"avoid_entities"`
}

// parseIntent validates the model output against the schema. Any violation
// is a classification failure; no best-effort partial parsing.
func parseIntent(raw string, premium bool) (domintent.QueryIntent, error) {
	var out classifierOutput
	if err := json.Unmarshal([]byte(stripFences(raw)), &out); err != nil {
		return domintent.QueryIntent{}, err
	}

	category := domintent.Category(out.Type)
	if !category.IsValid() {
		return domintent.QueryIntent{}, &schemaError{field: "type", value: out.Type}
	}
	if out.Confidence < 0 || out.Confidence > 1 {
		return domintent.QueryIntent{}, &schemaError{field: "confidence", value: out.Type}
	}

	qi := domintent.QueryIntent{
		Category:   category,
		Confidence: out.Confidence,
		Reasoning:  out.Reasoning,
	}

	// Avoid hints only make sense when the model committed to one domain;
	// a should_show_both answer wants content from both.
	if premium && !out.ShouldShowBoth {
		qi.AvoidEntities = out.AvoidEntities
	}

	return qi, nil
}

type schemaError struct {
	field string
	value string
}

func (e *schemaError) Error() string {
	return "classifier schema violation: field " + e.field + " = " + e.value
}

// stripFences removes a triple-backtick code fence (with optional language
// tag) the model may wrap the JSON in.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```")
	// Drop the language tag line ("json").
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		first := strings.TrimSpace(s[:idx])
		if first != "" && !strings.HasPrefix(first, "{") {
			s = s[idx+1:]
		} else if first == "" {
			s = s[idx+1:]
		}
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
