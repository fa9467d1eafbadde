package metrics

import "github.com/prometheus/client_golang/prometheus"

// Retrieval and classification Prometheus metrics.
var (
	ClassificationTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "guestchat",
			Name:      "classification_total",
			Help:      "Intent classification outcomes",
		},
		[]string{"variant", "outcome"}, // variant: standard/premium, outcome: ok/fallback
	)

	ClassificationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "guestchat",
			Name:      "classification_duration_seconds",
			Help:      "Intent classifier call duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"variant"},
	)

	DomainSearchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "guestchat",
			Name:      "domain_search_duration_seconds",
			Help:      "Per-domain vector search duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"domain"},
	)

	DomainSearchErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "guestchat",
			Name:      "domain_search_errors_total",
			Help:      "Per-domain vector search failures",
		},
		[]string{"domain"},
	)

	EmbeddingRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "guestchat",
			Name:      "embedding_requests_total",
			Help:      "Total number of embedding requests",
		},
		[]string{"model", "resolution", "status"},
	)

	EmbeddingRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "guestchat",
			Name:      "embedding_request_duration_seconds",
			Help:      "Embedding request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"model", "resolution"},
	)

	EmbeddingTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "guestchat",
			Name:      "embedding_tokens_total",
			Help:      "Total embedding tokens consumed",
		},
		[]string{"model", "type"},
	)

	TenantCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "guestchat",
			Name:      "tenant_cache_total",
			Help:      "Tenant resolution cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)
)

var retrievalMetricsRegistered bool

// RegisterRetrievalMetrics registers the domain metrics. Must be called once from main.
func RegisterRetrievalMetrics() {
	if retrievalMetricsRegistered {
		return
	}
	prometheus.MustRegister(
		ClassificationTotal,
		ClassificationDuration,
		DomainSearchDuration,
		DomainSearchErrorsTotal,
		EmbeddingRequestsTotal,
		EmbeddingRequestDuration,
		EmbeddingTokensTotal,
		TenantCacheTotal,
	)
	retrievalMetricsRegistered = true
}
