// Package health aggregates component availability for the health endpoint.
package health

import "context"

// Status is the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates a model provider is down: retrieval still works
	// for cached/fallback paths, quality is reduced.
	Degraded Status = "degraded"
	// Unhealthy indicates the search index is unreachable. No retrieval
	// is possible at all.
	Unhealthy Status = "error"
)

// CheckResult is an individual component check outcome.
type CheckResult string

const (
	CheckOK    CheckResult = "ok"
	CheckError CheckResult = "error"
)

// Report aggregates component check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	db         DBPinger
	embedding  ProviderChecker
	classifier ProviderChecker
}

// New creates a Service. embedding and classifier can be nil.
func New(db DBPinger, embedding, classifier ProviderChecker) *Service {
	return &Service{db: db, embedding: embedding, classifier: classifier}
}

// Check probes all components. The index is load-bearing: its failure makes
// the service unhealthy, while a provider failure only degrades it.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)
	status := Healthy

	if err := s.db.Ping(ctx); err != nil {
		checks["database"] = CheckError
		status = Unhealthy
	} else {
		checks["database"] = CheckOK
	}

	for name, p := range map[string]ProviderChecker{
		"embedding":  s.embedding,
		"classifier": s.classifier,
	} {
		if p == nil {
			continue
		}
		if err := p.HealthCheck(ctx); err != nil {
			checks[name] = CheckError
			if status == Healthy {
				status = Degraded
			}
		} else {
			checks[name] = CheckOK
		}
	}

	return Report{Status: status, Checks: checks}
}
