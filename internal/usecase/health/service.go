package health

import (
	"context"

	"go.uber.org/zap"

	"github.com/kailas-cloud/storefront/internal/logger"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	backend string
	search  Pinger
}

// New creates a Service. backend names the check in the report.
func New(backend string, search Pinger) *Service {
	return &Service{backend: backend, search: search}
}

// Check pings the search backend.
func (s *Service) Check(ctx context.Context) Report {
	checks := map[string]CheckResult{"search": CheckOK}
	status := Healthy

	if err := s.search.Ping(ctx); err != nil {
		logger.ForComponent(ctx, "health", "Check").Warn("search backend unreachable",
			zap.String("backend", s.backend), zap.Error(err))
		checks["search"] = CheckError
		status = Degraded
	}

	return Report{Status: status, Checks: checks}
}
