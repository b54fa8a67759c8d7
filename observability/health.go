package observability

import (
	"context"
	"strconv"
	"time"
)

// HealthStatus is the state reported for a probe or the whole service.
type HealthStatus string

const (
	HealthStatusUp       HealthStatus = "up"
	HealthStatusDegraded HealthStatus = "degraded"
	HealthStatusDown     HealthStatus = "down"
)

// Health is the outcome of one probe.
type Health struct {
	Name    string            `json:"name"`
	Status  HealthStatus      `json:"status"`
	Message string            `json:"message,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

// ServiceHealth aggregates probe results. The worst component status wins.
type ServiceHealth struct {
	Service    string       `json:"service"`
	Status     HealthStatus `json:"status"`
	Version    string       `json:"version,omitempty"`
	Components []Health     `json:"components,omitempty"`
}

// HealthChecker reports the health of one part of the service.
type HealthChecker interface {
	CheckHealth(ctx context.Context) Health
}

// HealthCheckFunc adapts a function to HealthChecker.
type HealthCheckFunc func(ctx context.Context) Health

// CheckHealth calls f.
func (f HealthCheckFunc) CheckHealth(ctx context.Context) Health { return f(ctx) }

// NewServiceHealth starts an aggregate that is up until a component says
// otherwise.
func NewServiceHealth(service, version string) *ServiceHealth {
	return &ServiceHealth{Service: service, Status: HealthStatusUp, Version: version}
}

// Check runs checkers in order and folds their results in.
func (sh *ServiceHealth) Check(ctx context.Context, checkers ...HealthChecker) *ServiceHealth {
	for _, c := range checkers {
		sh.AddComponent(c.CheckHealth(ctx))
	}
	return sh
}

// AddComponent records ch and lowers the service status if ch is worse.
func (sh *ServiceHealth) AddComponent(ch Health) {
	sh.Components = append(sh.Components, ch)
	if severity(ch.Status) > severity(sh.Status) {
		sh.Status = ch.Status
	}
}

func severity(s HealthStatus) int {
	switch s {
	case HealthStatusDown:
		return 2
	case HealthStatusDegraded:
		return 1
	}
	return 0
}

// Probe is a HealthChecker built from an operation that either succeeds or
// fails. Each check runs fn under Timeout and reports its latency; a check
// that succeeds but takes longer than Slow is degraded.
type Probe struct {
	Name    string
	Timeout time.Duration
	Slow    time.Duration
	Fn      func(ctx context.Context) (map[string]string, error)
}

// CheckHealth runs the probe once.
func (p Probe) CheckHealth(ctx context.Context) Health {
	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}

	start := time.Now()
	details, err := p.Fn(ctx)
	elapsed := time.Since(start)

	h := Health{Name: p.Name, Status: HealthStatusUp, Details: details}
	if h.Details == nil {
		h.Details = make(map[string]string, 1)
	}
	h.Details["latency_ms"] = strconv.FormatInt(elapsed.Milliseconds(), 10)

	switch {
	case err != nil:
		h.Status = HealthStatusDown
		h.Message = err.Error()
	case p.Slow > 0 && elapsed > p.Slow:
		h.Status = HealthStatusDegraded
		h.Message = "slower than " + p.Slow.String()
	}
	return h
}
