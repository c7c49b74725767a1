package health

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"
)

// Check status values.
const (
	StatusOK        = "ok"
	StatusReady     = "ready"
	StatusUnhealthy = "unhealthy"
	StatusDegraded  = "degraded"
)

// CheckFunc is a function that performs a health check for a component.
// It returns nil if the component is healthy, or an error describing the problem.
type CheckFunc func(ctx context.Context) error

// CheckResult represents the result of a single health check.
type CheckResult struct {
	// Status is "ok" or "unhealthy"
	Status string `json:"status"`

	// Message describes the problem for unhealthy checks
	Message string `json:"message,omitempty"`

	// Duration is how long the check took
	Duration time.Duration `json:"duration_ms,omitempty"`
}

// HealthStatus represents the overall health status of the relay.
type HealthStatus struct {
	// Status is "ok" for liveness, "ready" or "degraded" for readiness
	Status string `json:"status"`

	// Checks contains the result of each registered check
	Checks map[string]CheckResult `json:"checks,omitempty"`

	// Timestamp is when the health check was performed
	Timestamp time.Time `json:"timestamp"`
}

// Ready reports whether every readiness check passed.
func (s HealthStatus) Ready() bool {
	return s.Status == StatusOK || s.Status == StatusReady
}

// Checker manages readiness checks for relay components.
type Checker struct {
	mu     sync.RWMutex
	checks map[string]CheckFunc

	checkTimeout time.Duration
}

// ErrCheckTimeout is returned when a health check does not finish in time.
var ErrCheckTimeout = errors.New("health check timeout")

// New creates a new health checker with the specified check timeout.
// If timeout is 0, defaults to 2 seconds per check.
func New(checkTimeout time.Duration) *Checker {
	if checkTimeout <= 0 {
		checkTimeout = 2 * time.Second
	}

	return &Checker{
		checks:       make(map[string]CheckFunc),
		checkTimeout: checkTimeout,
	}
}

// RegisterCheck registers a check under name, replacing any previous one.
func (c *Checker) RegisterCheck(name string, check CheckFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.checks[name] = check
}

// ListChecks returns the names of all registered checks in sorted order.
func (c *Checker) ListChecks() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.checks))
	for name := range c.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// CheckLiveness reports that the process is serving. It never runs checks.
func (c *Checker) CheckLiveness(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    StatusOK,
		Timestamp: time.Now(),
	}
}

// CheckReadiness runs every registered check concurrently. The status is
// "degraded" when any check fails.
func (c *Checker) CheckReadiness(ctx context.Context) HealthStatus {
	c.mu.RLock()
	checks := make(map[string]CheckFunc, len(c.checks))
	for name, check := range c.checks {
		checks[name] = check
	}
	c.mu.RUnlock()

	results := make(map[string]CheckResult, len(checks))
	var resultMu sync.Mutex
	var wg sync.WaitGroup

	for name, check := range checks {
		wg.Add(1)
		go func(name string, check CheckFunc) {
			defer wg.Done()

			result := c.runCheck(ctx, check)

			resultMu.Lock()
			results[name] = result
			resultMu.Unlock()
		}(name, check)
	}
	wg.Wait()

	status := StatusReady
	for _, result := range results {
		if result.Status == StatusUnhealthy {
			status = StatusDegraded
		}
	}

	return HealthStatus{
		Status:    status,
		Checks:    results,
		Timestamp: time.Now(),
	}
}

// runCheck executes a single health check with timeout.
func (c *Checker) runCheck(ctx context.Context, check CheckFunc) CheckResult {
	checkCtx, cancel := context.WithTimeout(ctx, c.checkTimeout)
	defer cancel()

	start := time.Now()

	errChan := make(chan error, 1)
	go func() {
		errChan <- check(checkCtx)
	}()

	var err error
	select {
	case err = <-errChan:
	case <-checkCtx.Done():
		err = ErrCheckTimeout
	}

	result := CheckResult{Status: StatusOK, Duration: time.Since(start)}
	if err != nil {
		result.Status = StatusUnhealthy
		result.Message = err.Error()
	}
	return result
}

// ProviderHealth is implemented by upstream clients that track their own
// health from the outcome of real requests.
type ProviderHealth interface {
	GetName() string
	IsHealthy() bool
}

// CredentialCheck fails while no upstream API key is configured. The relay
// still answers in that state, but every reply is the missing key message.
func CredentialCheck(hasCredential func() bool) CheckFunc {
	return func(ctx context.Context) error {
		if !hasCredential() {
			return errors.New("upstream API key is not configured")
		}
		return nil
	}
}

// ProviderCheck fails after the provider has seen repeated transport
// failures. It never contacts the provider itself.
func ProviderCheck(p ProviderHealth) CheckFunc {
	return func(ctx context.Context) error {
		if !p.IsHealthy() {
			return errors.New(p.GetName() + " is failing consecutive requests")
		}
		return nil
	}
}
