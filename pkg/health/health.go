// Package health runs dependency probes concurrently and serves the
// aggregate result on liveness and readiness endpoints.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

// Status represents the health state of a component or the system overall.
type Status string

const (
	StatusUp       Status = "up"
	StatusDown     Status = "down"
	StatusDegraded Status = "degraded"
)

// Check is a function that probes a single dependency and returns its status.
type Check func(ctx context.Context) ComponentHealth

// ComponentHealth holds the result of a single component check.
type ComponentHealth struct {
	Status  Status `json:"status"`
	Message string `json:"message,omitempty"`
	Latency string `json:"latency,omitempty"`
}

// Report is the aggregated result of all component checks.
type Report struct {
	Status     Status                     `json:"status"`
	Components map[string]ComponentHealth `json:"components"`
	Timestamp  string                     `json:"timestamp"`
}

// Checker manages registered health checks.
type Checker struct {
	mu     sync.RWMutex
	checks map[string]Check
}

func NewChecker() *Checker {
	return &Checker{checks: make(map[string]Check)}
}

// Register adds a named health check.
func (c *Checker) Register(name string, check Check) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.checks[name] = check
}

// PingCheck adapts a ping function. A failing ping reports failStatus, so an
// optional dependency can degrade the service instead of taking it down.
func PingCheck(ping func(ctx context.Context) error, failStatus Status) Check {
	return func(ctx context.Context) ComponentHealth {
		if ping == nil {
			return ComponentHealth{Status: failStatus, Message: "not configured"}
		}
		if err := ping(ctx); err != nil {
			return ComponentHealth{Status: failStatus, Message: err.Error()}
		}
		return ComponentHealth{Status: StatusUp}
	}
}

// Run executes all registered checks concurrently. The overall status is the
// worst status among all components.
func (c *Checker) Run(ctx context.Context) Report {
	c.mu.RLock()
	checks := make(map[string]Check, len(c.checks))
	for name, check := range c.checks {
		checks[name] = check
	}
	c.mu.RUnlock()

	report := Report{
		Status:     StatusUp,
		Components: make(map[string]ComponentHealth, len(checks)),
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	for name, check := range checks {
		wg.Add(1)
		go func() {
			defer wg.Done()
			start := time.Now()
			result := check(ctx)
			result.Latency = time.Since(start).Round(time.Millisecond).String()
			mu.Lock()
			report.Components[name] = result
			mu.Unlock()
		}()
	}
	wg.Wait()

	for _, comp := range report.Components {
		switch comp.Status {
		case StatusDown:
			report.Status = StatusDown
			return report
		case StatusDegraded:
			report.Status = StatusDegraded
		}
	}
	return report
}

// LiveHandler answers liveness probes unconditionally.
func (c *Checker) LiveHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
	}
}

// ReadyHandler answers readiness probes with the full report; anything other
// than StatusUp is 503.
func (c *Checker) ReadyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()
		report := c.Run(ctx)
		status := http.StatusOK
		if report.Status != StatusUp {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, report)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
