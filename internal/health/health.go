/*
 * Copyright (c) 2026 Firefly Software Solutions Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

/*
Package health provides health check endpoints for long-running sqlsplit
modes.

ENDPOINTS:
==========

	GET /health       - Overall health check
	GET /health/live  - Liveness check (is the process running?)
	GET /health/ready - Readiness check (are watched inputs splitting?)

The handlers are mounted on the metrics listener, so they are only served
when metrics_addr is set.

STATUS VALUES:
==============
  - healthy: All checks pass
  - degraded: Some inputs fail to load or split
  - unhealthy: A critical check fails, such as a stopped watcher
*/
package health

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"sqlsplit/internal/logging"
)

// Status represents the health status.
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusUnhealthy Status = "unhealthy"
	StatusDegraded  Status = "degraded"
)

// CheckResult represents the result of a health check.
type CheckResult struct {
	Name    string `json:"name"`
	Status  Status `json:"status"`
	Message string `json:"message,omitempty"`
	Latency int64  `json:"latency_ms"`
}

// Response represents the health check response.
type Response struct {
	Status    Status        `json:"status"`
	Timestamp string        `json:"timestamp"`
	Version   string        `json:"version,omitempty"`
	Checks    []CheckResult `json:"checks,omitempty"`
}

// Check is a function that performs a health check.
type Check func() CheckResult

// Checker manages health checks.
type Checker struct {
	mu      sync.RWMutex
	checks  map[string]Check
	version string
	logger  *logging.Logger
}

// NewChecker creates a new health checker.
func NewChecker(version string) *Checker {
	return &Checker{
		checks:  make(map[string]Check),
		version: version,
		logger:  logging.NewLogger("health"),
	}
}

// RegisterCheck registers a health check.
func (c *Checker) RegisterCheck(name string, check Check) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.checks[name] = check
}

// RunChecks runs all registered health checks in name order.
func (c *Checker) RunChecks() Response {
	c.mu.RLock()
	defer c.mu.RUnlock()

	response := Response{
		Status:    StatusHealthy,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   c.version,
		Checks:    make([]CheckResult, 0, len(c.checks)),
	}

	names := make([]string, 0, len(c.checks))
	for name := range c.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		start := time.Now()
		result := c.checks[name]()
		result.Name = name
		result.Latency = time.Since(start).Milliseconds()
		response.Checks = append(response.Checks, result)

		if result.Status == StatusUnhealthy {
			response.Status = StatusUnhealthy
		} else if result.Status == StatusDegraded && response.Status == StatusHealthy {
			response.Status = StatusDegraded
		}
	}

	if response.Status != StatusHealthy {
		c.logger.Debug("Health check not passing", "status", string(response.Status))
	}
	return response
}

// IsHealthy returns true if all checks pass.
func (c *Checker) IsHealthy() bool {
	return c.RunChecks().Status == StatusHealthy
}

// Mux is the subset of *http.ServeMux used to mount the endpoints.
type Mux interface {
	Handle(pattern string, handler http.Handler)
}

// Mount registers the health endpoints on mux.
func (c *Checker) Mount(mux Mux) {
	mux.Handle("/health", http.HandlerFunc(c.handleHealth))
	mux.Handle("/health/live", http.HandlerFunc(c.handleLiveness))
	mux.Handle("/health/ready", http.HandlerFunc(c.handleReadiness))
}

// handleHealth handles the /health endpoint.
func (c *Checker) handleHealth(w http.ResponseWriter, r *http.Request) {
	response := c.RunChecks()
	status := http.StatusOK
	if response.Status != StatusHealthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, response)
}

// handleLiveness handles the /health/live endpoint.
func (c *Checker) handleLiveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, Response{
		Status:    StatusHealthy,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   c.version,
	})
}

// handleReadiness handles the /health/ready endpoint. Degraded is still
// ready.
func (c *Checker) handleReadiness(w http.ResponseWriter, r *http.Request) {
	response := c.RunChecks()
	status := http.StatusOK
	if response.Status == StatusUnhealthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, response)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// Common health checks

// RunningCheck reports unhealthy when running returns false.
func RunningCheck(running func() bool) Check {
	return func() CheckResult {
		if !running() {
			return CheckResult{Status: StatusUnhealthy, Message: "stopped"}
		}
		return CheckResult{Status: StatusHealthy, Message: "running"}
	}
}

// InputsCheck reports degraded while failing returns any input names.
func InputsCheck(failing func() []string) Check {
	return func() CheckResult {
		names := failing()
		if len(names) > 0 {
			sort.Strings(names)
			return CheckResult{
				Status:  StatusDegraded,
				Message: fmt.Sprintf("%d failing: %s", len(names), strings.Join(names, ", ")),
			}
		}
		return CheckResult{Status: StatusHealthy}
	}
}
