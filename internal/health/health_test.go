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


package health

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func get(t *testing.T, mux *http.ServeMux, path string) (int, Response) {
	t.Helper()
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec.Code, resp
}

func TestRunChecksAggregates(t *testing.T) {
	c := NewChecker("1.0")
	assert.True(t, c.IsHealthy())

	var failing []string
	c.RegisterCheck("inputs", InputsCheck(func() []string { return failing }))
	c.RegisterCheck("watcher", RunningCheck(func() bool { return true }))

	resp := c.RunChecks()
	assert.Equal(t, StatusHealthy, resp.Status)
	require.Len(t, resp.Checks, 2)
	assert.Equal(t, "inputs", resp.Checks[0].Name)
	assert.Equal(t, "watcher", resp.Checks[1].Name)

	failing = []string{"b.sql", "a.sql"}
	resp = c.RunChecks()
	assert.Equal(t, StatusDegraded, resp.Status)
	assert.Equal(t, "2 failing: a.sql, b.sql", resp.Checks[0].Message)

	c.RegisterCheck("watcher", RunningCheck(func() bool { return false }))
	assert.Equal(t, StatusUnhealthy, c.RunChecks().Status)
	assert.False(t, c.IsHealthy())
}

func TestEndpoints(t *testing.T) {
	c := NewChecker("1.0")
	running := true
	var failing []string
	c.RegisterCheck("watcher", RunningCheck(func() bool { return running }))
	c.RegisterCheck("inputs", InputsCheck(func() []string { return failing }))

	mux := http.NewServeMux()
	c.Mount(mux)

	code, resp := get(t, mux, "/health")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, StatusHealthy, resp.Status)
	assert.Equal(t, "1.0", resp.Version)

	failing = []string{"a.sql"}
	code, _ = get(t, mux, "/health")
	assert.Equal(t, http.StatusServiceUnavailable, code)
	code, resp = get(t, mux, "/health/ready")
	assert.Equal(t, http.StatusOK, code, "degraded is still ready")
	assert.Equal(t, StatusDegraded, resp.Status)

	running = false
	code, _ = get(t, mux, "/health/ready")
	assert.Equal(t, http.StatusServiceUnavailable, code)

	code, resp = get(t, mux, "/health/live")
	assert.Equal(t, http.StatusOK, code)
	assert.Empty(t, resp.Checks)
}
