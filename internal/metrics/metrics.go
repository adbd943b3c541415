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
Package metrics provides Prometheus metrics for sqlsplit.

METRIC CATEGORIES:
==================
- Tokens: produced, by kind
- Statements: produced, by dialect; trailing statements without ";"
- Inputs: processed, by result (ok, error, cached)
- Latency: histogram of split durations

PROMETHEUS ENDPOINT:
====================
Long-running modes (watch, shell) can expose the metrics at /metrics in
Prometheus text format by setting metrics_addr.

EXAMPLE METRICS:
================

	sqlsplit_statements_total{dialect="postgresql"} 1234
	sqlsplit_tokens_total{kind="keyword_dml"} 2211
	sqlsplit_unterminated_total 3
	sqlsplit_inputs_total{result="ok"} 57

Collectors live on a private registry owned by a Recorder, so several
recorders can coexist in one process and tests stay isolated.
*/
package metrics

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	ferrors "sqlsplit/internal/errors"
	"sqlsplit/internal/logging"
	"sqlsplit/internal/sql"
)

// Input results.
const (
	ResultOK     = "ok"
	ResultError  = "error"
	ResultCached = "cached"
)

// Recorder owns the sqlsplit collectors. A nil *Recorder is valid and
// records nothing.
type Recorder struct {
	registry *prometheus.Registry

	tokens       *prometheus.CounterVec
	statements   *prometheus.CounterVec
	unterminated prometheus.Counter
	inputs       *prometheus.CounterVec
	duration     prometheus.Histogram
}

// NewRecorder creates a Recorder with its own registry.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,

		tokens: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "sqlsplit_tokens_total",
			Help: "Tokens produced by the lexer, by kind",
		}, []string{"kind"}),

		statements: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "sqlsplit_statements_total",
			Help: "Statements produced by the splitter, by dialect",
		}, []string{"dialect"}),

		unterminated: factory.NewCounter(prometheus.CounterOpts{
			Name: "sqlsplit_unterminated_total",
			Help: "Trailing statements that reached end of input without a terminator",
		}),

		inputs: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "sqlsplit_inputs_total",
			Help: "Inputs processed, by result",
		}, []string{"result"}),

		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "sqlsplit_split_duration_seconds",
			Help:    "Time to tokenize and split one input",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10), // 0.1ms to ~26s
		}),
	}
}

// Registry returns the registry holding the recorder's collectors.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// ObserveSplit records one split of an input into stmts.
func (r *Recorder) ObserveSplit(dialect string, stmts []sql.Statement, dur time.Duration) {
	if r == nil {
		return
	}

	counts := make(map[sql.TokenKind]int)
	for _, st := range stmts {
		for _, tok := range st.Tokens {
			counts[tok.Kind]++
		}
		if st.NeedsTerminator && !st.IsEmpty() {
			r.unterminated.Inc()
		}
	}
	for kind, n := range counts {
		r.tokens.WithLabelValues(kind.String()).Add(float64(n))
	}

	r.statements.WithLabelValues(dialect).Add(float64(len(stmts)))
	r.duration.Observe(dur.Seconds())
}

// ObserveInput records the outcome of processing one input.
func (r *Recorder) ObserveInput(result string) {
	if r == nil {
		return
	}
	r.inputs.WithLabelValues(result).Inc()
}

// Handler returns an http.Handler serving the recorder's metrics.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Server provides an HTTP server for Prometheus metrics.
type Server struct {
	addr     string
	recorder *Recorder
	logger   *logging.Logger

	mu       sync.Mutex
	extra    map[string]http.Handler
	server   *http.Server
	listener net.Listener
}

// NewServer creates a metrics server for rec listening on addr.
func NewServer(addr string, rec *Recorder) *Server {
	return &Server{
		addr:     addr,
		recorder: rec,
		logger:   logging.NewLogger("metrics"),
	}
}

// Handle adds a handler served next to /metrics. It must be called
// before Start.
func (s *Server) Handle(pattern string, handler http.Handler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.extra == nil {
		s.extra = make(map[string]http.Handler)
	}
	s.extra[pattern] = handler
}

// Start binds the listener and serves /metrics in the background. An empty
// address disables the server.
func (s *Server) Start() error {
	if s.addr == "" || s.recorder == nil {
		s.logger.Debug("Metrics server disabled")
		return nil
	}

	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return ferrors.ListenFailed(s.addr, err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", s.recorder.Handler())
	s.mu.Lock()
	for pattern, h := range s.extra {
		mux.Handle(pattern, h)
	}
	s.mu.Unlock()

	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	s.mu.Lock()
	s.server = srv
	s.listener = ln
	s.mu.Unlock()

	go func() {
		s.logger.Info("Starting metrics server", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Metrics server error", "error", err)
		}
	}()

	return nil
}

// Addr returns the bound address, or "" before Start.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Stop shuts the server down, waiting up to five seconds for in-flight
// scrapes.
func (s *Server) Stop() error {
	s.mu.Lock()
	srv := s.server
	s.server = nil
	s.listener = nil
	s.mu.Unlock()

	if srv == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s.logger.Info("Stopping metrics server")
	return srv.Shutdown(ctx)
}
