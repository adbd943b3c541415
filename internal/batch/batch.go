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
Package batch splits many inputs concurrently.

Inputs are loaded and split on a bounded pool of goroutines. Results are
returned in input order regardless of which input finished first. The
first failure cancels inputs that have not started yet and is returned
from Run; no partial results are returned with it.
*/
package batch

import (
	"context"
	"runtime"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"sqlsplit/internal/cache"
	"sqlsplit/internal/logging"
	"sqlsplit/internal/metrics"
	"sqlsplit/internal/source"
	"sqlsplit/internal/sql"
)

// Options configures a Runner.
type Options struct {
	// Jobs bounds the number of inputs processed at once. Zero means one
	// per CPU.
	Jobs int

	// SkipEmpty drops statements holding only whitespace and comments.
	SkipEmpty bool
}

// Result is the split of one input.
type Result struct {
	Name       string
	Statements []sql.Statement
	Size       int
	Cached     bool
	Duration   time.Duration
}

// Runner splits inputs with one dialect.
type Runner struct {
	loader   *source.Loader
	dialect  *sql.Dialect
	splitter *sql.Splitter
	cache    *cache.SplitCache
	recorder *metrics.Recorder
	opts     Options
	logger   *logging.Logger
}

// New creates a Runner. A nil dialect selects the default dialect.
func New(loader *source.Loader, dialect *sql.Dialect, opts Options) *Runner {
	if dialect == nil {
		dialect = sql.DefaultDialect
	}
	if opts.Jobs <= 0 {
		opts.Jobs = runtime.NumCPU()
	}
	return &Runner{
		loader:   loader,
		dialect:  dialect,
		splitter: sql.NewSplitter(dialect),
		opts:     opts,
		logger:   logging.NewLogger("batch"),
	}
}

// WithCache sets the cache consulted before splitting.
func (r *Runner) WithCache(c *cache.SplitCache) *Runner {
	r.cache = c
	return r
}

// WithRecorder sets the metrics recorder.
func (r *Runner) WithRecorder(rec *metrics.Recorder) *Runner {
	r.recorder = rec
	return r
}

// Jobs returns the effective parallelism.
func (r *Runner) Jobs() int {
	return r.opts.Jobs
}

// Run loads and splits every named input.
func (r *Runner) Run(ctx context.Context, names []string) ([]Result, error) {
	run := logging.NewRun("batch", strings.Join(names, ","))
	log := r.logger.With("run_id", run.ID)
	log.Debug("Batch started", "inputs", len(names), "jobs", r.opts.Jobs, "dialect", r.dialect.Name())

	results := make([]Result, len(names))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Jobs)

	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := r.one(name)
			if err != nil {
				r.recorder.ObserveInput(metrics.ResultError)
				log.Warn("Input failed", "input", name, "error", err)
				return err
			}
			results[i] = res
			log.Debug("Input split", "input", name, "statements", len(res.Statements), "cached", res.Cached)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		run.LogError(r.logger, err)
		return nil, err
	}

	total := 0
	for _, res := range results {
		total += len(res.Statements)
	}
	run.LogComplete(r.logger, "inputs", len(names), "statements", total)
	return results, nil
}

func (r *Runner) one(name string) (Result, error) {
	start := time.Now()
	in, err := r.loader.Load(name)
	if err != nil {
		return Result{}, err
	}

	res := Result{Name: in.Name, Size: in.Size}
	splitStart := time.Now()
	if r.cache != nil {
		res.Statements, res.Cached = r.cache.Split(r.splitter, r.dialect.Name(), in.Text, in.Name)
	} else {
		res.Statements = r.splitter.Split(in.Text)
	}

	if res.Cached {
		r.recorder.ObserveInput(metrics.ResultCached)
	} else {
		r.recorder.ObserveSplit(r.dialect.Name(), res.Statements, time.Since(splitStart))
		r.recorder.ObserveInput(metrics.ResultOK)
	}

	if r.opts.SkipEmpty {
		res.Statements = NonEmpty(res.Statements)
	}
	res.Duration = time.Since(start)
	return res, nil
}

// NonEmpty returns the statements that carry executable tokens. The
// input slice is not modified.
func NonEmpty(stmts []sql.Statement) []sql.Statement {
	out := make([]sql.Statement, 0, len(stmts))
	for _, st := range stmts {
		if !st.IsEmpty() {
			out = append(out, st)
		}
	}
	return out
}
