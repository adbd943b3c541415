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

package watch

import (
	"time"

	"sqlsplit/internal/cache"
	"sqlsplit/internal/logging"
	"sqlsplit/internal/metrics"
	"sqlsplit/internal/source"
	"sqlsplit/internal/sql"
)

// Result is the outcome of re-splitting one file.
type Result struct {
	RunID      string
	Path       string
	Op         Op
	Statements []sql.Statement
	Cached     bool
	Duration   time.Duration
	Err        error
}

// Unterminated returns how many non-empty statements lack a terminator.
func (r Result) Unterminated() int {
	n := 0
	for _, st := range r.Statements {
		if st.NeedsTerminator && !st.IsEmpty() {
			n++
		}
	}
	return n
}

// Resplitter loads and splits files named by change batches. Its Handle
// method is a Handler.
type Resplitter struct {
	Loader   *source.Loader
	Dialect  *sql.Dialect
	Cache    *cache.SplitCache // optional
	Recorder *metrics.Recorder // optional
	OnResult func(Result)      // called once per processed file

	splitter *sql.Splitter
	logger   *logging.Logger
}

// NewResplitter creates a Resplitter. cache and recorder may be nil.
func NewResplitter(loader *source.Loader, dialect *sql.Dialect, c *cache.SplitCache, rec *metrics.Recorder, onResult func(Result)) *Resplitter {
	if dialect == nil {
		dialect = sql.DefaultDialect
	}
	return &Resplitter{
		Loader:   loader,
		Dialect:  dialect,
		Cache:    c,
		Recorder: rec,
		OnResult: onResult,
		splitter: sql.NewSplitter(dialect),
		logger:   logging.NewLogger("watch"),
	}
}

// Handle processes a batch of changes in order.
func (r *Resplitter) Handle(changes []Change) {
	for _, c := range changes {
		r.emit(r.process(c.Path, c.Op))
	}
}

// Process splits path as if it had been written.
func (r *Resplitter) Process(path string) Result {
	res := r.process(path, OpWrite)
	r.emit(res)
	return res
}

func (r *Resplitter) emit(res Result) {
	if r.OnResult != nil {
		r.OnResult(res)
	}
}

func (r *Resplitter) process(path string, op Op) Result {
	run := logging.NewRun("resplit", path)
	res := Result{RunID: run.ID, Path: path, Op: op}

	if op == OpRemove {
		if r.Cache != nil {
			dropped := r.Cache.Invalidate(path)
			r.logger.Debug("File removed", "path", path, "dropped", dropped)
		}
		res.Duration = run.Duration()
		return res
	}

	in, err := r.Loader.Load(path)
	if err != nil {
		res.Err = err
		res.Duration = run.Duration()
		r.Recorder.ObserveInput(metrics.ResultError)
		run.LogError(r.logger, err)
		return res
	}

	start := time.Now()
	if r.Cache != nil {
		res.Statements, res.Cached = r.Cache.Split(r.splitter, r.Dialect.Name(), in.Text, path)
	} else {
		res.Statements = r.splitter.Split(in.Text)
	}
	res.Duration = run.Duration()

	if res.Cached {
		r.Recorder.ObserveInput(metrics.ResultCached)
	} else {
		r.Recorder.ObserveSplit(r.Dialect.Name(), res.Statements, time.Since(start))
		r.Recorder.ObserveInput(metrics.ResultOK)
	}

	run.LogComplete(r.logger,
		"statements", len(res.Statements),
		"unterminated", res.Unterminated(),
		"cached", res.Cached)
	return res
}
