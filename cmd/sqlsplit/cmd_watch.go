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

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"sqlsplit/internal/banner"
	"sqlsplit/internal/cache"
	"sqlsplit/internal/config"
	ferrors "sqlsplit/internal/errors"
	"sqlsplit/internal/health"
	"sqlsplit/internal/logging"
	"sqlsplit/internal/metrics"
	"sqlsplit/internal/watch"
)

// startMetrics starts the metrics listener when an address is configured,
// mounting the health endpoints of checker when it is not nil. The
// returned stop function is always safe to call.
func (a *app) startMetrics(rec *metrics.Recorder, checker *health.Checker) (func(), error) {
	srv := metrics.NewServer(a.cfg.MetricsAddr, rec)
	if checker != nil {
		checker.Mount(srv)
	}
	if err := srv.Start(); err != nil {
		return func() {}, err
	}
	if a.cfg.MetricsAddr != "" {
		a.logger.Info("Serving metrics", "addr", srv.Addr())
	}
	return func() {
		if err := srv.Stop(); err != nil {
			a.logger.Warn("Metrics server shutdown failed", "error", err)
		}
	}, nil
}

// newSplitCache builds the split cache from the configured size. A size of
// zero disables caching.
func (a *app) newSplitCache() *cache.SplitCache {
	cfg := cache.DefaultConfig()
	cfg.MaxEntries = a.cfg.CacheSize
	cfg.Enabled = a.cfg.CacheSize > 0
	return cache.New(cfg)
}

// ============================================================================
// watch
// ============================================================================

func newWatchCmd(a *app) *cobra.Command {
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch files...",
		Short: "Re-split SQL files whenever they change",
		Long: `Split each file once, then again every time it is written, created or
replaced. One summary line is printed per split. Send SIGHUP to reload the
configuration file; stop with Ctrl+C.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.watch(ctx, cmd.OutOrStdout(), args, debounce)
		},
	}
	cmd.Flags().String("metrics-addr", "", "serve Prometheus metrics on this address (host:port)")
	cmd.Flags().Int("cache-size", 0, "split results kept in memory (0 disables the cache)")
	cmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultOptions().Debounce, "quiet period before a burst of events is handled")
	return cmd
}

// failureSet tracks watched files whose last split failed.
type failureSet struct {
	mu    sync.Mutex
	paths map[string]struct{}
}

func (f *failureSet) record(res watch.Result) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.paths == nil {
		f.paths = make(map[string]struct{})
	}
	if res.Err != nil {
		f.paths[res.Path] = struct{}{}
	} else {
		delete(f.paths, res.Path)
	}
}

func (f *failureSet) names() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.paths))
	for p := range f.paths {
		out = append(out, p)
	}
	return out
}

// watch runs until ctx is cancelled.
func (a *app) watch(ctx context.Context, out io.Writer, paths []string, debounce time.Duration) error {
	rec := metrics.NewRecorder()

	var (
		outMu    sync.Mutex
		failures failureSet
	)
	printResult := func(res watch.Result) {
		failures.record(res)
		outMu.Lock()
		defer outMu.Unlock()
		fmt.Fprintln(out, summarize(res))
	}

	splitCache := a.newSplitCache()
	resplitter := watch.NewResplitter(a.loader, a.dialect, splitCache, rec, printResult)
	for _, p := range paths {
		if res := resplitter.Process(p); res.Err != nil {
			return res.Err
		}
	}

	opts := watch.DefaultOptions()
	opts.Debounce = debounce
	w, err := watch.New(paths, resplitter.Handle, &opts)
	if err != nil {
		return err
	}

	checker := health.NewChecker(banner.Version)
	checker.RegisterCheck("watcher", health.RunningCheck(w.IsWatching))
	checker.RegisterCheck("inputs", health.InputsCheck(failures.names))
	stopMetrics, err := a.startMetrics(rec, checker)
	if err != nil {
		return err
	}
	defer stopMetrics()

	if err := w.Start(ctx); err != nil {
		return err
	}
	defer w.Stop()

	a.manager.OnReload(func(cfg *config.Config) {
		if level, ok := logging.ParseLevel(cfg.LogLevel); ok {
			logging.SetGlobalLevel(level)
		}
		a.logger.Info("Configuration reloaded", "log_level", cfg.LogLevel, "config_file", cfg.ConfigFile)
	})
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	a.logger.Info("Watching files", "files", len(paths), "dialect", a.dialect.Name())
	for {
		select {
		case <-ctx.Done():
			stats := splitCache.Stats()
			a.logger.Info("Watch stopped", "cache_hits", stats.Hits, "cache_misses", stats.Misses)
			return nil
		case <-hup:
			if err := a.manager.Reload(); err != nil {
				a.logger.Warn("Configuration reload failed", "error", ferrors.FormatError(err))
			}
		}
	}
}

// summarize renders one re-split result as a single line.
func summarize(res watch.Result) string {
	ts := time.Now().Format("15:04:05")
	switch {
	case res.Err != nil:
		return fmt.Sprintf("%s %s: %s", ts, res.Path, ferrors.FormatError(res.Err))
	case res.Op == watch.OpRemove:
		return fmt.Sprintf("%s %s: removed", ts, res.Path)
	}

	line := fmt.Sprintf("%s %s: %d statements", ts, res.Path, len(res.Statements))
	if n := res.Unterminated(); n > 0 {
		line += fmt.Sprintf(", %d unterminated", n)
	}
	if res.Cached {
		line += " (cached)"
	}
	return line + fmt.Sprintf(" in %s", res.Duration.Round(time.Microsecond))
}
