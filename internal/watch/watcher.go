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
Package watch re-splits SQL files when they change on disk.

The Watcher observes the parent directory of every target file rather than
the file itself, so editors that save by writing a temporary file and
renaming it over the original are still seen. Events for other files in
those directories are dropped.

Events arrive in bursts (a save is often a truncate, a write and a chmod).
They are collected until the debounce window passes without a new event,
deduplicated per path, and handed to the Handler in one batch from a
single goroutine.
*/
package watch

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	ferrors "sqlsplit/internal/errors"
	"sqlsplit/internal/logging"
)

// Op is the kind of change observed for a file.
type Op int

const (
	// OpWrite indicates the file content changed.
	OpWrite Op = iota
	// OpCreate indicates the file appeared, including by rename.
	OpCreate
	// OpRemove indicates the file was deleted or renamed away.
	OpRemove
)

// String returns the string representation of the operation.
func (op Op) String() string {
	switch op {
	case OpWrite:
		return "write"
	case OpCreate:
		return "create"
	case OpRemove:
		return "remove"
	default:
		return "unknown"
	}
}

// Change is one debounced file change.
type Change struct {
	Path string
	Op   Op
	Time time.Time
}

// Handler receives each batch of debounced changes.
type Handler func(changes []Change)

// Options configures a Watcher.
type Options struct {
	// Debounce is how long to wait for more events before flushing.
	Debounce time.Duration

	// BufferSize is the capacity of the event channel feeding the
	// debouncer. Events beyond it are dropped.
	BufferSize int
}

// DefaultOptions returns the options used when nil is passed to New.
func DefaultOptions() Options {
	return Options{
		Debounce:   150 * time.Millisecond,
		BufferSize: 256,
	}
}

// ErrNoPaths is returned by New when there is nothing to watch.
var ErrNoPaths = errors.New("no files to watch")

// Watcher watches a fixed set of files.
type Watcher struct {
	targets  map[string]struct{}
	dirs     []string
	watcher  *fsnotify.Watcher
	handler  Handler
	debounce time.Duration
	logger   *logging.Logger

	changes  chan Change
	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup

	mu       sync.Mutex
	watching bool
}

// New creates a Watcher for paths. Paths are made absolute; their parent
// directories must exist.
func New(paths []string, handler Handler, opts *Options) (*Watcher, error) {
	if len(paths) == 0 {
		return nil, ferrors.WatchFailed("an empty file list", ErrNoPaths)
	}
	if opts == nil {
		defaults := DefaultOptions()
		opts = &defaults
	}

	targets := make(map[string]struct{}, len(paths))
	dirSet := make(map[string]struct{})
	var dirs []string
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, ferrors.WatchFailed(p, err)
		}
		targets[abs] = struct{}{}
		dir := filepath.Dir(abs)
		if _, ok := dirSet[dir]; !ok {
			dirSet[dir] = struct{}{}
			dirs = append(dirs, dir)
		}
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, ferrors.WatchFailed(paths[0], err)
	}

	return &Watcher{
		targets:  targets,
		dirs:     dirs,
		watcher:  fw,
		handler:  handler,
		debounce: opts.Debounce,
		logger:   logging.NewLogger("watch"),
		changes:  make(chan Change, opts.BufferSize),
		done:     make(chan struct{}),
	}, nil
}

// Start registers the directories and begins delivering changes. Watching
// ends when ctx is cancelled or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.watching {
		w.mu.Unlock()
		return nil
	}
	w.watching = true
	w.mu.Unlock()

	for _, dir := range w.dirs {
		if err := w.watcher.Add(dir); err != nil {
			w.Stop()
			return ferrors.WatchFailed(dir, err)
		}
		w.logger.Debug("Watching directory", "dir", dir)
	}

	w.wg.Add(2)
	go w.processEvents(ctx)
	go w.debounceLoop(ctx)
	go func() {
		select {
		case <-ctx.Done():
			w.Stop()
		case <-w.done:
		}
	}()
	return nil
}

// Stop stops the watcher and waits for a pending batch to be delivered.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.done)
		w.watcher.Close()
		w.wg.Wait()

		w.mu.Lock()
		w.watching = false
		w.mu.Unlock()
	})
}

// IsWatching reports whether the watcher is active.
func (w *Watcher) IsWatching() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.watching
}

func (w *Watcher) processEvents(ctx context.Context) {
	defer w.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			path := filepath.Clean(event.Name)
			if _, ok := w.targets[path]; !ok {
				continue
			}
			op, ok := convertOp(event.Op)
			if !ok {
				continue
			}

			select {
			case w.changes <- Change{Path: path, Op: op, Time: time.Now()}:
			default:
				w.logger.Warn("Change buffer full, dropping event", "path", path)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("Watcher error", "error", err)
		}
	}
}

// convertOp maps fsnotify operations. Chmod-only events are ignored.
func convertOp(op fsnotify.Op) (Op, bool) {
	switch {
	case op.Has(fsnotify.Remove), op.Has(fsnotify.Rename):
		return OpRemove, true
	case op.Has(fsnotify.Create):
		return OpCreate, true
	case op.Has(fsnotify.Write):
		return OpWrite, true
	default:
		return 0, false
	}
}

func (w *Watcher) debounceLoop(ctx context.Context) {
	defer w.wg.Done()

	var batch []Change
	var timer *time.Timer
	var timerC <-chan time.Time

	flush := func() {
		if len(batch) > 0 {
			if deduped := deduplicate(batch); len(deduped) > 0 && w.handler != nil {
				w.handler(deduped)
			}
			batch = nil
		}
		if timer != nil {
			timer.Stop()
			timer = nil
			timerC = nil
		}
	}

	for {
		select {
		case <-ctx.Done():
			flush()
			return
		case <-w.done:
			flush()
			return
		case change := <-w.changes:
			batch = append(batch, change)
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				timer.Reset(w.debounce)
			}
		case <-timerC:
			flush()
		}
	}
}

// deduplicate keeps the latest change per path, in first-seen order.
func deduplicate(changes []Change) []Change {
	seen := make(map[string]int)
	result := make([]Change, 0, len(changes))
	for _, c := range changes {
		if idx, ok := seen[c.Path]; ok {
			result[idx] = c
			continue
		}
		seen[c.Path] = len(result)
		result = append(result, c)
	}
	return result
}
