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
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sqlsplit/internal/cache"
	ferrors "sqlsplit/internal/errors"
	"sqlsplit/internal/metrics"
	"sqlsplit/internal/source"
	"sqlsplit/internal/sql"
)

func newResplitter(t *testing.T, c *cache.SplitCache, results chan<- Result) *Resplitter {
	t.Helper()
	loader, err := source.NewLoader("")
	require.NoError(t, err)
	return NewResplitter(loader, sql.PostgreSQL, c, metrics.NewRecorder(), func(r Result) {
		results <- r
	})
}

func TestDeduplicate(t *testing.T) {
	now := time.Now()
	got := deduplicate([]Change{
		{Path: "/a.sql", Op: OpWrite, Time: now},
		{Path: "/b.sql", Op: OpWrite, Time: now},
		{Path: "/a.sql", Op: OpRemove, Time: now},
		{Path: "/a.sql", Op: OpCreate, Time: now},
	})

	require.Len(t, got, 2)
	assert.Equal(t, "/a.sql", got[0].Path)
	assert.Equal(t, OpCreate, got[0].Op)
	assert.Equal(t, "/b.sql", got[1].Path)
}

func TestConvertOp(t *testing.T) {
	tests := []struct {
		in   fsnotify.Op
		want Op
		ok   bool
	}{
		{fsnotify.Write, OpWrite, true},
		{fsnotify.Create, OpCreate, true},
		{fsnotify.Remove, OpRemove, true},
		{fsnotify.Rename, OpRemove, true},
		{fsnotify.Create | fsnotify.Write, OpCreate, true},
		{fsnotify.Chmod, 0, false},
	}
	for _, tt := range tests {
		got, ok := convertOp(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in.String())
		if ok {
			assert.Equal(t, tt.want, got, tt.in.String())
		}
	}
}

func TestResplitterProcess(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.sql")
	require.NoError(t, os.WriteFile(path, []byte("SELECT 1; SELECT 2"), 0o644))

	results := make(chan Result, 4)
	c := cache.New(cache.DefaultConfig())
	r := newResplitter(t, c, results)

	first := r.Process(path)
	require.NoError(t, first.Err)
	assert.Len(t, first.Statements, 2)
	assert.Equal(t, 1, first.Unterminated())
	assert.False(t, first.Cached)
	assert.NotEmpty(t, first.RunID)

	second := r.Process(path)
	assert.True(t, second.Cached)
	assert.NotEqual(t, first.RunID, second.RunID)

	assert.Len(t, results, 2)
	<-results
	<-results

	r.Handle([]Change{{Path: path, Op: OpRemove}})
	removed := <-results
	assert.Equal(t, OpRemove, removed.Op)
	assert.Equal(t, 0, c.Stats().Entries)
}

func TestResplitterMissingFile(t *testing.T) {
	results := make(chan Result, 1)
	r := newResplitter(t, nil, results)

	res := r.Process(filepath.Join(t.TempDir(), "gone.sql"))
	require.Error(t, res.Err)
	assert.Equal(t, ferrors.ErrCodeInputNotFound, ferrors.GetCode(res.Err))
}

func TestWatcherDeliversWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "schema.sql")
	other := filepath.Join(dir, "other.sql")
	require.NoError(t, os.WriteFile(path, []byte("SELECT 1;"), 0o644))

	results := make(chan Result, 16)
	r := newResplitter(t, nil, results)

	w, err := New([]string{path}, r.Handle, &Options{Debounce: 30 * time.Millisecond, BufferSize: 64})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))
	defer w.Stop()
	assert.True(t, w.IsWatching())

	require.NoError(t, os.WriteFile(other, []byte("SELECT 9;"), 0o644))
	require.NoError(t, os.WriteFile(path, []byte("SELECT 1; SELECT 2; SELECT 3;"), 0o644))

	deadline := time.After(5 * time.Second)
	for {
		select {
		case res := <-results:
			assert.Equal(t, path, res.Path, "events for unwatched files must be dropped")
			if res.Err == nil && len(res.Statements) == 3 {
				w.Stop()
				assert.False(t, w.IsWatching())
				return
			}
		case <-deadline:
			t.Fatal("Timed out waiting for re-split")
		}
	}
}

func TestNewRequiresPaths(t *testing.T) {
	w, err := New(nil, nil, nil)
	assert.Nil(t, w)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoPaths)
	assert.Equal(t, ferrors.ErrCodeWatchFailed, ferrors.GetCode(err))
}

func TestWatcherStopsWhenContextCancelled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schema.sql")
	require.NoError(t, os.WriteFile(path, []byte("SELECT 1;"), 0o644))

	w, err := New([]string{path}, nil, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, w.Start(ctx))
	assert.True(t, w.IsWatching())

	cancel()
	assert.Eventually(t, func() bool { return !w.IsWatching() }, 5*time.Second, 10*time.Millisecond)
	w.Stop()
}
