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


package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sqlsplit/internal/cache"
	ferrors "sqlsplit/internal/errors"
	"sqlsplit/internal/metrics"
	"sqlsplit/internal/source"
	"sqlsplit/internal/sql"
)

func writeInputs(t *testing.T, n int) []string {
	t.Helper()
	dir := t.TempDir()
	names := make([]string, n)
	for i := range names {
		// Earlier inputs are larger so they tend to finish last.
		var b strings.Builder
		for j := 0; j < (n-i)*50; j++ {
			b.WriteString("SELECT 1;\n")
		}
		fmt.Fprintf(&b, "SELECT %d;\n", i)
		names[i] = filepath.Join(dir, fmt.Sprintf("in%02d.sql", i))
		require.NoError(t, os.WriteFile(names[i], []byte(b.String()), 0o644))
	}
	return names
}

func newLoader(t *testing.T) *source.Loader {
	t.Helper()
	l, err := source.NewLoader("")
	require.NoError(t, err)
	return l
}

func TestRunKeepsInputOrder(t *testing.T) {
	names := writeInputs(t, 12)
	r := New(newLoader(t), sql.PostgreSQL, Options{Jobs: 4})

	results, err := r.Run(context.Background(), names)
	require.NoError(t, err)
	require.Len(t, results, len(names))

	for i, res := range results {
		assert.Equal(t, names[i], res.Name)
		assert.Len(t, res.Statements, (len(names)-i)*50+1)
		last := res.Statements[len(res.Statements)-1]
		assert.Equal(t, fmt.Sprintf("SELECT %d;\n", i), last.Text())
	}
}

func TestRunFirstErrorWins(t *testing.T) {
	names := writeInputs(t, 3)
	names = append(names[:1], append([]string{filepath.Join(t.TempDir(), "missing.sql")}, names[1:]...)...)

	results, err := New(newLoader(t), nil, Options{Jobs: 1}).Run(context.Background(), names)
	require.Error(t, err)
	assert.Nil(t, results)
	assert.Equal(t, ferrors.ErrCodeInputNotFound, ferrors.GetCode(err))
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(newLoader(t), nil, Options{}).Run(ctx, writeInputs(t, 2))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunSkipEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.sql")
	require.NoError(t, os.WriteFile(path, []byte("SELECT 1;\n-- trailing note\n"), 0o644))

	all, err := New(newLoader(t), nil, Options{}).Run(context.Background(), []string{path})
	require.NoError(t, err)
	assert.Len(t, all[0].Statements, 2)

	some, err := New(newLoader(t), nil, Options{SkipEmpty: true}).Run(context.Background(), []string{path})
	require.NoError(t, err)
	require.Len(t, some[0].Statements, 1)
	assert.Equal(t, "SELECT", some[0].Statements[0].Kind())
}

func TestRunStdin(t *testing.T) {
	loader := newLoader(t).WithStdin(strings.NewReader("SELECT 1; SELECT 2"))
	results, err := New(loader, nil, Options{}).Run(context.Background(), []string{source.Stdin})
	require.NoError(t, err)
	require.Len(t, results[0].Statements, 2)
	assert.True(t, results[0].Statements[1].NeedsTerminator)
}

func TestRunUsesCache(t *testing.T) {
	names := writeInputs(t, 2)
	c := cache.New(cache.DefaultConfig())
	r := New(newLoader(t), nil, Options{}).WithCache(c).WithRecorder(metrics.NewRecorder())

	first, err := r.Run(context.Background(), names)
	require.NoError(t, err)
	second, err := r.Run(context.Background(), names)
	require.NoError(t, err)

	for i := range names {
		assert.False(t, first[i].Cached)
		assert.True(t, second[i].Cached)
		assert.Equal(t, len(first[i].Statements), len(second[i].Statements))
	}
	assert.Equal(t, int64(2), c.Stats().Hits)
}

func TestDefaultJobs(t *testing.T) {
	assert.Equal(t, runtime.NumCPU(), New(newLoader(t), nil, Options{}).Jobs())
	assert.Equal(t, 3, New(newLoader(t), nil, Options{Jobs: 3}).Jobs())
}

func TestNonEmpty(t *testing.T) {
	stmts := sql.Split("SELECT 1; ; /* c */")
	got := NonEmpty(stmts)
	require.Len(t, got, 1)
	assert.Len(t, stmts, 3)
}
