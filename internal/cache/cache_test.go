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

package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"sqlsplit/internal/sql"
)

func TestSplitCacheBasic(t *testing.T) {
	c := New(Config{MaxEntries: 100, Enabled: true})

	stmts := sql.Split("SELECT 1; SELECT 2;")
	c.Put("postgresql", "SELECT 1; SELECT 2;", "a.sql", stmts)

	got, ok := c.Get("postgresql", "SELECT 1; SELECT 2;")
	if !ok {
		t.Fatal("Expected cache hit")
	}
	if len(got) != 2 {
		t.Errorf("Expected 2 statements, got %d", len(got))
	}

	// Same text, other dialect.
	if _, ok := c.Get("mysql", "SELECT 1; SELECT 2;"); ok {
		t.Error("Expected cache miss for another dialect")
	}
	if _, ok := c.Get("postgresql", "SELECT 3;"); ok {
		t.Error("Expected cache miss for other text")
	}
}

func TestSplitCacheKeyCollision(t *testing.T) {
	c := New(Config{MaxEntries: 100, Enabled: true})
	c.Put("postgresql", "SELECT 1;", "", sql.Split("SELECT 1;"))

	// Make "SELECT 2;" hash to the entry stored for "SELECT 1;".
	c.mu.Lock()
	c.entries[Key("postgresql", "SELECT 2;")] = c.entries[Key("postgresql", "SELECT 1;")]
	c.mu.Unlock()

	if _, ok := c.Get("postgresql", "SELECT 2;"); ok {
		t.Fatal("Expected cache miss for colliding key with other text")
	}
	got, hit := c.Split(sql.NewSplitter(sql.PostgreSQL), "postgresql", "SELECT 2;", "")
	if hit {
		t.Error("Expected Split to re-split on a colliding key")
	}
	if len(got) != 1 || got[0].Text() != "SELECT 2;" {
		t.Errorf("Expected statements of SELECT 2, got %v", got)
	}
}

func TestSplitCacheSplit(t *testing.T) {
	c := New(DefaultConfig())
	s := sql.NewSplitter(nil)

	first, hit := c.Split(s, "postgresql", "SELECT 1", "a.sql")
	if hit {
		t.Error("Expected miss on first split")
	}
	second, hit := c.Split(s, "postgresql", "SELECT 1", "b.sql")
	if !hit {
		t.Error("Expected hit on identical content")
	}
	if len(first) != 1 || len(second) != 1 || !second[0].NeedsTerminator {
		t.Errorf("Unexpected statements: %v / %v", first, second)
	}
}

func TestSplitCacheInvalidation(t *testing.T) {
	c := New(Config{MaxEntries: 100, Enabled: true})

	c.Put("postgresql", "SELECT 1;", "a.sql", nil)
	c.Put("postgresql", "SELECT 2;", "a.sql", nil)
	c.Put("postgresql", "SELECT 3;", "b.sql", nil)
	// Shared content recorded for both files.
	c.Put("postgresql", "SELECT 4;", "a.sql", nil)
	c.Put("postgresql", "SELECT 4;", "b.sql", nil)

	if n := c.Invalidate("a.sql"); n != 3 {
		t.Errorf("Expected 3 entries invalidated, got %d", n)
	}

	for _, text := range []string{"SELECT 1;", "SELECT 2;", "SELECT 4;"} {
		if _, ok := c.Get("postgresql", text); ok {
			t.Errorf("Expected miss for %q after invalidation", text)
		}
	}
	if _, ok := c.Get("postgresql", "SELECT 3;"); !ok {
		t.Error("Expected entry of b.sql to survive")
	}

	// The shared entry left b.sql's index too.
	if n := c.Invalidate("b.sql"); n != 1 {
		t.Errorf("Expected 1 entry invalidated for b.sql, got %d", n)
	}
	if n := c.Invalidate("missing.sql"); n != 0 {
		t.Errorf("Expected nothing invalidated, got %d", n)
	}
}

func TestSplitCacheLRUEviction(t *testing.T) {
	c := New(Config{MaxEntries: 3, Enabled: true})

	c.Put("g", "q1", "", nil)
	c.Put("g", "q2", "", nil)
	c.Put("g", "q3", "", nil)

	// Access q1 to make it recently used.
	c.Get("g", "q1")

	// Should evict q2 (least recently used).
	c.Put("g", "q4", "", nil)

	if _, ok := c.Get("g", "q2"); ok {
		t.Error("Expected q2 to be evicted")
	}
	if _, ok := c.Get("g", "q1"); !ok {
		t.Error("Expected q1 to still be cached")
	}
	if stats := c.Stats(); stats.Entries != 3 {
		t.Errorf("Expected 3 entries, got %d", stats.Entries)
	}
}

func TestSplitCacheTTL(t *testing.T) {
	c := New(Config{MaxEntries: 10, TTL: 20 * time.Millisecond, Enabled: true})

	c.Put("g", "SELECT 1;", "", nil)
	if _, ok := c.Get("g", "SELECT 1;"); !ok {
		t.Fatal("Expected hit before expiry")
	}

	time.Sleep(40 * time.Millisecond)

	if _, ok := c.Get("g", "SELECT 1;"); ok {
		t.Error("Expected miss after expiry")
	}
	if stats := c.Stats(); stats.Entries != 0 {
		t.Errorf("Expected expired entry removed, got %d entries", stats.Entries)
	}
}

func TestSplitCacheDisabled(t *testing.T) {
	c := New(Config{MaxEntries: 100, Enabled: false})

	c.Put("g", "SELECT 1;", "", nil)
	if _, ok := c.Get("g", "SELECT 1;"); ok {
		t.Error("Expected cache miss when disabled")
	}

	c.SetEnabled(true)
	c.Put("g", "SELECT 1;", "", nil)
	if _, ok := c.Get("g", "SELECT 1;"); !ok {
		t.Error("Expected cache hit after enabling")
	}
}

func TestSplitCacheStats(t *testing.T) {
	c := New(Config{MaxEntries: 100, Enabled: true})

	c.Put("g", "q1", "", nil)
	c.Get("g", "q1")
	c.Get("g", "q2")

	stats := c.Stats()
	if stats.Hits != 1 {
		t.Errorf("Expected 1 hit, got %d", stats.Hits)
	}
	if stats.Misses != 1 {
		t.Errorf("Expected 1 miss, got %d", stats.Misses)
	}
	if stats.HitRate != 0.5 {
		t.Errorf("Expected hit rate 0.5, got %f", stats.HitRate)
	}

	c.Clear()
	if stats := c.Stats(); stats.Entries != 0 || stats.Hits != 1 {
		t.Errorf("Expected empty cache with stats kept, got %+v", stats)
	}
}

func TestSplitCacheConcurrent(t *testing.T) {
	c := New(Config{MaxEntries: 8, Enabled: true})
	s := sql.NewSplitter(nil)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				text := fmt.Sprintf("SELECT %d;", (g+i)%12)
				stmts, _ := c.Split(s, "postgresql", text, fmt.Sprintf("f%d.sql", g))
				if len(stmts) != 1 || stmts[0].Text() != text {
					t.Errorf("Unexpected result for %q", text)
				}
			}
		}(g)
	}
	wg.Wait()

	if stats := c.Stats(); stats.Entries > 8 {
		t.Errorf("Expected at most 8 entries, got %d", stats.Entries)
	}
}

func TestKey(t *testing.T) {
	if Key("mysql", "SELECT 1") == Key("postgresql", "SELECT 1") {
		t.Error("Expected dialect to be part of the key")
	}
	if Key("mysql", "SELECT 1") != Key("mysql", "SELECT 1") {
		t.Error("Expected stable keys")
	}
}
