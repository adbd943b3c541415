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
Package cache keeps recent split results so unchanged scripts are not
tokenized twice.

Split Cache Overview:
=====================

The watch command re-reads a file on every write event, and editors often
write the same content several times in a row. The shell re-splits its
whole buffer after each line. Both look results up here first.

Entries are keyed by dialect and a digest of the script text, so a renamed
file with the same content still hits, and the same text under another
dialect does not.

Features:
=========

  - LRU eviction when the cache is full
  - Optional TTL expiration, checked on access
  - Invalidation of every entry recorded for a source path
  - Thread-safe operations

Usage Example:
==============

	c := cache.New(cache.Config{MaxEntries: 128, Enabled: true})

	stmts, hit := c.Split(splitter, "postgresql", text, "schema.sql")

Returned statement slices are shared between callers and must not be
modified.
*/
package cache

import (
	"container/list"
	"strconv"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"

	"sqlsplit/internal/sql"
)

// Config holds the configuration for the split cache.
type Config struct {
	// MaxEntries is the maximum number of cached scripts.
	// When exceeded, the least recently used entries are evicted.
	MaxEntries int

	// TTL is the time-to-live for cached entries. Zero means entries only
	// leave the cache by eviction or invalidation.
	TTL time.Duration

	// Enabled controls whether caching is active.
	Enabled bool
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		MaxEntries: 128,
		Enabled:    true,
	}
}

// Key returns the cache key for text split under dialect. Entries also
// keep their text, so two scripts sharing a key never share statements.
func Key(dialect, text string) string {
	return dialect + ":" + strconv.Itoa(len(text)) + ":" + strconv.FormatUint(xxhash.Sum64String(text), 16)
}

type entry struct {
	key        string
	text       string
	statements []sql.Statement
	sources    map[string]struct{}
	expiresAt  time.Time
	element    *list.Element
}

// SplitCache caches split results with LRU eviction.
type SplitCache struct {
	config Config

	mu sync.Mutex

	entries map[string]*entry
	lru     *list.List

	// sourceIndex maps a source path to the keys recorded for it.
	sourceIndex map[string]map[string]struct{}

	hits   int64
	misses int64
}

// New creates a SplitCache with the given configuration.
func New(config Config) *SplitCache {
	if config.MaxEntries <= 0 {
		config.MaxEntries = DefaultConfig().MaxEntries
	}
	return &SplitCache{
		config:      config,
		entries:     make(map[string]*entry),
		lru:         list.New(),
		sourceIndex: make(map[string]map[string]struct{}),
	}
}

// Get returns the cached statements for text under dialect.
func (c *SplitCache) Get(dialect, text string) ([]sql.Statement, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.config.Enabled {
		return nil, false
	}

	e, ok := c.entries[Key(dialect, text)]
	if !ok || e.text != text {
		c.misses++
		return nil, false
	}
	if c.expired(e, time.Now()) {
		c.removeEntry(e)
		c.misses++
		return nil, false
	}

	c.lru.MoveToFront(e.element)
	c.hits++
	return e.statements, true
}

// Put stores the statements for text under dialect. A non-empty source
// records where the text came from for Invalidate.
func (c *SplitCache) Put(dialect, text, source string, statements []sql.Statement) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.config.Enabled {
		return
	}

	key := Key(dialect, text)
	e, ok := c.entries[key]
	if ok {
		e.text = text
		e.statements = statements
		e.expiresAt = c.deadline()
		c.lru.MoveToFront(e.element)
	} else {
		for len(c.entries) >= c.config.MaxEntries {
			c.evictOldest()
		}
		e = &entry{
			key:        key,
			text:       text,
			statements: statements,
			sources:    make(map[string]struct{}),
			expiresAt:  c.deadline(),
		}
		e.element = c.lru.PushFront(e)
		c.entries[key] = e
	}

	if source != "" {
		e.sources[source] = struct{}{}
		if c.sourceIndex[source] == nil {
			c.sourceIndex[source] = make(map[string]struct{})
		}
		c.sourceIndex[source][key] = struct{}{}
	}
}

// Split returns the cached statements for text, splitting and storing them
// on a miss. The second result reports a hit.
func (c *SplitCache) Split(s *sql.Splitter, dialect, text, source string) ([]sql.Statement, bool) {
	if stmts, ok := c.Get(dialect, text); ok {
		return stmts, true
	}
	stmts := s.Split(text)
	c.Put(dialect, text, source, stmts)
	return stmts, false
}

// Invalidate removes every entry recorded for source and returns how many
// were dropped.
func (c *SplitCache) Invalidate(source string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys, ok := c.sourceIndex[source]
	if !ok {
		return 0
	}

	n := 0
	for key := range keys {
		if e, ok := c.entries[key]; ok {
			c.removeEntry(e)
			n++
		}
	}
	delete(c.sourceIndex, source)
	return n
}

// Clear empties the cache. Statistics are kept.
func (c *SplitCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*entry)
	c.lru = list.New()
	c.sourceIndex = make(map[string]map[string]struct{})
}

func (c *SplitCache) deadline() time.Time {
	if c.config.TTL <= 0 {
		return time.Time{}
	}
	return time.Now().Add(c.config.TTL)
}

func (c *SplitCache) expired(e *entry, now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// removeEntry must be called with the lock held.
func (c *SplitCache) removeEntry(e *entry) {
	delete(c.entries, e.key)
	c.lru.Remove(e.element)

	for source := range e.sources {
		if keys, ok := c.sourceIndex[source]; ok {
			delete(keys, e.key)
			if len(keys) == 0 {
				delete(c.sourceIndex, source)
			}
		}
	}
}

// evictOldest must be called with the lock held.
func (c *SplitCache) evictOldest() {
	elem := c.lru.Back()
	if elem == nil {
		return
	}
	c.removeEntry(elem.Value.(*entry))
}

// Stats holds cache statistics.
type Stats struct {
	Hits       int64
	Misses     int64
	Entries    int
	MaxEntries int
	HitRate    float64
}

// Stats returns current cache statistics.
func (c *SplitCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := c.hits + c.misses
	hitRate := 0.0
	if total > 0 {
		hitRate = float64(c.hits) / float64(total)
	}

	return Stats{
		Hits:       c.hits,
		Misses:     c.misses,
		Entries:    len(c.entries),
		MaxEntries: c.config.MaxEntries,
		HitRate:    hitRate,
	}
}

// SetEnabled enables or disables the cache.
func (c *SplitCache) SetEnabled(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.config.Enabled = enabled
}
