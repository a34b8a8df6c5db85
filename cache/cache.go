// Package cache holds per-table snapshots of the row store so live
// selling does not hammer the sheet API on every read. Snapshots are
// stale-but-bounded: a short TTL covers tables that change during the
// event, and writers invalidate explicitly so the next read is fresh.
package cache

import (
	"context"
	"sync"
	"time"
)

// FetchFunc loads the current rows of a table from the backing store.
type FetchFunc func(ctx context.Context) ([][]string, error)

type entry struct {
	rows     [][]string
	cachedAt time.Time
}

// TableCache is a fetch-through snapshot cache with a per-table TTL.
// The zero TTL map falls back to DefaultTTL for every table.
type TableCache struct {
	DefaultTTL time.Duration
	TTLs       map[string]time.Duration

	now func() time.Time

	mu      sync.Mutex
	entries map[string]entry
}

// New creates a cache with the given default TTL. Per-table overrides
// go in TTLs before first use.
func New(defaultTTL time.Duration) *TableCache {
	return &TableCache{
		DefaultTTL: defaultTTL,
		TTLs:       make(map[string]time.Duration),
		now:        time.Now,
		entries:    make(map[string]entry),
	}
}

// SetClock replaces the time source, for tests.
func (c *TableCache) SetClock(now func() time.Time) { c.now = now }

func (c *TableCache) ttl(table string) time.Duration {
	if ttl, ok := c.TTLs[table]; ok {
		return ttl
	}
	return c.DefaultTTL
}

// Get returns the cached snapshot when it is younger than the table's
// TTL, fetching and caching otherwise. A failed fetch propagates and
// leaves any previous (expired) entry dropped; an empty table and a
// failed fetch are different outcomes and must stay distinguishable.
func (c *TableCache) Get(ctx context.Context, table string, fetch FetchFunc) ([][]string, error) {
	c.mu.Lock()
	if e, ok := c.entries[table]; ok && c.now().Sub(e.cachedAt) < c.ttl(table) {
		rows := e.rows
		c.mu.Unlock()
		return rows, nil
	}
	delete(c.entries, table)
	c.mu.Unlock()

	// Fetch outside the lock so a slow table never blocks reads of
	// another table.
	rows, err := fetch(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[table] = entry{rows: rows, cachedAt: c.now()}
	c.mu.Unlock()
	return rows, nil
}

// Invalidate drops the table's snapshot unconditionally. Every
// successful write must call this before reporting success.
func (c *TableCache) Invalidate(table string) {
	c.mu.Lock()
	delete(c.entries, table)
	c.mu.Unlock()
}
