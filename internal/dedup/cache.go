// Package dedup provides a bounded, expiring set of recently seen URLs.
//
// The cache is a best-effort throughput optimization for the ingestion
// path, not a correctness guarantee: the vector store upsert is itself
// idempotent, so a URL slipping through twice only costs redundant work.
package dedup

import (
	"sync"
	"time"
)

// Cache tracks recently seen URLs. Safe for concurrent use.
//
// Eviction is a full clear, not LRU: it happens when the entry count
// exceeds the capacity or when the expiry window since the last clear
// elapses, whichever comes first. Duplicates beyond the cap are rare
// enough that the simple policy wins.
type Cache struct {
	mu        sync.Mutex
	seen      map[string]struct{}
	capacity  int
	window    time.Duration
	lastClear time.Time
	now       func() time.Time
}

// New creates a cache with the given capacity and expiry window.
// Non-positive values fall back to 1000 entries and 15 minutes.
func New(capacity int, window time.Duration) *Cache {
	if capacity <= 0 {
		capacity = 1000
	}
	if window <= 0 {
		window = 15 * time.Minute
	}
	return &Cache{
		seen:      make(map[string]struct{}),
		capacity:  capacity,
		window:    window,
		lastClear: time.Now(),
		now:       time.Now,
	}
}

// Seen records url and reports whether it was already present within the
// current window. The check and insert run under one lock so concurrent
// callers cannot corrupt the set.
func (c *Cache) Seen(url string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.now().Sub(c.lastClear) >= c.window {
		c.clearLocked()
	}

	if _, ok := c.seen[url]; ok {
		return true
	}

	c.seen[url] = struct{}{}
	if len(c.seen) > c.capacity {
		c.clearLocked()
		c.seen[url] = struct{}{}
	}
	return false
}

// Len returns the current number of tracked URLs.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.seen)
}

func (c *Cache) clearLocked() {
	c.seen = make(map[string]struct{})
	c.lastClear = c.now()
}
