// Package store implements the document store: per-country category
// maps persisted to JSON files with a TTL snapshot cache in front.
package store

import (
	"sync"
	"time"
)

// cacheKeyAll is the synthetic key for the aggregate snapshot covering
// every country.
const cacheKeyAll = "all"

// snapshotCache is the in-process TTL cache. Keys are country names plus
// the synthetic "all" key. There is no sweeper: an entry past its TTL is
// simply invisible and gets overwritten by the next successful load.
type snapshotCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]cacheEntry
}

type cacheEntry struct {
	value      any
	capturedAt time.Time
}

func newSnapshotCache(ttl time.Duration, now func() time.Time) *snapshotCache {
	return &snapshotCache{
		ttl:     ttl,
		now:     now,
		entries: make(map[string]cacheEntry),
	}
}

// get returns the cached value only while its age is under the TTL.
func (c *snapshotCache) get(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok || c.now().Sub(e.capturedAt) >= c.ttl {
		return nil, false
	}
	return e.value, true
}

// put stores a value stamped with the current time.
func (c *snapshotCache) put(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = cacheEntry{value: value, capturedAt: c.now()}
}

// invalidate removes an entry unconditionally.
func (c *snapshotCache) invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)
}
