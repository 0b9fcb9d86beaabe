package sheets

import (
	"sync"
	"time"
)

var nowFunc = time.Now

type cacheEntry struct {
	fetchedAt time.Time
	snapshot  *Snapshot
}

// Cache memoizes snapshots by load key. A zero TTL keeps entries until
// Invalidate is called.
type Cache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]cacheEntry
}

// NewCache creates an empty cache.
func NewCache(ttl time.Duration) *Cache {
	return &Cache{
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
	}
}

// Get returns the cached snapshot for key if present and not expired.
func (c *Cache) Get(key string) (*Snapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.ttl > 0 && nowFunc().Sub(entry.fetchedAt) >= c.ttl {
		return nil, false
	}
	return entry.snapshot, true
}

// Put stores snapshot under key.
func (c *Cache) Put(key string, snapshot *Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{fetchedAt: snapshot.FetchedAt, snapshot: snapshot}
}

// Invalidate drops every entry.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.entries)
}

// Len returns the number of entries, expired ones included.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
