package main

import "time"

// CacheEntry pairs a cached value with its expiry timestamp.
type CacheEntry struct {
	Value     interface{}
	ExpiresAt time.Time
}

// ResultCache is an in-process TTL cache. Expired entries are swept lazily on
// writes, not by a background timer. Not safe for concurrent use: callers
// sharing a cache across goroutines must synchronize externally.
type ResultCache struct {
	entries map[string]CacheEntry

	now func() time.Time
}

// NewResultCache creates an empty cache.
func NewResultCache() *ResultCache {
	return &ResultCache{
		entries: make(map[string]CacheEntry),
		now:     time.Now,
	}
}

// Put stores value under key with expiry now+ttl, first sweeping all entries
// that have already expired. An existing entry for key is overwritten.
func (c *ResultCache) Put(key string, value interface{}, ttl time.Duration) {
	c.sweep()
	c.entries[key] = CacheEntry{
		Value:     value,
		ExpiresAt: c.now().Add(ttl),
	}
}

// Get returns the cached value for key. A missing or expired entry is a miss;
// callers must treat both identically to "not yet computed".
func (c *ResultCache) Get(key string) (interface{}, bool) {
	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().After(entry.ExpiresAt) {
		return nil, false
	}
	return entry.Value, true
}

// Evict removes key immediately.
func (c *ResultCache) Evict(key string) {
	delete(c.entries, key)
}

// Len returns the number of stored entries, expired ones included.
func (c *ResultCache) Len() int {
	return len(c.entries)
}

// sweep deletes every entry whose expiry has passed.
func (c *ResultCache) sweep() {
	current := c.now()
	for key, entry := range c.entries {
		if current.After(entry.ExpiresAt) {
			delete(c.entries, key)
		}
	}
}
