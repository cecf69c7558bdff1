package texture

import (
	"path/filepath"
	"sync"
)

// Cache loads texture files once and hands out the shared result.
// Cached textures must be treated as read-only.
//
// When the cache holds more than its limit, the least recently used
// quarter is evicted. Failed loads are not cached.
//
// Cache is safe for concurrent use.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*cacheEntry
	limit   int
	tick    int64 // monotonic access counter

	hits, misses int
}

type cacheEntry struct {
	tex   *Texture
	atime int64
}

// NewCache returns a cache holding up to limit textures. A limit of 0
// means unlimited.
func NewCache(limit int) *Cache {
	return &Cache{
		entries: make(map[string]*cacheEntry),
		limit:   limit,
	}
}

// Load returns the texture at path, reading it on first use.
// The file is read under the cache lock so concurrent callers never
// decode the same file twice.
func (c *Cache) Load(path string) (*Texture, error) {
	key := filepath.Clean(path)
	if abs, err := filepath.Abs(key); err == nil {
		key = abs
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.tick++
	if e, ok := c.entries[key]; ok {
		e.atime = c.tick
		c.hits++
		return e.tex, nil
	}

	c.misses++
	t, err := Load(path)
	if err != nil {
		return nil, err
	}
	c.entries[key] = &cacheEntry{tex: t, atime: c.tick}
	if c.limit > 0 && len(c.entries) > c.limit {
		c.evict()
	}
	return t, nil
}

// Len returns the number of cached textures.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats returns the number of cache hits and misses so far.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

// evict drops the oldest entries until a quarter of the limit is free.
// Caller must hold c.mu.
func (c *Cache) evict() {
	target := max(c.limit*3/4, 1)
	for len(c.entries) > target {
		var oldest string
		var atime int64
		first := true
		for k, e := range c.entries {
			if first || e.atime < atime {
				oldest, atime, first = k, e.atime, false
			}
		}
		delete(c.entries, oldest)
	}
}
