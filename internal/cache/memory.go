package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache implements in-memory memoization with expiry
type MemoryCache struct {
	cache *gocache.Cache
}

// NewMemoryCache creates a new memory cache. A non-positive ttl keeps
// entries until Clear.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	if ttl <= 0 {
		return &MemoryCache{cache: gocache.New(gocache.NoExpiration, 0)}
	}
	return &MemoryCache{cache: gocache.New(ttl, 2*ttl)}
}

// Get retrieves an entry from the cache
func (c *MemoryCache) Get(key string) (Entry, bool) {
	if val, found := c.cache.Get(key); found {
		return val.(Entry), true
	}
	return Entry{}, false
}

// Set stores an entry with the default TTL
func (c *MemoryCache) Set(key string, entry Entry) {
	c.cache.SetDefault(key, entry)
}

// Len returns the number of cached entries, including expired ones not yet purged
func (c *MemoryCache) Len() int {
	return c.cache.ItemCount()
}

// Clear removes all entries
func (c *MemoryCache) Clear() {
	c.cache.Flush()
}
