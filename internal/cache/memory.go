package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache holds recent analysis envelopes in process memory. Values are
// copied on the way in and out: cached envelopes stay immutable like the
// analyses they encode, whatever callers do with the returned bytes.
type MemoryCache struct {
	store *gocache.Cache
}

// NewMemoryCache creates a new memory cache
func NewMemoryCache(defaultTTL time.Duration, cleanupInterval time.Duration) *MemoryCache {
	return &MemoryCache{
		store: gocache.New(defaultTTL, cleanupInterval),
	}
}

// Get retrieves a copy of the cached envelope
func (c *MemoryCache) Get(key string) ([]byte, bool) {
	val, found := c.store.Get(key)
	if !found {
		return nil, false
	}
	data := val.([]byte)
	out := make([]byte, len(data))
	copy(out, data)
	return out, true
}

// Set stores a copy of the envelope. ttl 0 falls back to the cache default.
func (c *MemoryCache) Set(key string, value []byte, ttl time.Duration) error {
	if ttl == 0 {
		ttl = gocache.DefaultExpiration
	}
	stored := make([]byte, len(value))
	copy(stored, value)
	c.store.Set(key, stored, ttl)
	return nil
}

// Delete removes one entry
func (c *MemoryCache) Delete(key string) error {
	c.store.Delete(key)
	return nil
}

// Clear removes every cached entry
func (c *MemoryCache) Clear() error {
	c.store.Flush()
	return nil
}
