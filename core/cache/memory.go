package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

type memoryCache struct {
	store *gocache.Cache
}

// NewMemoryCache returns a process-local cache. Expired entries are purged
// every cleanupInterval.
func NewMemoryCache(cleanupInterval time.Duration) Cache {
	return &memoryCache{store: gocache.New(gocache.NoExpiration, cleanupInterval)}
}

func (c *memoryCache) Get(_ context.Context, key string) (string, bool, error) {
	v, ok := c.store.Get(key)
	if !ok {
		return "", false, nil
	}
	s, ok := v.(string)
	return s, ok, nil
}

func (c *memoryCache) Set(_ context.Context, key string, value string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	c.store.Set(key, value, ttl)
	return nil
}

func (c *memoryCache) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		c.store.Delete(k)
	}
	return nil
}

func (c *memoryCache) Close() error {
	c.store.Flush()
	return nil
}
