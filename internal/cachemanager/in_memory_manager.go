package cachemanager

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/zjrosen/bpgroup/internal/log"
)

const DefaultExpiration = 10 * time.Minute
const DefaultCleanupInterval = 30 * time.Minute

// InMemoryCacheManager implements CacheManager on go-cache.
type InMemoryCacheManager[V any] struct {
	useCase string
	cache   *gocache.Cache
}

// NewInMemoryCacheManager creates a cache. useCase names it in logs.
func NewInMemoryCacheManager[V any](useCase string, defaultExpiration, cleanupInterval time.Duration) *InMemoryCacheManager[V] {
	return &InMemoryCacheManager[V]{
		useCase: useCase,
		cache:   gocache.New(defaultExpiration, cleanupInterval),
	}
}

// Get retrieves an item by key.
func (c *InMemoryCacheManager[V]) Get(ctx context.Context, key string) (V, bool) {
	var zero V

	value, found := c.cache.Get(key)
	if !found {
		log.Debug(log.CatCache, "cache miss", "cache", c.useCase, "key", key)
		return zero, false
	}

	v, ok := value.(V)
	if !ok {
		log.Error(log.CatCache, "wrong type assertion when getting value", "cache", c.useCase, "key", key)
		return zero, false
	}

	log.Debug(log.CatCache, "cache hit", "cache", c.useCase, "key", key)
	return v, true
}

// Set stores value under key. A zero ttl uses the cache default.
func (c *InMemoryCacheManager[V]) Set(ctx context.Context, key string, value V, ttl time.Duration) {
	if ttl == 0 {
		ttl = gocache.DefaultExpiration
	}
	c.cache.Set(key, value, ttl)
}

// Delete removes keys.
func (c *InMemoryCacheManager[V]) Delete(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		c.cache.Delete(key)
	}
	return nil
}

// Flush removes every item.
func (c *InMemoryCacheManager[V]) Flush(ctx context.Context) error {
	c.cache.Flush()
	return nil
}

// Len returns the number of items, including expired ones not yet
// cleaned up.
func (c *InMemoryCacheManager[V]) Len() int {
	return c.cache.ItemCount()
}
