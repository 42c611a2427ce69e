// Package cachemanager provides typed in-memory caches over go-cache.
package cachemanager

import (
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/zjrosen/branchdiff/internal/log"
)

const DefaultExpiration = 10 * time.Minute
const DefaultCleanupInterval = 30 * time.Minute

// NewInMemoryCacheManager creates a cache whose entries expire after
// defaultExpiration. useCase names the cache in log lines.
func NewInMemoryCacheManager[K ~string, V any](useCase string, logger *log.Logger, defaultExpiration, cleanupInterval time.Duration) *InMemoryCacheManager[K, V] {
	return &InMemoryCacheManager[K, V]{
		useCase: useCase,
		cache:   gocache.New(defaultExpiration, cleanupInterval),
		logger:  logger,
	}
}

// InMemoryCacheManager is the concrete implementation of the CacheManager interface
type InMemoryCacheManager[K ~string, V any] struct {
	useCase string
	cache   *gocache.Cache
	logger  *log.Logger
}

// Get retrieves an item from the cache by its key
func (c *InMemoryCacheManager[K, V]) Get(key K) (V, bool) {
	var zeroValue V

	value, found := c.cache.Get(string(key))
	if !found {
		return zeroValue, false
	}

	v, ok := value.(V)
	if !ok {
		c.logger.Error(log.CatCache, "wrong type assertion when getting value", "cache", c.useCase, "key", string(key))
		return zeroValue, false
	}
	return v, true
}

// Set stores value under key with the default expiration.
func (c *InMemoryCacheManager[K, V]) Set(key K, value V) {
	c.cache.SetDefault(string(key), value)
}

// Delete removes keys from the cache.
func (c *InMemoryCacheManager[K, V]) Delete(keys ...K) {
	for _, key := range keys {
		c.cache.Delete(string(key))
	}
}

// Flush removes every entry.
func (c *InMemoryCacheManager[K, V]) Flush() {
	c.logger.Debug(log.CatCache, "flush", "cache", c.useCase, "items", c.cache.ItemCount())
	c.cache.Flush()
}

// Len is the number of entries, expired ones included until cleanup runs.
func (c *InMemoryCacheManager[K, V]) Len() int {
	return c.cache.ItemCount()
}
