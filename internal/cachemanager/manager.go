package cachemanager

// CacheManager is a typed key/value cache.
type CacheManager[K ~string, V any] interface {
	Get(key K) (V, bool)
	Set(key K, value V)
	Delete(keys ...K)
	Flush()
	Len() int
}
