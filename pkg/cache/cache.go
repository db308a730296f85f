package cache

import (
	"sync"
)

// Cache is a map guarded by a RWMutex. The zero value is not usable; use New.
type Cache[K comparable, V any] struct {
	entries map[K]V
	mu      sync.RWMutex
}

func New[K comparable, V any]() *Cache[K, V] {
	return &Cache[K, V]{
		entries: make(map[K]V),
	}
}

func (c *Cache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
}

// SetMany stores every entry of values under a single lock so readers never
// observe a partial write.
func (c *Cache[K, V]) SetMany(values map[K]V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, v := range values {
		c.entries[k] = v
	}
}

// Replace swaps the whole contents of the cache for values.
func (c *Cache[K, V]) Replace(values map[K]V) {
	next := make(map[K]V, len(values))
	for k, v := range values {
		next[k] = v
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = next
}

func (c *Cache[K, V]) Delete(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[key]
	return entry, ok
}

func (c *Cache[K, V]) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *Cache[K, V]) Keys() []K {
	c.mu.RLock()
	defer c.mu.RUnlock()
	keys := make([]K, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	return keys
}

// Snapshot returns a copy of the current contents.
func (c *Cache[K, V]) Snapshot() map[K]V {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[K]V, len(c.entries))
	for k, v := range c.entries {
		out[k] = v
	}
	return out
}
