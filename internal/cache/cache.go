// Package cache is a small keyed result cache with request deduplication.
// It backs the client's remote-state caching: manual get/set for optimistic
// updates and rollback, invalidate-by-key, and singleflight-coalesced loads.
package cache

import (
	"sync"

	"golang.org/x/sync/singleflight"
)

// Cache stores arbitrary values by key
type Cache struct {
	mu      sync.RWMutex
	entries map[string]interface{}
	group   singleflight.Group
}

// New creates an empty cache
func New() *Cache {
	return &Cache{entries: map[string]interface{}{}}
}

// Get returns the cached value for key
func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.entries[key]
	return v, ok
}

// Set stores value under key
func (c *Cache) Set(key string, value interface{}) {
	c.mu.Lock()
	c.entries[key] = value
	c.mu.Unlock()
}

// Invalidate removes key so the next Fetch reloads it
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// Fetch returns the cached value for key, loading it with fn on a miss.
// Concurrent fetches of the same key share a single load.
func (c *Cache) Fetch(key string, fn func() (interface{}, error)) (interface{}, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		// A concurrent Set may have landed while we queued
		if v, ok := c.Get(key); ok {
			return v, nil
		}

		v, err := fn()
		if err != nil {
			return nil, err
		}
		c.Set(key, v)
		return v, nil
	})
	return v, err
}
