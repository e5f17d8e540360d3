// Package cache provides the bounded fingerprint-keyed result cache
// for the compilation service. Eviction is strictly
// oldest-insertion-first; access recency never reorders entries.
package cache

import (
	"sync"
	"sync/atomic"
)

// Stats is the observability snapshot for one cache.
type Stats struct {
	Size      int    `json:"size"`
	Hits      uint64 `json:"hits"`
	Misses    uint64 `json:"misses"`
	Evictions uint64 `json:"evictions"`
}

// Cache is a capacity-bounded map with FIFO eviction. Concurrent
// readers never observe a partial entry; racing writers of the same
// key resolve last-writer-wins. Zero or negative capacity disables
// bounding.
type Cache[V any] struct {
	mu       sync.RWMutex
	capacity int
	entries  map[string]V
	order    []string // insertion order, oldest first

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

func New[V any](capacity int) *Cache[V] {
	return &Cache[V]{
		capacity: capacity,
		entries:  make(map[string]V),
	}
}

// Get returns the value stored under key and records a hit or miss.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	v, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return v, ok
}

// Put stores value under key. Re-putting an existing key overwrites
// the value but keeps the key's original eviction position. When the
// cache is full, the oldest-inserted entry is evicted atomically with
// the insertion.
func (c *Cache[V]) Put(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.entries[key]; exists {
		c.entries[key] = value
		return
	}
	if c.capacity > 0 && len(c.entries) >= c.capacity {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
		c.evictions.Add(1)
	}
	c.entries[key] = value
	c.order = append(c.order, key)
}

// Len returns the number of stored entries.
func (c *Cache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Clear drops every stored entry. Hit and miss counters survive so
// rates stay meaningful across resets.
func (c *Cache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]V)
	c.order = nil
}

// Stats returns the current size and lifetime counters.
func (c *Cache[V]) Stats() Stats {
	c.mu.RLock()
	size := len(c.entries)
	c.mu.RUnlock()
	return Stats{
		Size:      size,
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
	}
}
