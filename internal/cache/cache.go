// Package cache provides the bounded LRU cache used for rendered looks.
//
//	c := cache.New[key, *gg.Pixmap](16)
//	img, err := c.GetOrCreate(k, func() (*gg.Pixmap, error) { return render(k) })
//
// LRU is safe for concurrent use and must not be copied after creation.
package cache

import "sync"

// LRU is a thread-safe cache holding at most Capacity entries. Inserting past
// capacity evicts the least recently used entry.
type LRU[K comparable, V any] struct {
	mu       sync.Mutex
	entries  map[K]*lruNode[K, V]
	order    lruList[K, V]
	capacity int

	hits      uint64
	misses    uint64
	evictions uint64
}

// New creates a cache holding up to capacity entries.
// A capacity below 1 is treated as 1.
func New[K comparable, V any](capacity int) *LRU[K, V] {
	if capacity < 1 {
		capacity = 1
	}
	return &LRU[K, V]{
		entries:  make(map[K]*lruNode[K, V], capacity),
		capacity: capacity,
	}
}

// GetOrCreate returns the cached value or stores the result of create.
// create runs under the lock, so concurrent callers never build the same
// entry twice.
func (c *LRU[K, V]) GetOrCreate(key K, create func() (V, error)) (V, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if node, ok := c.entries[key]; ok {
		c.hits++
		c.order.moveToFront(node)
		return node.value, nil
	}
	c.misses++
	value, err := create()
	if err != nil {
		return value, err
	}
	c.set(key, value)
	return value, nil
}

// Delete removes key. Returns true if it was present.
func (c *LRU[K, V]) Delete(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	node, ok := c.entries[key]
	if !ok {
		return false
	}
	c.order.unlink(node)
	delete(c.entries, key)
	return true
}

// Stats returns a snapshot of the cache counters.
func (c *LRU[K, V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Stats{
		Len:       len(c.entries),
		Capacity:  c.capacity,
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
	}
	if total := c.hits + c.misses; total > 0 {
		s.HitRate = float64(c.hits) / float64(total)
	}
	return s
}

// set inserts a missing key and evicts past capacity. Caller must hold c.mu.
func (c *LRU[K, V]) set(key K, value V) {
	node := &lruNode[K, V]{key: key, value: value}
	c.entries[key] = node
	c.order.pushFront(node)

	for c.order.len > c.capacity {
		old := c.order.removeOldest()
		delete(c.entries, old.key)
		c.evictions++
	}
}

// Stats contains cache statistics.
type Stats struct {
	// Len is the current number of entries.
	Len int
	// Capacity is the maximum number of entries.
	Capacity int
	// Hits is the number of lookups served from the cache.
	Hits uint64
	// Misses is the number of lookups that found nothing.
	Misses uint64
	// HitRate is Hits / (Hits + Misses), 0 before the first lookup.
	HitRate float64
	// Evictions counts entries dropped for capacity.
	Evictions uint64
}
