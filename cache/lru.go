package cache

import (
	"container/list"
	"sync"
	"time"
)

// LRU is a capacity-bounded cache with least-recently-used eviction and an
// optional age sweep. Get promotes an entry to most-recently-used; Set on a
// new key evicts the least-recently-used entry once the cache is full. All
// operations are O(1) and safe for concurrent use.
type LRU[K comparable, V any] struct {
	mu       sync.Mutex
	capacity int
	entries  map[K]*list.Element
	order    *list.List
	onEvict  func(key K, value V)
}

type lruEntry[K comparable, V any] struct {
	key       K
	value     V
	createdAt time.Time
}

// NewLRU creates an LRU cache holding at most capacity entries. The optional
// onEvict callback fires for every entry removed by capacity eviction or age
// sweep, but not for explicit deletes.
func NewLRU[K comparable, V any](capacity int, onEvict func(key K, value V)) *LRU[K, V] {
	if capacity <= 0 {
		capacity = 100
	}
	return &LRU[K, V]{
		capacity: capacity,
		entries:  make(map[K]*list.Element, capacity),
		order:    list.New(),
		onEvict:  onEvict,
	}
}

// Get returns the value for key, promoting it to most-recently-used.
func (c *LRU[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	c.order.MoveToFront(elem)
	return elem.Value.(*lruEntry[K, V]).value, true
}

// Set stores a value. An existing key is updated in place and promoted; a new
// key evicts the least-recently-used entry if the cache is at capacity.
func (c *LRU[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[key]; ok {
		elem.Value.(*lruEntry[K, V]).value = value
		c.order.MoveToFront(elem)
		return
	}

	if c.order.Len() >= c.capacity {
		c.evictOldest()
	}

	elem := c.order.PushFront(&lruEntry[K, V]{
		key:       key,
		value:     value,
		createdAt: time.Now(),
	})
	c.entries[key] = elem
}

// Delete removes a key. Idempotent; the eviction callback does not fire.
func (c *LRU[K, V]) Delete(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[key]; ok {
		c.order.Remove(elem)
		delete(c.entries, key)
	}
}

// SweepOlderThan removes every entry created more than maxAge ago, regardless
// of how recently it was accessed. Returns the number of entries removed.
func (c *LRU[K, V]) SweepOlderThan(maxAge time.Duration) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	removed := 0

	// Age is creation order, which list recency does not preserve, so scan.
	for elem := c.order.Front(); elem != nil; {
		next := elem.Next()
		entry := elem.Value.(*lruEntry[K, V])
		if entry.createdAt.Before(cutoff) {
			c.order.Remove(elem)
			delete(c.entries, entry.key)
			if c.onEvict != nil {
				c.onEvict(entry.key, entry.value)
			}
			removed++
		}
		elem = next
	}
	return removed
}

// Len returns the number of entries.
func (c *LRU[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Keys returns all keys from most to least recently used.
func (c *LRU[K, V]) Keys() []K {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := make([]K, 0, c.order.Len())
	for elem := c.order.Front(); elem != nil; elem = elem.Next() {
		keys = append(keys, elem.Value.(*lruEntry[K, V]).key)
	}
	return keys
}

// Clear removes all entries without firing the eviction callback.
func (c *LRU[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[K]*list.Element, c.capacity)
	c.order.Init()
}

// evictOldest removes the least-recently-used entry. Callers must hold c.mu.
func (c *LRU[K, V]) evictOldest() {
	elem := c.order.Back()
	if elem == nil {
		return
	}
	entry := elem.Value.(*lruEntry[K, V])
	c.order.Remove(elem)
	delete(c.entries, entry.key)
	if c.onEvict != nil {
		c.onEvict(entry.key, entry.value)
	}
}
