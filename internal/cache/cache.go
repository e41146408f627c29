// Package cache provides the LRU caches that keep pane redraws cheap:
// stat-derived file info and loaded icon previews.
package cache

import (
	"container/list"
	"strings"
	"sync"
	"time"
)

// Getter computes a fresh value for a key on cache miss.
type Getter func(key string) (interface{}, error)

type entry struct {
	key      string
	value    interface{}
	storedAt time.Time
}

// LRU is a string-keyed cache with TTL expiry and least-recently-used
// eviction. A zero TTL disables expiry. Safe for concurrent use.
//
// There is no consistency guarantee with the underlying filesystem beyond
// the TTL window; callers invalidate after mutating paths (or attach a
// Watcher).
type LRU struct {
	mu      sync.Mutex
	maxSize int
	ttl     time.Duration
	order   *list.List               // Front = most recently used
	index   map[string]*list.Element // key -> element holding *entry
	hits    int64
	misses  int64

	// now is swappable for TTL tests
	now func() time.Time
}

// NewLRU creates a cache holding at most maxSize entries, each valid for ttl.
func NewLRU(maxSize int, ttl time.Duration) *LRU {
	if maxSize <= 0 {
		maxSize = 1
	}
	return &LRU{
		maxSize: maxSize,
		ttl:     ttl,
		order:   list.New(),
		index:   make(map[string]*list.Element),
		now:     time.Now,
	}
}

// Get returns the cached value for key, calling getter on miss or expiry and
// caching its result. Getter errors are returned without caching.
func (c *LRU) Get(key string, getter Getter) (interface{}, error) {
	c.mu.Lock()
	if el, ok := c.index[key]; ok {
		ent := el.Value.(*entry)
		if c.ttl == 0 || c.now().Sub(ent.storedAt) < c.ttl {
			c.order.MoveToFront(el)
			c.hits++
			v := ent.value
			c.mu.Unlock()
			return v, nil
		}
		// Expired
		c.order.Remove(el)
		delete(c.index, key)
	}
	c.misses++
	c.mu.Unlock()

	// Compute outside the lock; a concurrent Get for the same key may
	// duplicate work but never blocks the cache.
	value, err := getter(key)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.put(key, value)
	c.mu.Unlock()
	return value, nil
}

// Peek returns the cached value without refreshing it or counting stats.
func (c *LRU) Peek(key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.index[key]
	if !ok {
		return nil, false
	}
	ent := el.Value.(*entry)
	if c.ttl != 0 && c.now().Sub(ent.storedAt) >= c.ttl {
		return nil, false
	}
	return ent.value, true
}

// Put stores a value directly, replacing any existing entry.
func (c *LRU) Put(key string, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.put(key, value)
}

// put inserts with LRU eviction. Caller holds the lock.
func (c *LRU) put(key string, value interface{}) {
	if el, ok := c.index[key]; ok {
		c.order.Remove(el)
		delete(c.index, key)
	}
	el := c.order.PushFront(&entry{key: key, value: value, storedAt: c.now()})
	c.index[key] = el

	for c.order.Len() > c.maxSize {
		oldest := c.order.Back()
		if oldest == nil {
			break
		}
		c.order.Remove(oldest)
		delete(c.index, oldest.Value.(*entry).key)
	}
}

// Invalidate removes a single key.
func (c *LRU) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.index[key]; ok {
		c.order.Remove(el)
		delete(c.index, key)
	}
}

// InvalidatePrefix removes every key with the given prefix. Used to drop all
// cached entries under a directory after it changes.
func (c *LRU) InvalidatePrefix(prefix string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key, el := range c.index {
		if strings.HasPrefix(key, prefix) {
			c.order.Remove(el)
			delete(c.index, key)
			removed++
		}
	}
	return removed
}

// Clear drops every entry and resets the hit/miss counters.
func (c *LRU) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.order.Init()
	c.index = make(map[string]*list.Element)
	c.hits = 0
	c.misses = 0
}

// Len returns the number of live entries.
func (c *LRU) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Stats describes cache effectiveness.
type Stats struct {
	Size    int
	MaxSize int
	Hits    int64
	Misses  int64
}

// HitRate returns hits/(hits+misses) as a percentage, 0 with no lookups.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total) * 100
}

// Stats returns a snapshot of the cache counters.
func (c *LRU) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Size:    c.order.Len(),
		MaxSize: c.maxSize,
		Hits:    c.hits,
		Misses:  c.misses,
	}
}
