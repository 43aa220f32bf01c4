// Package cache provides an in-process key/value store with per-entry expiry.
//
// Expiry is lazy: an entry is only removed when a Get finds it stale or when
// Clear is called. There is no capacity bound and no background sweeper, so
// memory grows with the number of distinct keys requested within one TTL
// window.
package cache

import (
	"sync"
	"time"
)

// DefaultTTL is used by New when a non-positive default is given
const DefaultTTL = 300 * time.Second

type entry struct {
	value     any
	expiresAt time.Time
}

// Cache stores opaque values under string keys. Callers know the concrete
// type stored under each key namespace and type-assert on Get.
//
// Cache is safe for concurrent use.
type Cache struct {
	mu         sync.Mutex
	entries    map[string]entry
	defaultTTL time.Duration
	now        func() time.Time
}

// New creates a cache whose Set uses defaultTTL
func New(defaultTTL time.Duration) *Cache {
	if defaultTTL <= 0 {
		defaultTTL = DefaultTTL
	}
	return &Cache{
		entries:    make(map[string]entry),
		defaultTTL: defaultTTL,
		now:        time.Now,
	}
}

// DefaultTTL returns the TTL applied by Set
func (c *Cache) DefaultTTL() time.Duration { return c.defaultTTL }

// Get returns the value stored under key. An entry is live while the current
// time is before its expiry; a stale entry is deleted and reported absent.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if !c.now().Before(e.expiresAt) {
		delete(c.entries, key)
		return nil, false
	}
	return e.value, true
}

// Set stores value under key with the default TTL, replacing any existing entry
func (c *Cache) Set(key string, value any) {
	c.SetWithTTL(key, value, c.defaultTTL)
}

// SetWithTTL stores value under key for ttl. A ttl of zero or less stores an
// entry that is already expired.
func (c *Cache) SetWithTTL(key string, value any, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry{value: value, expiresAt: c.now().Add(ttl)}
}

// Clear drops every entry
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	clear(c.entries)
}

// Len returns the number of stored entries, including stale ones not yet
// evicted by a Get.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}

// Has reports whether an entry for key is stored, without checking or
// evicting on expiry.
func (c *Cache) Has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, ok := c.entries[key]
	return ok
}
