// Package cache provides the read-path cache tiers for the data-access layer:
// a bounded in-memory TTL cache and a file-backed single-slot mirror that
// survives process restarts.
package cache

import (
	"fmt"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// entry wraps a cached value with its freshness bookkeeping.
type entry[V any] struct {
	value    V
	storedAt time.Time
	ttl      time.Duration
}

// TTLCache is a fixed-capacity LRU whose entries carry a freshness window.
// Entries past their window are not dropped; they remain readable through
// GetStale so the fallback tier can serve them when the store is unreachable.
//
// Thread-safe.
type TTLCache[V any] struct {
	lru        *lru.Cache[string, entry[V]]
	defaultTTL time.Duration
}

// NewTTL creates a cache with the given capacity and default freshness window.
func NewTTL[V any](capacity int, defaultTTL time.Duration) (*TTLCache[V], error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("cache: capacity must be positive, got %d", capacity)
	}
	if defaultTTL <= 0 {
		return nil, fmt.Errorf("cache: ttl must be positive, got %s", defaultTTL)
	}
	inner, err := lru.New[string, entry[V]](capacity)
	if err != nil {
		return nil, fmt.Errorf("cache: %w", err)
	}
	return &TTLCache[V]{lru: inner, defaultTTL: defaultTTL}, nil
}

// Set stores a value under the default freshness window.
func (c *TTLCache[V]) Set(key string, value V) {
	c.SetWithTTL(key, value, c.defaultTTL)
}

// SetWithTTL stores a value with an explicit freshness window.
func (c *TTLCache[V]) SetWithTTL(key string, value V, ttl time.Duration) {
	c.lru.Add(key, entry[V]{value: value, storedAt: time.Now(), ttl: ttl})
}

// Get returns the value only while it is fresh.
func (c *TTLCache[V]) Get(key string) (V, bool) {
	e, ok := c.lru.Get(key)
	if !ok || time.Since(e.storedAt) >= e.ttl {
		var zero V
		return zero, false
	}
	return e.value, true
}

// GetStale returns the value regardless of freshness. Used as the first
// fallback tier when a remote read fails.
func (c *TTLCache[V]) GetStale(key string) (V, bool) {
	e, ok := c.lru.Get(key)
	if !ok {
		var zero V
		return zero, false
	}
	return e.value, true
}

// InvalidatePrefix drops every entry whose key starts with prefix. Called
// after successful writes so the next read observes the mutation.
func (c *TTLCache[V]) InvalidatePrefix(prefix string) {
	for _, key := range c.lru.Keys() {
		if strings.HasPrefix(key, prefix) {
			c.lru.Remove(key)
		}
	}
}

// Len returns the number of cached entries, fresh or stale.
func (c *TTLCache[V]) Len() int {
	return c.lru.Len()
}
