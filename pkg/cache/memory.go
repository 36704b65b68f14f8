package cache

import (
	"context"
	"sync"
	"time"
)

// MemoryCache is an in-process cache bounded by entry count. When full, an
// expired entry is evicted if there is one, else the least recently written.
type MemoryCache struct {
	mu      sync.Mutex
	max     int
	entries map[string]memoryEntry
	now     func() time.Time
	seq     uint64
}

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
	seq       uint64
}

// NewMemoryCache returns a cache holding at most max entries. A non-positive
// max defaults to 256.
func NewMemoryCache(max int) *MemoryCache {
	if max <= 0 {
		max = 256
	}
	return &MemoryCache{max: max, entries: make(map[string]memoryEntry), now: time.Now}
}

// Get retrieves a value from the cache.
func (c *MemoryCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, false, nil
	}
	if !e.expiresAt.IsZero() && c.now().After(e.expiresAt) {
		delete(c.entries, key)
		return nil, false, nil
	}
	return append([]byte(nil), e.data...), true, nil
}

// Set stores a copy of data in the cache.
func (c *MemoryCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.max {
		c.evictLocked()
	}
	c.seq++
	e := memoryEntry{data: append([]byte(nil), data...), seq: c.seq}
	if ttl > 0 {
		e.expiresAt = c.now().Add(ttl)
	}
	c.entries[key] = e
	return nil
}

func (c *MemoryCache) evictLocked() {
	var victim string
	var oldest uint64
	now := c.now()
	for k, e := range c.entries {
		if !e.expiresAt.IsZero() && now.After(e.expiresAt) {
			delete(c.entries, k)
			return
		}
		if victim == "" || e.seq < oldest {
			victim, oldest = k, e.seq
		}
	}
	delete(c.entries, victim)
}

// Delete removes a value from the cache.
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
	return nil
}

// Len returns the number of stored entries, expired ones included.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Close drops every entry.
func (c *MemoryCache) Close() error {
	c.mu.Lock()
	c.entries = make(map[string]memoryEntry)
	c.mu.Unlock()
	return nil
}

var _ Cache = (*MemoryCache)(nil)
