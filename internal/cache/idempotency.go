package cache

import (
	"sync"
	"time"
)

// IdempotencyCache memoizes statement responses under client-supplied keys so
// retried requests replay the stored bytes instead of reaching the cluster
// again. Entries older than the TTL are evicted lazily on access.
type IdempotencyCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]entry
	now     func() time.Time
}

type entry struct {
	payload  []byte
	storedAt time.Time
}

func NewIdempotencyCache(ttl time.Duration) *IdempotencyCache {
	return &IdempotencyCache{
		ttl:     ttl,
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Get returns the payload stored under key if it has not expired yet.
func (c *IdempotencyCache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.prune()
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(e.storedAt) > c.ttl {
		delete(c.entries, key)
		return nil, false
	}
	return e.payload, true
}

// Set stores payload under key, stamped with the current time.
func (c *IdempotencyCache) Set(key string, payload []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.prune()
	c.entries[key] = entry{payload: payload, storedAt: c.now()}
}

// Clear drops every entry.
func (c *IdempotencyCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]entry)
}

// prune must be called with the lock held.
func (c *IdempotencyCache) prune() {
	if len(c.entries) == 0 {
		return
	}
	cutoff := c.now().Add(-c.ttl)
	for key, e := range c.entries {
		if e.storedAt.Before(cutoff) {
			delete(c.entries, key)
		}
	}
}
