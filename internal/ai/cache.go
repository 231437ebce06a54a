package ai

import (
	"sync"
	"time"
)

// cacheEntry represents cached advice for one request.
type cacheEntry struct {
	expiry time.Time
	advice []AccountAdvice
}

// adviceCache provides thread-safe caching for advisor responses. Identical
// descriptions recur constantly in bank statements, so a short TTL saves a
// lot of provider calls.
type adviceCache struct {
	entries map[string]cacheEntry
	stopCh  chan struct{}
	ttl     time.Duration
	mu      sync.RWMutex
}

// newAdviceCache creates a new cache with the specified TTL.
func newAdviceCache(ttl time.Duration) *adviceCache {
	if ttl == 0 {
		ttl = 15 * time.Minute
	}

	cache := &adviceCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		stopCh:  make(chan struct{}),
	}

	go cache.cleanup()

	return cache
}

// get retrieves advice from the cache if it exists and hasn't expired.
func (c *adviceCache) get(key string) ([]AccountAdvice, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.entries[key]
	if !exists || time.Now().After(entry.expiry) {
		return nil, false
	}

	return entry.advice, true
}

// set stores advice in the cache.
func (c *adviceCache) set(key string, advice []AccountAdvice) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = cacheEntry{
		advice: advice,
		expiry: time.Now().Add(c.ttl),
	}
}

// cleanup periodically removes expired entries.
func (c *adviceCache) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			c.mu.Lock()
			now := time.Now()
			for key, entry := range c.entries {
				if now.After(entry.expiry) {
					delete(c.entries, key)
				}
			}
			c.mu.Unlock()
		}
	}
}

// size returns the number of entries in the cache.
func (c *adviceCache) size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Close stops the cleanup goroutine.
func (c *adviceCache) Close() {
	close(c.stopCh)
}
