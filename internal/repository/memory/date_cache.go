package memory

import (
	"strings"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

// DateCache memoizes the "recent dates" filter lists. Writers invalidate it
// right after commit, and the event consumer does the same for writes made by
// other instances.
type DateCache struct {
	cache *cache.Cache

	mu          sync.Mutex
	generations map[string]uint64
}

func NewDateCache(ttl time.Duration) *DateCache {
	return &DateCache{
		cache:       cache.New(ttl, 2*ttl),
		generations: make(map[string]uint64),
	}
}

// Fetch returns the cached days for key, which must start with prefix, or
// loads them. A load that overlaps an invalidation of prefix is returned
// but not stored.
func (c *DateCache) Fetch(prefix, key string, load func() ([]time.Time, error)) ([]time.Time, error) {
	if days, ok := c.Get(key); ok {
		return days, nil
	}

	c.mu.Lock()
	gen := c.generations[prefix]
	c.mu.Unlock()

	days, err := load()
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if c.generations[prefix] == gen {
		c.cache.Set(key, days, cache.DefaultExpiration)
	}
	c.mu.Unlock()
	return days, nil
}

func (c *DateCache) Get(key string) ([]time.Time, bool) {
	if x, found := c.cache.Get(key); found {
		return x.([]time.Time), true
	}
	return nil, false
}

func (c *DateCache) Set(key string, days []time.Time) {
	c.cache.Set(key, days, cache.DefaultExpiration)
}

func (c *DateCache) Invalidate(keys ...string) {
	for _, key := range keys {
		c.cache.Delete(key)
	}
}

// InvalidatePrefix drops every key starting with prefix.
func (c *DateCache) InvalidatePrefix(prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generations[prefix]++
	for key := range c.cache.Items() {
		if strings.HasPrefix(key, prefix) {
			c.cache.Delete(key)
		}
	}
}

func (c *DateCache) Flush() {
	c.cache.Flush()
}
