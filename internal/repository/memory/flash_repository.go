package memory

import (
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

// FlashRepository keeps one-shot messages per browser session until the
// next full page render takes them.
type FlashRepository[T any] struct {
	mu    sync.Mutex
	cache *cache.Cache
}

func NewFlashRepository[T any](ttl time.Duration) *FlashRepository[T] {
	return &FlashRepository[T]{
		cache: cache.New(ttl, 2*ttl),
	}
}

func (r *FlashRepository[T]) Push(sessionID string, item T) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var items []T
	if x, found := r.cache.Get(sessionID); found {
		items = x.([]T)
	}
	r.cache.Set(sessionID, append(items, item), cache.DefaultExpiration)
}

// Pop returns and forgets everything queued for the session.
func (r *FlashRepository[T]) Pop(sessionID string) []T {
	r.mu.Lock()
	defer r.mu.Unlock()

	x, found := r.cache.Get(sessionID)
	if !found {
		return nil
	}
	r.cache.Delete(sessionID)
	return x.([]T)
}
