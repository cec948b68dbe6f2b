package posts

import (
	"sync"
	"time"
)

// Cache holds the most recent preview per username so the preview panel can
// render without waiting for generation. Entries expire after the TTL; a
// fresh selection always warms the cache in the background.
type Cache struct {
	ttl     time.Duration
	mu      sync.RWMutex
	entries map[string]cacheEntry
}

type cacheEntry struct {
	posts    []Post
	storedAt time.Time
}

func NewCache(ttl time.Duration) *Cache {
	return &Cache{
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
	}
}

func (c *Cache) Get(username string) ([]Post, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[username]
	if !ok || time.Since(entry.storedAt) > c.ttl {
		return nil, false
	}

	result := make([]Post, len(entry.posts))
	copy(result, entry.posts)
	return result, true
}

func (c *Cache) Set(username string, result []Post) {
	stored := make([]Post, len(result))
	copy(stored, result)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[username] = cacheEntry{posts: stored, storedAt: time.Now()}
}

func (c *Cache) Invalidate(username string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, username)
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
