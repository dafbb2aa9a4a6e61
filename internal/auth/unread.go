package auth

import "sync"

type unreadKey struct {
	userID   int64
	friendID int64
}

// unreadCache absorbs unread-counter bumps so the whisper hot path
// never touches the store. Deltas are merged into the relations table
// by the flusher.
type unreadCache struct {
	mu     sync.Mutex
	deltas map[unreadKey]int
}

func newUnreadCache() *unreadCache {
	return &unreadCache{deltas: make(map[unreadKey]int)}
}

func (c *unreadCache) add(userID, friendID int64) {
	c.mu.Lock()
	c.deltas[unreadKey{userID, friendID}]++
	c.mu.Unlock()
}

func (c *unreadCache) clear(userID, friendID int64) {
	c.mu.Lock()
	delete(c.deltas, unreadKey{userID, friendID})
	c.mu.Unlock()
}

func (c *unreadCache) delta(userID, friendID int64) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.deltas[unreadKey{userID, friendID}]
}

// drain hands back the accumulated deltas and resets the cache.
func (c *unreadCache) drain() map[unreadKey]int {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.deltas
	c.deltas = make(map[unreadKey]int)
	return out
}
