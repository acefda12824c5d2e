// Package fingerprint provides a TTL-bounded dedup cache keyed by event
// fingerprints. The cache is confined to a single session goroutine and
// therefore carries no locking.
//
// Entries are ordered by last sighting rather than first insertion: a hit
// refreshes its entry to the back, so the size cap evicts the key that has
// gone longest without a render. Expiry walks the same order from the front
package fingerprint

import (
	"container/list"
	"time"
)

// DefaultMaxEntries bounds the cache when the caller does not
const DefaultMaxEntries = 300

// Config sizes a Cache
type Config struct {
	// TTL is how long a fingerprint suppresses re-emission
	TTL time.Duration
	// MaxEntries caps the cache; the oldest entries are evicted past it
	MaxEntries int
}

type entry struct {
	key  string
	seen time.Time
}

// Cache remembers fingerprints in last-seen order with lazy expiry
type Cache struct {
	ttl time.Duration
	max int

	order *list.List
	index map[string]*list.Element
}

// New creates a Cache from cfg, applying DefaultMaxEntries when unset
func New(cfg Config) *Cache {
	max := cfg.MaxEntries
	if max <= 0 {
		max = DefaultMaxEntries
	}
	return &Cache{
		ttl:   cfg.TTL,
		max:   max,
		order: list.New(),
		index: make(map[string]*list.Element, max),
	}
}

// Seen reports whether key was recorded within the TTL window. Every call
// refreshes the sighting time, so persistent renders keep suppressing; an
// expired or unknown key is (re)recorded and reported unseen
func (c *Cache) Seen(key string, now time.Time) bool {
	c.expire(now)

	if el, ok := c.index[key]; ok {
		ent := el.Value.(*entry)
		live := now.Sub(ent.seen) < c.ttl
		ent.seen = now
		c.order.MoveToBack(el)
		return live
	}

	c.index[key] = c.order.PushBack(&entry{key: key, seen: now})
	for c.order.Len() > c.max {
		c.evictOldest()
	}
	return false
}

// Len returns the number of live entries after expiring stale ones
func (c *Cache) Len(now time.Time) int {
	c.expire(now)
	return c.order.Len()
}

// Reset drops all entries
func (c *Cache) Reset() {
	c.order.Init()
	c.index = make(map[string]*list.Element, c.max)
}

func (c *Cache) expire(now time.Time) {
	for el := c.order.Front(); el != nil; {
		ent := el.Value.(*entry)
		if now.Sub(ent.seen) < c.ttl {
			break
		}
		next := el.Next()
		c.order.Remove(el)
		delete(c.index, ent.key)
		el = next
	}
}

func (c *Cache) evictOldest() {
	el := c.order.Front()
	if el == nil {
		return
	}
	c.order.Remove(el)
	delete(c.index, el.Value.(*entry).key)
}
