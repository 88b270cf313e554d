package engine

import (
	"sync"
	"time"

	"gontrel-admin/internal/models"
)

// DefaultCountTTL is the staleness window for cached queue totals.
const DefaultCountTTL = 30 * time.Second

type countKey struct {
	kind models.TableKind
	term string
}

type countEntry struct {
	total     int
	fetchedAt time.Time
}

// CountCache caches (table kind, search term) -> total row count with a
// short TTL, so tab switches and keystrokes do not refetch counts. It is
// process-wide shared state and cooperative only: a stale total is a
// display nicety, never used for pagination math.
type CountCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[countKey]countEntry

	now func() time.Time // swapped in tests
}

// NewCountCache creates a cache with the given TTL; zero means DefaultCountTTL.
func NewCountCache(ttl time.Duration) *CountCache {
	if ttl <= 0 {
		ttl = DefaultCountTTL
	}
	return &CountCache{
		ttl:     ttl,
		entries: make(map[countKey]countEntry),
		now:     time.Now,
	}
}

// Get returns the cached total for a kind and search term. Entries older
// than the TTL are treated as a miss and dropped.
func (c *CountCache) Get(kind models.TableKind, term string) (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := countKey{kind: kind, term: term}
	e, ok := c.entries[key]
	if !ok {
		return 0, false
	}
	if c.now().Sub(e.fetchedAt) > c.ttl {
		delete(c.entries, key)
		return 0, false
	}
	return e.total, true
}

// Put stores a freshly fetched total.
func (c *CountCache) Put(kind models.TableKind, term string, total int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[countKey{kind: kind, term: term}] = countEntry{total: total, fetchedAt: c.now()}
}

// Invalidate drops every cached entry for a kind, regardless of search
// term. Coarse on purpose: correctness over granularity.
func (c *CountCache) Invalidate(kind models.TableKind) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		if key.kind == kind {
			delete(c.entries, key)
		}
	}
}
