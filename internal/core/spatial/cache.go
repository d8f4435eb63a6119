package spatial

import (
	"slices"
	"time"
)

// CacheEntry is one remembered visibility result.
type CacheEntry struct {
	Viewer       Position
	ViewDistance float32
	Result       []EntityID
	Tick         uint64
	CreatedAt    time.Time
}

// QueryCache is a small fixed-capacity table of recent query results.
//
// Once full, a new entry replaces slot tick mod capacity. This is a ring policy,
// not LRU, and a popular query can be evicted by an unrelated one in the same
// tick. Not safe for concurrent use; Partition serialises access.
type QueryCache struct {
	entries         []CacheEntry
	capacity        int
	positionEpsilon float32
	distanceEpsilon float32
}

// NewQueryCache creates a cache holding at most capacity entries.
func NewQueryCache(capacity int, positionEpsilon, distanceEpsilon float32) *QueryCache {
	if capacity <= 0 {
		capacity = DefaultMaxQueryCache
	}
	return &QueryCache{
		entries:         make([]CacheEntry, 0, capacity),
		capacity:        capacity,
		positionEpsilon: positionEpsilon,
		distanceEpsilon: distanceEpsilon,
	}
}

// Lookup returns a copy of a result stored during tick for an approximately
// equal viewer and view distance.
func (c *QueryCache) Lookup(viewer Position, viewDistance float32, tick uint64) ([]EntityID, bool) {
	for i := range c.entries {
		e := &c.entries[i]
		if e.Tick != tick {
			continue
		}
		if !e.Viewer.ApproxEqual(viewer, c.positionEpsilon) {
			continue
		}
		if absf(e.ViewDistance-viewDistance) >= c.distanceEpsilon {
			continue
		}
		return slices.Clone(e.Result), true
	}
	return nil, false
}

// Store appends entry, or overwrites slot entry.Tick mod capacity when full.
// The cache keeps its own copy of the result.
func (c *QueryCache) Store(entry CacheEntry) {
	entry.Result = slices.Clone(entry.Result)
	if len(c.entries) < c.capacity {
		c.entries = append(c.entries, entry)
		return
	}
	c.entries[entry.Tick%uint64(c.capacity)] = entry
}

// ExpireOlderThan drops entries created more than ttl before now and returns
// how many were removed.
func (c *QueryCache) ExpireOlderThan(ttl time.Duration, now time.Time) int {
	kept := c.entries[:0]
	for _, e := range c.entries {
		if now.Sub(e.CreatedAt) > ttl {
			continue
		}
		kept = append(kept, e)
	}
	removed := len(c.entries) - len(kept)
	clear(c.entries[len(kept):])
	c.entries = kept
	return removed
}

// Len returns the number of cached entries.
func (c *QueryCache) Len() int {
	return len(c.entries)
}

// Capacity returns the maximum number of entries.
func (c *QueryCache) Capacity() int {
	return c.capacity
}

// Clear drops every entry.
func (c *QueryCache) Clear() {
	clear(c.entries)
	c.entries = c.entries[:0]
}
