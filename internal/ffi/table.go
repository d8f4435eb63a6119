// Package ffi holds the Go side of the C boundary: a table of explicitly
// created engines addressed by opaque handles, and the copy rules for results
// that cross the boundary.
package ffi

import (
	"sync"

	"github.com/zeusync/spatial/internal/core/spatial"
	"github.com/zeusync/spatial/internal/engine"
)

// Handle addresses one engine in a Table. Zero is never issued.
type Handle uint64

// Stats mirrors the C stats struct field for field.
type Stats struct {
	TotalQueries       uint64
	CacheHits          uint64
	EntitiesProcessed  uint64
	RegionsChecked     uint64
	AverageQueryTimeNs float64
}

// StatsFrom converts partition counters for the boundary.
func StatsFrom(s spatial.PerformanceStats) Stats {
	return Stats{
		TotalQueries:       s.TotalQueries,
		CacheHits:          s.CacheHits,
		EntitiesProcessed:  s.EntitiesProcessed,
		RegionsChecked:     s.RegionsChecked,
		AverageQueryTimeNs: s.AverageQueryTimeNs,
	}
}

// Table owns the engines created through the boundary.
type Table struct {
	mu      sync.RWMutex
	next    Handle
	engines map[Handle]*engine.Engine
	factory func() *engine.Engine
}

// NewTable creates a table that builds engines with factory.
func NewTable(factory func() *engine.Engine) *Table {
	return &Table{
		engines: make(map[Handle]*engine.Engine),
		factory: factory,
	}
}

// Create builds a new, uninitialised engine and returns its handle.
func (t *Table) Create() Handle {
	e := t.factory()

	t.mu.Lock()
	defer t.mu.Unlock()
	t.next++
	h := t.next
	t.engines[h] = e
	return h
}

// Get returns the engine behind h.
func (t *Table) Get(h Handle) (*engine.Engine, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	e, ok := t.engines[h]
	return e, ok
}

// With calls fn with the engine behind h. Unknown handles are ignored, which
// gives them the behaviour of an engine that was never initialised.
func (t *Table) With(h Handle, fn func(*engine.Engine)) {
	if e, ok := t.Get(h); ok {
		fn(e)
	}
}

// Destroy shuts the engine down and forgets h.
func (t *Table) Destroy(h Handle) bool {
	t.mu.Lock()
	e, ok := t.engines[h]
	delete(t.engines, h)
	t.mu.Unlock()

	if ok {
		e.Shutdown()
	}
	return ok
}

// Len returns the number of live handles.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.engines)
}

// CopyInto writes as many ids as fit into dst and returns the total number of
// ids, which may be larger than len(dst).
func CopyInto(dst []int64, ids []int64) int32 {
	copy(dst, ids)
	return int32(len(ids))
}
