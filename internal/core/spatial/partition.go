package spatial

import (
	"fmt"
	"sync"
	"time"
)

// Partition answers visibility queries over a moving entity population.
//
// One RWMutex guards the registry, the grid and the cache together. Mutations
// and maintenance take it exclusively. Queries scan under the shared lock and
// then briefly take the exclusive lock to store their result, so the grid may
// change between scan and store; the cache only ever accelerates repeated
// queries within a tick and both tick and TTL bound how long such an entry
// lives.
type Partition struct {
	mx       sync.RWMutex
	cfg      Config
	grid     *RegionGrid
	registry *EntityRegistry
	cache    *QueryCache
	tick     uint64
	stats    counters
	now      func() time.Time
}

// Option customises a Partition.
type Option func(*Partition)

// WithClock replaces the wall clock used for cache entry ages.
func WithClock(now func() time.Time) Option {
	return func(p *Partition) {
		if now != nil {
			p.now = now
		}
	}
}

// NewPartition creates an empty partition. An invalid cfg falls back to
// DefaultConfig.
func NewPartition(cfg Config, opts ...Option) *Partition {
	if cfg.Validate() != nil {
		cfg = DefaultConfig()
	}
	grid := NewRegionGrid(cfg.RegionSize)
	p := &Partition{
		cfg:      cfg,
		grid:     grid,
		registry: NewEntityRegistry(grid),
		cache:    NewQueryCache(cfg.MaxQueryCache, cfg.PositionEpsilon, cfg.DistanceEpsilon),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Config returns the effective configuration.
func (p *Partition) Config() Config {
	return p.cfg
}

// Register starts tracking id at position pos.
func (p *Partition) Register(id EntityID, pos Position, radius float32) {
	p.mx.Lock()
	defer p.mx.Unlock()
	p.registry.Register(id, pos, radius, p.tick)
}

// Unregister stops tracking id. Unknown ids are ignored.
func (p *Partition) Unregister(id EntityID) {
	p.mx.Lock()
	defer p.mx.Unlock()
	p.registry.Unregister(id)
}

// UpdatePosition moves id to pos. Unknown ids are ignored.
func (p *Partition) UpdatePosition(id EntityID, pos Position) {
	p.mx.Lock()
	defer p.mx.Unlock()
	p.registry.UpdatePosition(id, pos, p.tick)
}

// Entity returns a copy of the record for id.
func (p *Partition) Entity(id EntityID) (EntityRecord, bool) {
	p.mx.RLock()
	defer p.mx.RUnlock()
	return p.registry.Get(id)
}

// GetVisibleEntities returns the ids within viewDistance of viewer, boundary
// included. The returned slice belongs to the caller.
func (p *Partition) GetVisibleEntities(viewer Position, viewDistance float32) []EntityID {
	if !(viewDistance > 0) {
		return []EntityID{}
	}
	start := time.Now()

	p.mx.RLock()
	tick := p.tick
	if cached, ok := p.cache.Lookup(viewer, viewDistance, tick); ok {
		p.mx.RUnlock()
		p.stats.recordHit()
		return cached
	}

	r := RangeFor(viewer, viewDistance, p.grid.RegionSize())
	limit := viewDistance * viewDistance
	result := make([]EntityID, 0, 16)
	var processed uint64
	regions := p.grid.visitRange(r, func(_ RegionKey, b *bucket) bool {
		for _, id := range b.ids {
			processed++
			rec, ok := p.registry.lookup(id)
			if !ok {
				continue
			}
			if rec.Position.DistanceSq(viewer) <= limit {
				result = append(result, id)
			}
		}
		return true
	})
	p.mx.RUnlock()

	p.mx.Lock()
	p.cache.Store(CacheEntry{
		Viewer:       viewer,
		ViewDistance: viewDistance,
		Result:       result,
		Tick:         tick,
		CreatedAt:    p.now(),
	})
	p.mx.Unlock()

	p.stats.recordScan(regions, processed, time.Since(start).Nanoseconds())
	return result
}

// CurrentTick returns the maintenance tick counter.
func (p *Partition) CurrentTick() uint64 {
	p.mx.RLock()
	defer p.mx.RUnlock()
	return p.tick
}

// Stats returns a snapshot of the query counters.
func (p *Partition) Stats() PerformanceStats {
	return p.stats.snapshot()
}

// ResetStats zeroes the query counters.
func (p *Partition) ResetStats() {
	p.stats.reset()
}

// DebugInfo describes the partition state at one instant.
type DebugInfo struct {
	Tick         uint64
	Entities     int
	Regions      int
	CacheEntries int
	Digest       uint64
}

// Snapshot returns the current DebugInfo.
func (p *Partition) Snapshot() DebugInfo {
	p.mx.RLock()
	defer p.mx.RUnlock()
	return DebugInfo{
		Tick:         p.tick,
		Entities:     p.registry.Len(),
		Regions:      p.grid.RegionCount(),
		CacheEntries: p.cache.Len(),
		Digest:       p.grid.Digest(),
	}
}

// CheckConsistency verifies that every entity sits in exactly the bucket of
// its current region.
func (p *Partition) CheckConsistency() error {
	p.mx.RLock()
	defer p.mx.RUnlock()

	if p.grid.Len() != p.registry.Len() {
		return fmt.Errorf("grid holds %d ids, registry holds %d", p.grid.Len(), p.registry.Len())
	}
	var err error
	p.registry.Each(func(id EntityID, rec EntityRecord) bool {
		key := RegionOf(rec.Position, p.grid.RegionSize())
		if !p.grid.Contains(key, id) {
			err = fmt.Errorf("entity %d missing from region %+v", id, key)
			return false
		}
		return true
	})
	return err
}

// Clear drops every entity and cached result. The tick counter and statistics
// are kept.
func (p *Partition) Clear() {
	p.mx.Lock()
	defer p.mx.Unlock()
	p.registry.Clear()
	p.cache.Clear()
}
