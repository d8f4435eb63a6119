package spatial

import "sync/atomic"

// PerformanceStats is a snapshot of the partition counters.
type PerformanceStats struct {
	TotalQueries       uint64
	CacheHits          uint64
	EntitiesProcessed  uint64
	RegionsChecked     uint64
	AverageQueryTimeNs float64
}

// HitRate returns the share of queries answered from the cache.
func (s PerformanceStats) HitRate() float64 {
	if s.TotalQueries == 0 {
		return 0
	}
	return float64(s.CacheHits) / float64(s.TotalQueries)
}

// counters accumulates statistics without taking the partition lock.
// The average latency covers queries that scanned the grid; cache hits return
// before the timer matters.
type counters struct {
	totalQueries      atomic.Uint64
	cacheHits         atomic.Uint64
	entitiesProcessed atomic.Uint64
	regionsChecked    atomic.Uint64
	scannedQueries    atomic.Uint64
	scanNanos         atomic.Uint64
}

func (c *counters) recordHit() {
	c.totalQueries.Add(1)
	c.cacheHits.Add(1)
}

func (c *counters) recordScan(regions, entities uint64, nanos int64) {
	c.totalQueries.Add(1)
	c.regionsChecked.Add(regions)
	c.entitiesProcessed.Add(entities)
	if nanos < 0 {
		nanos = 0
	}
	c.scanNanos.Add(uint64(nanos))
	c.scannedQueries.Add(1)
}

func (c *counters) snapshot() PerformanceStats {
	s := PerformanceStats{
		TotalQueries:      c.totalQueries.Load(),
		CacheHits:         c.cacheHits.Load(),
		EntitiesProcessed: c.entitiesProcessed.Load(),
		RegionsChecked:    c.regionsChecked.Load(),
	}
	if n := c.scannedQueries.Load(); n > 0 {
		s.AverageQueryTimeNs = float64(c.scanNanos.Load()) / float64(n)
	}
	return s
}

func (c *counters) reset() {
	c.totalQueries.Store(0)
	c.cacheHits.Store(0)
	c.entitiesProcessed.Store(0)
	c.regionsChecked.Store(0)
	c.scannedQueries.Store(0)
	c.scanNanos.Store(0)
}
