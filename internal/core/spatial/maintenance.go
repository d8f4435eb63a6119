package spatial

// TickReport summarises what one Tick did.
type TickReport struct {
	Tick         uint64
	ExpiredCache int
	Evicted      []EntityID
}

// Tick advances the tick counter and runs periodic maintenance: cache expiry
// every CacheCleanupInterval ticks and a stale entity sweep every
// EntitySweepInterval ticks. It is the only place entities are removed
// implicitly.
func (p *Partition) Tick() TickReport {
	p.mx.Lock()
	defer p.mx.Unlock()

	p.tick++
	report := TickReport{Tick: p.tick}

	if p.tick%p.cfg.CacheCleanupInterval == 0 {
		report.ExpiredCache = p.cache.ExpireOlderThan(p.cfg.CacheTTL, p.now())
	}

	if p.tick%p.cfg.EntitySweepInterval == 0 {
		report.Evicted = p.registry.Stale(p.tick, p.cfg.EntityStaleTicks)
		for _, id := range report.Evicted {
			p.registry.Unregister(id)
		}
	}

	return report
}
