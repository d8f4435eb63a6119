package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/zeusync/spatial/internal/core/spatial"
)

const (
	namespace     = "spatial"
	engineIDLabel = "engine_id"
)

// Source is what the collector reads on every scrape.
type Source interface {
	ID() string
	Stats() spatial.PerformanceStats
	DebugInfo() spatial.DebugInfo
	EvictedTotal() uint64
}

var _ prometheus.Collector = (*Collector)(nil)

// Collector exports engine counters as Prometheus metrics. Values are read at
// scrape time so the query path never touches Prometheus.
type Collector struct {
	source Source

	queries        *prometheus.Desc
	cacheHits      *prometheus.Desc
	entitiesProc   *prometheus.Desc
	regionsChecked *prometheus.Desc
	avgQueryNanos  *prometheus.Desc
	evicted        *prometheus.Desc
	entities       *prometheus.Desc
	regions        *prometheus.Desc
	cacheEntries   *prometheus.Desc
	tick           *prometheus.Desc
}

// NewCollector creates a collector for source.
func NewCollector(source Source) *Collector {
	labels := []string{engineIDLabel}
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, "", name), help, labels, nil)
	}
	return &Collector{
		source:         source,
		queries:        desc("queries_total", "The number of visibility queries."),
		cacheHits:      desc("cache_hits_total", "The number of queries answered from the query cache."),
		entitiesProc:   desc("entities_processed_total", "The number of candidate entities distance-tested."),
		regionsChecked: desc("regions_checked_total", "The number of regions examined by queries."),
		avgQueryNanos:  desc("query_duration_average_nanoseconds", "The mean latency of queries that scanned the grid."),
		evicted:        desc("evicted_entities_total", "The number of entities removed by the stale sweep."),
		entities:       desc("entities", "The number of tracked entities."),
		regions:        desc("regions", "The number of non-empty regions."),
		cacheEntries:   desc("cache_entries", "The number of cached query results."),
		tick:           desc("tick", "The current maintenance tick."),
	}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.queries
	ch <- c.cacheHits
	ch <- c.entitiesProc
	ch <- c.regionsChecked
	ch <- c.avgQueryNanos
	ch <- c.evicted
	ch <- c.entities
	ch <- c.regions
	ch <- c.cacheEntries
	ch <- c.tick
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	id := c.source.ID()
	stats := c.source.Stats()
	info := c.source.DebugInfo()

	counter := func(d *prometheus.Desc, v float64) {
		ch <- prometheus.MustNewConstMetric(d, prometheus.CounterValue, v, id)
	}
	gauge := func(d *prometheus.Desc, v float64) {
		ch <- prometheus.MustNewConstMetric(d, prometheus.GaugeValue, v, id)
	}

	counter(c.queries, float64(stats.TotalQueries))
	counter(c.cacheHits, float64(stats.CacheHits))
	counter(c.entitiesProc, float64(stats.EntitiesProcessed))
	counter(c.regionsChecked, float64(stats.RegionsChecked))
	gauge(c.avgQueryNanos, stats.AverageQueryTimeNs)
	counter(c.evicted, float64(c.source.EvictedTotal()))
	gauge(c.entities, float64(info.Entities))
	gauge(c.regions, float64(info.Regions))
	gauge(c.cacheEntries, float64(info.CacheEntries))
	gauge(c.tick, float64(info.Tick))
}
