package engine

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/zeusync/spatial/internal/core/events/bus"
	"github.com/zeusync/spatial/internal/core/observability/log"
	"github.com/zeusync/spatial/internal/core/spatial"
)

const eventSource = "spatial.engine"

// Engine is the lifecycle wrapper around a spatial.Partition.
//
// An Engine is constructed explicitly and shared by reference between all
// caller goroutines; it is one index, not a per-goroutine cache. Every
// operation is a no-op (or returns an empty result) before Initialize and
// after Shutdown.
type Engine struct {
	id     string
	cfg    spatial.Config
	logger log.Log
	bus    bus.EventBus
	popts  []spatial.Option

	mu        sync.RWMutex
	partition *spatial.Partition

	evicted atomic.Uint64
}

// Option customises an Engine.
type Option func(*Engine)

// WithLogger sets the logger. The default discards output.
func WithLogger(l log.Log) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithEventBus sets the bus used to announce evictions.
func WithEventBus(b bus.EventBus) Option {
	return func(e *Engine) {
		if b != nil {
			e.bus = b
		}
	}
}

// WithPartitionOptions forwards options to the partition built by Initialize.
func WithPartitionOptions(opts ...spatial.Option) Option {
	return func(e *Engine) {
		e.popts = append(e.popts, opts...)
	}
}

// New creates an uninitialised engine. An invalid cfg is replaced by
// spatial.DefaultConfig.
func New(cfg spatial.Config, opts ...Option) *Engine {
	e := &Engine{
		id:     uuid.NewString(),
		cfg:    cfg,
		logger: log.NewNop(),
		bus:    bus.New(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.With(log.String("engine_id", e.id))

	if err := cfg.Validate(); err != nil {
		e.logger.Warn("invalid configuration, using defaults", log.Error(err))
		e.cfg = spatial.DefaultConfig()
	}
	return e
}

// ID returns the instance id used in logs and events.
func (e *Engine) ID() string {
	return e.id
}

// Config returns the effective configuration.
func (e *Engine) Config() spatial.Config {
	return e.cfg
}

// Events returns the bus evictions are published on.
func (e *Engine) Events() bus.EventBus {
	return e.bus
}

// Initialize allocates the partition. Repeated calls are harmless.
func (e *Engine) Initialize() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.partition != nil {
		return true
	}
	e.partition = spatial.NewPartition(e.cfg, e.popts...)
	e.logger.Info("spatial engine initialized",
		log.Float32("region_size", e.cfg.RegionSize),
		log.Int("max_query_cache", e.cfg.MaxQueryCache),
	)
	return true
}

// Shutdown releases the partition. Repeated calls are harmless.
func (e *Engine) Shutdown() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.partition == nil {
		return
	}
	info := e.partition.Snapshot()
	e.partition = nil
	e.logger.Info("spatial engine shut down",
		log.Int("entities", info.Entities),
		log.Uint64("tick", info.Tick),
	)
}

// Initialized reports whether the engine is between Initialize and Shutdown.
func (e *Engine) Initialized() bool {
	return e.current() != nil
}

func (e *Engine) current() *spatial.Partition {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.partition
}

// RegisterEntity starts tracking id.
func (e *Engine) RegisterEntity(id int64, x, y, z, radius float32) {
	if p := e.current(); p != nil {
		p.Register(spatial.EntityID(id), spatial.NewPosition(x, y, z), radius)
	}
}

// UpdateEntityPosition moves id. Unknown ids are ignored.
func (e *Engine) UpdateEntityPosition(id int64, x, y, z float32) {
	if p := e.current(); p != nil {
		p.UpdatePosition(spatial.EntityID(id), spatial.NewPosition(x, y, z))
	}
}

// UnregisterEntity stops tracking id. Unknown ids are ignored.
func (e *Engine) UnregisterEntity(id int64) {
	if p := e.current(); p != nil {
		p.Unregister(spatial.EntityID(id))
	}
}

// GetVisibleEntities returns the ids within viewDistance of the viewer. The
// slice is a fresh copy owned by the caller.
func (e *Engine) GetVisibleEntities(x, y, z, viewDistance float32) []int64 {
	p := e.current()
	if p == nil {
		return []int64{}
	}
	ids := p.GetVisibleEntities(spatial.NewPosition(x, y, z), viewDistance)
	out := make([]int64, len(ids))
	for i, id := range ids {
		out[i] = int64(id)
	}
	return out
}

// Tick advances the simulation tick, runs maintenance and announces evicted
// entities on the event bus.
func (e *Engine) Tick() {
	p := e.current()
	if p == nil {
		return
	}
	report := p.Tick()

	if report.ExpiredCache > 0 {
		e.logger.Debug("expired cached queries",
			log.Uint64("tick", report.Tick),
			log.Int("entries", report.ExpiredCache),
		)
		e.publish(bus.NewEvent(bus.EventCacheExpired, eventSource, report.ExpiredCache))
	}

	if len(report.Evicted) == 0 {
		return
	}
	e.evicted.Add(uint64(len(report.Evicted)))
	e.logger.Debug("evicted stale entities",
		log.Uint64("tick", report.Tick),
		log.Int("count", len(report.Evicted)),
	)
	events := make([]bus.Event, len(report.Evicted))
	for i, id := range report.Evicted {
		events[i] = bus.NewEvent(bus.EventEntityEvicted, eventSource, int64(id))
	}
	e.publish(events...)
}

func (e *Engine) publish(events ...bus.Event) {
	if err := e.bus.PublishBatch(events...); err != nil {
		e.logger.Warn("event handler failed", log.Error(err))
	}
}

// Stats returns the query counters, or zero values when not initialised.
func (e *Engine) Stats() spatial.PerformanceStats {
	if p := e.current(); p != nil {
		return p.Stats()
	}
	return spatial.PerformanceStats{}
}

// ResetStats zeroes the query counters.
func (e *Engine) ResetStats() {
	if p := e.current(); p != nil {
		p.ResetStats()
	}
}

// EvictedTotal returns how many entities the stale sweep removed since New.
func (e *Engine) EvictedTotal() uint64 {
	return e.evicted.Load()
}

// DebugInfo describes the partition, or is zero when not initialised.
func (e *Engine) DebugInfo() spatial.DebugInfo {
	if p := e.current(); p != nil {
		return p.Snapshot()
	}
	return spatial.DebugInfo{}
}

// CheckConsistency verifies the region invariant of the partition.
func (e *Engine) CheckConsistency() error {
	if p := e.current(); p != nil {
		return p.CheckConsistency()
	}
	return nil
}

// OnEntityEvicted subscribes fn to stale-entity evictions.
func (e *Engine) OnEntityEvicted(fn func(id int64)) (bus.Subscription, error) {
	if fn == nil {
		return nil, bus.ErrNilHandler
	}
	return e.bus.Subscribe(bus.EventEntityEvicted, func(ev bus.Event) error {
		if id, ok := ev.Data().(int64); ok {
			fn(id)
		}
		return nil
	})
}
