package injector

import (
	"github.com/google/wire"
	"github.com/zeusync/spatial/internal/core/events/bus"
	"github.com/zeusync/spatial/internal/core/observability/log"
	"github.com/zeusync/spatial/internal/core/observability/metrics"
	"github.com/zeusync/spatial/internal/core/spatial"
	"github.com/zeusync/spatial/internal/engine"
)

// Runtime bundles the objects a host process needs to drive an engine.
type Runtime struct {
	Logger    *log.Logger
	Engine    *engine.Engine
	Collector *metrics.Collector
}

// ProviderSet builds a Runtime from a spatial.Config.
var ProviderSet = wire.NewSet(
	ProvideLogger,
	ProvideEventBus,
	ProvideEngine,
	ProvideCollector,
	wire.Struct(new(Runtime), "*"),
)

func ProvideLogger(cfg spatial.Config) *log.Logger {
	return log.New(log.ParseLevel(cfg.LogLevel))
}

func ProvideEventBus() bus.EventBus {
	return bus.New()
}

func ProvideEngine(cfg spatial.Config, logger *log.Logger, events bus.EventBus) *engine.Engine {
	return engine.New(cfg, engine.WithLogger(logger), engine.WithEventBus(events))
}

func ProvideCollector(e *engine.Engine) *metrics.Collector {
	return metrics.NewCollector(e)
}
