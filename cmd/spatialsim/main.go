// Command spatialsim drives an engine the way a game host does: a population
// of wandering entities, one visibility query per viewer per tick issued from
// concurrent goroutines, and a maintenance tick in between.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/zeusync/spatial/internal/core/observability/log"
	"github.com/zeusync/spatial/internal/core/spatial"
	"github.com/zeusync/spatial/internal/engine"
	"github.com/zeusync/spatial/internal/injector"
	"github.com/zeusync/spatial/pkg/concurrent"
	"github.com/zeusync/spatial/pkg/sequence"
)

type simConfig struct {
	configPath   string
	entities     int
	viewers      int
	ticks        int
	tickRate     int
	worldSize    float64
	speed        float64
	viewDistance float64
	workers      int
	updateChunk  int
	metricsAddr  string
	seed         uint64
}

func main() {
	var sc simConfig
	flag.StringVar(&sc.configPath, "config", "", "path to spatial config yaml (optional)")
	flag.IntVar(&sc.entities, "entities", 20_000, "number of simulated entities")
	flag.IntVar(&sc.viewers, "viewers", 100, "number of viewers querying each tick")
	flag.IntVar(&sc.ticks, "ticks", 2_000, "number of ticks to run (0 runs until interrupted)")
	flag.IntVar(&sc.tickRate, "tick_rate", 0, "ticks per second (0 runs as fast as possible)")
	flag.Float64Var(&sc.worldSize, "world_size", 4096, "edge length of the cubic world")
	flag.Float64Var(&sc.speed, "speed", 0.5, "max per-tick movement on each axis")
	flag.Float64Var(&sc.viewDistance, "view_distance", 128, "viewer view distance")
	flag.IntVar(&sc.workers, "workers", 16, "max concurrent viewer goroutines")
	flag.IntVar(&sc.updateChunk, "update_chunk", 2_500, "position updates applied per goroutine")
	flag.StringVar(&sc.metricsAddr, "metrics_addr", "", "serve prometheus metrics on this address (empty to disable)")
	flag.Uint64Var(&sc.seed, "seed", 1337, "random seed")
	flag.Parse()

	cfg, err := loadConfig(sc.configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "load config:", err)
		os.Exit(1)
	}

	rt := injector.InitializeRuntime(cfg)
	logger := rt.Logger
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if sc.metricsAddr != "" {
		srv := serveMetrics(sc.metricsAddr, rt, logger)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	rt.Engine.Initialize()
	defer rt.Engine.Shutdown()

	if err := run(ctx, sc, rt.Engine, logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("simulation failed", log.Error(err))
		os.Exit(1)
	}

	stats := rt.Engine.Stats()
	info := rt.Engine.DebugInfo()
	logger.Info("simulation finished",
		log.Uint64("ticks", info.Tick),
		log.Int("entities", info.Entities),
		log.Int("regions", info.Regions),
		log.Uint64("queries", stats.TotalQueries),
		log.Uint64("cache_hits", stats.CacheHits),
		log.Float64("hit_rate", stats.HitRate()),
		log.Uint64("entities_processed", stats.EntitiesProcessed),
		log.Uint64("regions_checked", stats.RegionsChecked),
		log.Float64("avg_query_ns", stats.AverageQueryTimeNs),
		log.Uint64("evicted", rt.Engine.EvictedTotal()),
	)
}

func loadConfig(path string) (spatial.Config, error) {
	if path == "" {
		return spatial.DefaultConfig(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return spatial.Config{}, err
	}
	defer f.Close()
	return spatial.LoadYAML(f)
}

func serveMetrics(addr string, rt *injector.Runtime, logger log.Log) *http.Server {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		rt.Collector,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server stopped", log.Error(err))
		}
	}()
	logger.Info("serving metrics", log.String("addr", addr))
	return srv
}

type walker struct {
	id      int64
	x, y, z float64
}

func run(ctx context.Context, sc simConfig, e *engine.Engine, logger log.Log) error {
	rng := rand.New(rand.NewPCG(sc.seed, sc.seed^0x9e3779b97f4a7c15))

	walkers := make([]walker, sc.entities)
	specs := make([]engine.EntitySpec, sc.entities)
	for i := range walkers {
		w := walker{
			id: int64(i + 1),
			x:  rng.Float64() * sc.worldSize,
			y:  rng.Float64() * 64,
			z:  rng.Float64() * sc.worldSize,
		}
		walkers[i] = w
		specs[i] = engine.EntitySpec{ID: w.id, X: float32(w.x), Y: float32(w.y), Z: float32(w.z), Radius: 0.5}
	}
	e.RegisterBatch(specs)
	logger.Info("registered entities", log.Int("count", len(specs)))

	viewers := make([]engine.ViewQuery, min(sc.viewers, len(walkers)))
	updates := make([]engine.PositionUpdate, len(walkers))

	var ticker *time.Ticker
	if sc.tickRate > 0 {
		ticker = time.NewTicker(time.Second / time.Duration(sc.tickRate))
		defer ticker.Stop()
	}

	for tick := 0; sc.ticks == 0 || tick < sc.ticks; tick++ {
		if ticker != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
			}
		} else if err := ctx.Err(); err != nil {
			return err
		}

		for i := range walkers {
			w := &walkers[i]
			w.x = clamp(w.x+(rng.Float64()*2-1)*sc.speed, 0, sc.worldSize)
			w.y = clamp(w.y+(rng.Float64()*2-1)*sc.speed*0.1, 0, 64)
			w.z = clamp(w.z+(rng.Float64()*2-1)*sc.speed, 0, sc.worldSize)
			updates[i] = engine.PositionUpdate{ID: w.id, X: float32(w.x), Y: float32(w.y), Z: float32(w.z)}
		}
		concurrent.Batch(sequence.From(updates), sc.updateChunk, e.UpdateBatch)

		for i := range viewers {
			w := walkers[i]
			viewers[i] = engine.ViewQuery{X: float32(w.x), Y: float32(w.y), Z: float32(w.z), ViewDistance: float32(sc.viewDistance)}
		}
		err := concurrent.Concurrent(ctx, sequence.From(viewers), sc.workers, func(_ context.Context, q engine.ViewQuery) error {
			_ = e.GetVisibleEntities(q.X, q.Y, q.Z, q.ViewDistance)
			return nil
		})
		if err != nil {
			return err
		}

		e.Tick()

		if (tick+1)%1000 == 0 {
			stats := e.Stats()
			logger.Info("progress",
				log.Int("tick", tick+1),
				log.Uint64("queries", stats.TotalQueries),
				log.Float64("avg_query_ns", stats.AverageQueryTimeNs),
			)
		}
	}
	return nil
}

func clamp(v, lo, hi float64) float64 {
	return max(lo, min(v, hi))
}
