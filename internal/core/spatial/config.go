package spatial

import (
	"fmt"
	"io"
	"math"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultRegionSize           float32 = 32
	DefaultMaxQueryCache                = 32
	DefaultCacheTTL                     = 5 * time.Second
	DefaultCacheCleanupInterval uint64  = 100
	DefaultEntitySweepInterval  uint64  = 1000
	DefaultEntityStaleTicks     uint64  = 6000
	DefaultPositionEpsilon      float32 = 0.1
	DefaultDistanceEpsilon      float32 = 0.1
)

// Config holds the tunables of a Partition.
type Config struct {
	RegionSize           float32       `json:"region_size" yaml:"region_size"`
	MaxQueryCache        int           `json:"max_query_cache" yaml:"max_query_cache"`
	CacheTTL             time.Duration `json:"cache_ttl" yaml:"cache_ttl"`
	CacheCleanupInterval uint64        `json:"cache_cleanup_interval" yaml:"cache_cleanup_interval"`
	EntitySweepInterval  uint64        `json:"entity_sweep_interval" yaml:"entity_sweep_interval"`
	EntityStaleTicks     uint64        `json:"entity_stale_ticks" yaml:"entity_stale_ticks"`
	PositionEpsilon      float32       `json:"position_epsilon" yaml:"position_epsilon"`
	DistanceEpsilon      float32       `json:"distance_epsilon" yaml:"distance_epsilon"`
	LogLevel             string        `json:"log_level,omitempty" yaml:"log_level,omitempty"`
}

// DefaultConfig returns the configuration used by the host at 20 ticks per second.
func DefaultConfig() Config {
	return Config{
		RegionSize:           DefaultRegionSize,
		MaxQueryCache:        DefaultMaxQueryCache,
		CacheTTL:             DefaultCacheTTL,
		CacheCleanupInterval: DefaultCacheCleanupInterval,
		EntitySweepInterval:  DefaultEntitySweepInterval,
		EntityStaleTicks:     DefaultEntityStaleTicks,
		PositionEpsilon:      DefaultPositionEpsilon,
		DistanceEpsilon:      DefaultDistanceEpsilon,
		LogLevel:             "info",
	}
}

// Validate checks that every field is usable.
func (c Config) Validate() error {
	if !(c.RegionSize > 0) || math.IsInf(float64(c.RegionSize), 0) {
		return fmt.Errorf("%w: region_size must be positive, got %v", ErrInvalidConfig, c.RegionSize)
	}
	if c.MaxQueryCache <= 0 {
		return fmt.Errorf("%w: max_query_cache must be positive, got %d", ErrInvalidConfig, c.MaxQueryCache)
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("%w: cache_ttl must be positive, got %s", ErrInvalidConfig, c.CacheTTL)
	}
	if c.CacheCleanupInterval == 0 {
		return fmt.Errorf("%w: cache_cleanup_interval must be positive", ErrInvalidConfig)
	}
	if c.EntitySweepInterval == 0 {
		return fmt.Errorf("%w: entity_sweep_interval must be positive", ErrInvalidConfig)
	}
	if c.EntityStaleTicks == 0 {
		return fmt.Errorf("%w: entity_stale_ticks must be positive", ErrInvalidConfig)
	}
	if !(c.PositionEpsilon > 0) {
		return fmt.Errorf("%w: position_epsilon must be positive, got %v", ErrInvalidConfig, c.PositionEpsilon)
	}
	if !(c.DistanceEpsilon > 0) {
		return fmt.Errorf("%w: distance_epsilon must be positive, got %v", ErrInvalidConfig, c.DistanceEpsilon)
	}
	return nil
}

// LoadYAML reads a configuration from r. Fields missing from the document keep
// their default values.
func LoadYAML(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return Config{}, fmt.Errorf("decode spatial config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
