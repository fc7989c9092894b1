package shardmap

import (
	"github.com/yndnr/shardmap-go/internal/confloader"
	"github.com/yndnr/shardmap-go/internal/telemetry/logger"
	"github.com/yndnr/shardmap-go/pkg/hashing"
)

const (
	// DefaultShardCount is the number of shards used by DefaultConfig.
	DefaultShardCount = 16

	// DefaultInitialCapacity is the per-shard starting capacity used by
	// DefaultConfig.
	DefaultInitialCapacity = 16
)

// Config holds map configuration.
type Config struct {
	// Name labels the map in logs and metrics.
	Name string `koanf:"name"`
	// ShardCount is the number of shards. Any positive value is accepted.
	ShardCount int `koanf:"shard_count"`
	// InitialCapacity is the starting slot count of every shard table and
	// the capacity Clear resets to.
	InitialCapacity int `koanf:"initial_capacity"`
	// Policy controls per-shard resizing.
	Policy Policy `koanf:"policy"`
	// Log configures the logger used when no WithLogger option is given.
	Log logger.Config `koanf:"log"`
}

// DefaultConfig returns the default map configuration.
func DefaultConfig() Config {
	return Config{
		Name:            "default",
		ShardCount:      DefaultShardCount,
		InitialCapacity: DefaultInitialCapacity,
		Policy:          DefaultPolicy(),
		Log:             logger.DefaultConfig(),
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.ShardCount < 1 {
		return ErrInvalidShardCount.WithDetailsf("shard_count %d must be at least 1", c.ShardCount)
	}
	if err := c.Policy.Validate(); err != nil {
		return err
	}
	if !hashing.IsPowerOfTwo(c.InitialCapacity) {
		return ErrInvalidCapacity.WithDetailsf("initial_capacity %d is not a power of two", c.InitialCapacity)
	}
	if c.InitialCapacity < c.Policy.MinCapacity {
		return ErrInvalidCapacity.WithDetailsf("initial_capacity %d is below min_capacity %d", c.InitialCapacity, c.Policy.MinCapacity)
	}
	if c.Policy.MaxCapacity > 0 && c.InitialCapacity > c.Policy.MaxCapacity {
		return ErrInvalidCapacity.WithDetailsf("initial_capacity %d exceeds max_capacity %d", c.InitialCapacity, c.Policy.MaxCapacity)
	}
	return nil
}

// LoadConfig reads a Config from the YAML file at path, then applies
// SHARDMAP_ environment overrides on top. Keys absent from both keep their
// DefaultConfig values. An empty path loads defaults and environment only.
func LoadConfig(path string) (Config, error) {
	return loadConfig(path, confloader.DefaultEnvPrefix)
}

func loadConfig(path, envPrefix string) (Config, error) {
	def := DefaultConfig()
	loader := confloader.NewLoader(
		confloader.WithDefaults(def.flatten()),
		confloader.WithConfigFile(path),
		confloader.WithEnvPrefix(envPrefix),
	)

	cfg := def
	if err := loader.Load(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) flatten() map[string]any {
	return map[string]any{
		"name":                  c.Name,
		"shard_count":           c.ShardCount,
		"initial_capacity":      c.InitialCapacity,
		"policy.min_capacity":   c.Policy.MinCapacity,
		"policy.max_capacity":   c.Policy.MaxCapacity,
		"policy.max_fill_ratio": c.Policy.MaxFillRatio,
		"policy.min_fill_ratio": c.Policy.MinFillRatio,
		"policy.compact_ratio":  c.Policy.CompactRatio,
		"log.level":             c.Log.Level,
		"log.format":            c.Log.Format,
		"log.add_source":        c.Log.AddSource,
	}
}
