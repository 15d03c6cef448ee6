package pipeline

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/roomforge/pkg/core/place"
)

// Config is the on-disk engine configuration, loaded from a TOML file.
// Every field is optional; zero values fall back to the pipeline defaults,
// so a config file only needs the sections it wants to override.
//
// Example:
//
//	[engine]
//	cell_ft = 1.0
//	seed = 42
//	anneal = true
//
//	[weights]
//	adjacency = 20.0
//	proximity = 15.0
//
//	[render]
//	scale = 10.0
//	formats = ["svg", "png"]
type Config struct {
	Engine  EngineConfig  `toml:"engine"`
	Weights place.Weights `toml:"weights"`
	Render  RenderConfig  `toml:"render"`
	Cache   CacheConfig   `toml:"cache"`
	Server  ServerConfig  `toml:"server"`
}

// EngineConfig tunes normalization and placement.
type EngineConfig struct {
	CellFt        float64 `toml:"cell_ft"`
	Aspect        float64 `toml:"aspect"`
	DoorwayFt     float64 `toml:"doorway_ft"`
	PrivacyFt     float64 `toml:"privacy_ft"`
	CoverageRatio float64 `toml:"coverage_ratio"`
	Seed          uint64  `toml:"seed"`
	RepairPasses  int     `toml:"repair_passes"`
	Anneal        bool    `toml:"anneal"`
}

// RenderConfig tunes artifact rendering.
type RenderConfig struct {
	Scale   float64  `toml:"scale"`
	Formats []string `toml:"formats"`
}

// CacheConfig selects and configures the cache backend.
type CacheConfig struct {
	Dir           string `toml:"dir"`            // file cache directory
	RedisAddr     string `toml:"redis_addr"`     // host:port; empty means no Redis
	RedisPassword string `toml:"redis_password"` //
	RedisDB       int    `toml:"redis_db"`       //
}

// ServerConfig configures the API server.
type ServerConfig struct {
	Addr     string `toml:"addr"`
	MongoURI string `toml:"mongo_uri"` // empty means in-memory layout store
}

// LoadConfig reads a TOML config file. A missing file is not an error and
// returns an empty config, so callers can always load the default path.
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return &cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &cfg, nil
}

// Apply copies the config's non-zero values onto options that are still at
// their zero value, so explicit flags always win over the config file.
func (c *Config) Apply(opts *Options) {
	if opts.CellFt == 0 {
		opts.CellFt = c.Engine.CellFt
	}
	if opts.Aspect == 0 {
		opts.Aspect = c.Engine.Aspect
	}
	if opts.DoorwayFt == 0 {
		opts.DoorwayFt = c.Engine.DoorwayFt
	}
	if opts.PrivacyFt == 0 {
		opts.PrivacyFt = c.Engine.PrivacyFt
	}
	if opts.CoverageRatio == 0 {
		opts.CoverageRatio = c.Engine.CoverageRatio
	}
	if opts.Seed == 0 {
		opts.Seed = c.Engine.Seed
	}
	if opts.RepairPasses == 0 {
		opts.RepairPasses = c.Engine.RepairPasses
	}
	if c.Engine.Anneal {
		opts.Anneal = true
	}
	if opts.Weights == (place.Weights{}) {
		opts.Weights = c.Weights
	}
	if opts.Scale == 0 {
		opts.Scale = c.Render.Scale
	}
	if len(opts.Formats) == 0 && len(c.Render.Formats) > 0 {
		opts.Formats = append([]string(nil), c.Render.Formats...)
	}
}
