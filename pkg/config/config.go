// Package config loads crosscover run settings.
//
// Settings are layered: [Default], then a TOML file ([Load]), then
// CROSSCOVER_* environment variables ([FromEnv]). Command-line flags are
// applied last by the CLI. A minimal file looks like:
//
//	assay    = "calls.txt"
//	pairs    = "pairs.txt"
//	strategy = "exhaustive"
//	max_k    = 4
//	formats  = ["txt", "svg"]
//
//	[calls]
//	het = "AB"
//
//	[cache]
//	backend = "file"
//	ttl     = "168h"
package config

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/kelseyhightower/envconfig"

	"github.com/matzehuels/crosscover/pkg/errors"
	"github.com/matzehuels/crosscover/pkg/pipeline"
)

// EnvPrefix prefixes every environment override, e.g. CROSSCOVER_MAX_K.
const EnvPrefix = "CROSSCOVER"

// DefaultFile is the config file looked up in the working directory.
const DefaultFile = "crosscover.toml"

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Config is the effective run configuration.
type Config struct {
	Assay    string   `toml:"assay,omitempty"`
	Pairs    string   `toml:"pairs,omitempty"`
	MaxK     int      `toml:"max_k" split_words:"true"`
	Strategy string   `toml:"strategy"`
	Formats  []string `toml:"formats"`
	Output   string   `toml:"output,omitempty"`
	Width    float64  `toml:"width"`
	Height   float64  `toml:"height"`
	Detailed bool     `toml:"detailed"`

	TrailingColumns int    `toml:"trailing_columns" split_words:"true"`
	SampleSuffix    string `toml:"sample_suffix,omitempty" split_words:"true"`

	Calls Calls       `toml:"calls"`
	Cache CacheConfig `toml:"cache"`
}

// Calls is the genotype call alphabet. Empty symbols take the defaults.
type Calls struct {
	HomA string `toml:"hom_a,omitempty" split_words:"true"`
	HomB string `toml:"hom_b,omitempty" split_words:"true"`
	Het  string `toml:"het,omitempty"`
}

// CacheConfig selects and configures the cache backend.
type CacheConfig struct {
	Backend       string        `toml:"backend"`
	Dir           string        `toml:"dir,omitempty"`
	RedisAddr     string        `toml:"redis_addr,omitempty" split_words:"true"`
	RedisPassword string        `toml:"-" split_words:"true"`
	RedisDB       int           `toml:"redis_db,omitempty" split_words:"true"`
	TTL           time.Duration `toml:"ttl"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		MaxK:     pipeline.DefaultMaxK,
		Strategy: pipeline.DefaultStrategy,
		Formats:  []string{pipeline.FormatText},
		Width:    pipeline.DefaultWidth,
		Height:   pipeline.DefaultHeight,
		Cache: CacheConfig{
			Backend: BackendFile,
			TTL:     7 * 24 * time.Hour,
		},
	}
}

// Load reads path over the defaults. Keys that match no field are returned
// as undecoded so the caller can warn about them.
func Load(path string) (*Config, []string, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
		}
		return nil, nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	var undecoded []string
	for _, key := range md.Undecoded() {
		undecoded = append(undecoded, key.String())
	}
	return cfg, undecoded, nil
}

// LoadOptional is [Load] that returns the defaults when path does not exist.
func LoadOptional(path string) (*Config, []string, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil, nil
	}
	return Load(path)
}

// FromEnv applies CROSSCOVER_* environment overrides to cfg. Unset
// variables leave fields unchanged.
func FromEnv(cfg *Config) error {
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "environment")
	}
	return nil
}

// Validate checks cfg for values no run can use.
func (c *Config) Validate() error {
	if c.MaxK < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "max_k must not be negative, got %d", c.MaxK)
	}
	if err := pipeline.ValidateStrategy(c.Strategy); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "strategy")
	}
	if err := pipeline.ValidateFormats(c.Formats); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "formats")
	}
	if c.Width < 0 || c.Height < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "width and height must not be negative")
	}
	switch strings.ToLower(c.Cache.Backend) {
	case BackendFile, BackendNone, "":
	case BackendRedis:
		if c.Cache.RedisAddr == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache.redis_addr is required for the redis backend")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig,
			"unknown cache.backend %q (must be one of: file, redis, none)", c.Cache.Backend)
	}
	if c.Cache.TTL < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.ttl must not be negative")
	}
	if c.Output != "" {
		if err := errors.ValidateOutputPath(c.Output); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "output")
		}
	}
	return nil
}

// PipelineOptions maps cfg onto pipeline options.
func (c *Config) PipelineOptions() pipeline.Options {
	return pipeline.Options{
		Assay:           c.Assay,
		Pairs:           c.Pairs,
		TrailingColumns: c.TrailingColumns,
		SampleSuffix:    c.SampleSuffix,
		HomA:            c.Calls.HomA,
		HomB:            c.Calls.HomB,
		Het:             c.Calls.Het,
		Strategy:        c.Strategy,
		MaxK:            c.MaxK,
		Formats:         append([]string(nil), c.Formats...),
		Width:           c.Width,
		Height:          c.Height,
		Detailed:        c.Detailed,
	}
}

// Write encodes cfg as TOML.
func (c *Config) Write(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}
