// Package config loads pinout settings from a TOML or YAML file.
//
// Settings are resolved in order: built-in defaults, the config file, then
// PINOUT_* environment variables. Command-line flags override all three and
// are applied by the CLI.
//
//	cfg, err := config.Load(path) // "" means the default location
//	if err != nil {
//	    return err
//	}
//	runner := pipeline.NewRunner(cache, nil, logger)
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/pinout/pkg/document"
	"github.com/matzehuels/pinout/pkg/errors"
)

// EnvPrefix prefixes environment overrides, e.g. PINOUT_RENDER_DPI.
const EnvPrefix = "PINOUT"

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Store backends for the render service.
const (
	StoreMemory = "memory"
	StoreMongo  = "mongo"
)

// Config is the complete pinout configuration.
type Config struct {
	Render RenderConfig `toml:"render" yaml:"render" envconfig:"RENDER"`
	Output OutputConfig `toml:"output" yaml:"output" envconfig:"OUTPUT"`
	Cache  CacheConfig  `toml:"cache" yaml:"cache" envconfig:"CACHE"`
	Server ServerConfig `toml:"server" yaml:"server" envconfig:"SERVER"`
}

// RenderConfig presets the document before any PAGE or DPI command.
type RenderConfig struct {
	Page     string `toml:"page" yaml:"page" envconfig:"PAGE" validate:"required,page"`
	DPI      int    `toml:"dpi" yaml:"dpi" envconfig:"DPI" validate:"min=50,max=1200"`
	Strict   bool   `toml:"strict" yaml:"strict" envconfig:"STRICT"`
	AssetDir string `toml:"asset_dir" yaml:"asset_dir" envconfig:"ASSET_DIR"`
}

// OutputConfig controls where the CLI writes artifacts.
type OutputConfig struct {
	Dir       string   `toml:"dir" yaml:"dir" envconfig:"DIR"`
	Formats   []string `toml:"formats" yaml:"formats" envconfig:"FORMATS" validate:"min=1,dive,oneof=svg png pdf"`
	Overwrite bool     `toml:"overwrite" yaml:"overwrite" envconfig:"OVERWRITE"`
}

// CacheConfig selects the artifact cache.
type CacheConfig struct {
	Backend string      `toml:"backend" yaml:"backend" envconfig:"BACKEND" validate:"oneof=file redis none"`
	Dir     string      `toml:"dir" yaml:"dir" envconfig:"DIR"`
	Redis   RedisConfig `toml:"redis" yaml:"redis" envconfig:"REDIS"`
}

// RedisConfig addresses the shared cache used by the render service.
type RedisConfig struct {
	Addr     string `toml:"addr" yaml:"addr" envconfig:"ADDR" validate:"omitempty,hostname_port"`
	Password string `toml:"password" yaml:"password" envconfig:"PASSWORD"`
	DB       int    `toml:"db" yaml:"db" envconfig:"DB" validate:"min=0"`
	Prefix   string `toml:"prefix" yaml:"prefix" envconfig:"PREFIX"`
}

// ServerConfig configures `pinout serve`.
type ServerConfig struct {
	Addr         string        `toml:"addr" yaml:"addr" envconfig:"ADDR" validate:"required"`
	MaxBodyBytes int64         `toml:"max_body_bytes" yaml:"max_body_bytes" envconfig:"MAX_BODY_BYTES" validate:"gt=0"`
	Timeout      time.Duration `toml:"timeout" yaml:"timeout" envconfig:"TIMEOUT" validate:"gt=0"`
	Store        string        `toml:"store" yaml:"store" envconfig:"STORE" validate:"oneof=memory mongo"`
	Mongo        MongoConfig   `toml:"mongo" yaml:"mongo" envconfig:"MONGO"`
}

// MongoConfig addresses the render history database.
type MongoConfig struct {
	URI        string `toml:"uri" yaml:"uri" envconfig:"URI"`
	Database   string `toml:"database" yaml:"database" envconfig:"DATABASE"`
	Collection string `toml:"collection" yaml:"collection" envconfig:"COLLECTION"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Render: RenderConfig{Page: document.DefaultPage, DPI: document.DefaultDPI},
		Output: OutputConfig{Dir: ".", Formats: []string{"svg"}},
		Cache:  CacheConfig{Backend: CacheFile, Redis: RedisConfig{Prefix: "pinout:"}},
		Server: ServerConfig{
			Addr:         ":8080",
			MaxBodyBytes: 1 << 20,
			Timeout:      30 * time.Second,
			Store:        StoreMemory,
			Mongo:        MongoConfig{Database: "pinout", Collection: "renders"},
		},
	}
}

// DefaultPath returns the default config file location. It may not exist.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "locate config directory")
	}
	return filepath.Join(dir, "pinout", "config.toml"), nil
}

// Load reads the configuration. An empty path uses [DefaultPath] and
// tolerates a missing file; an explicit path must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := cfg.decode(path, data); err != nil {
			return nil, err
		}
	case os.IsNotExist(err) && !explicit:
	default:
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read config %s", path)
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "environment overrides")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes data in the format named by path's extension on top of the
// defaults and validates the result. Environment overrides are not applied.
func Parse(path string, data []byte) (*Config, error) {
	cfg := Default()
	if err := cfg.decode(path, data); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) decode(path string, data []byte) error {
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		_, err = toml.Decode(string(data), c)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, c)
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "config %s: unsupported extension (use .toml, .yaml or .yml)", path)
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "parse config %s", path)
	}
	return nil
}
