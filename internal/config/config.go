// Package config handles jigsaw command configuration loading.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/gogpu/jigsaw"
)

// Config holds all command settings.
type Config struct {
	Grid    GridConfig    `yaml:"grid" toml:"grid"`
	Render  RenderConfig  `yaml:"render" toml:"render"`
	Server  ServerConfig  `yaml:"server" toml:"server"`
	Logging LoggingConfig `yaml:"logging" toml:"logging"`
}

// GridConfig holds the board layout.
type GridConfig struct {
	Rows    int `yaml:"rows" toml:"rows"`
	Columns int `yaml:"columns" toml:"columns"`

	// Seed makes tab directions reproducible. Zero picks them at random.
	Seed uint64 `yaml:"seed" toml:"seed"`
}

// RenderConfig holds compositing settings.
type RenderConfig struct {
	Scale   float64 `yaml:"scale" toml:"scale"`
	Workers int     `yaml:"workers" toml:"workers"`

	DarkShadow  ShadowConfig `yaml:"dark_shadow" toml:"dark_shadow"`
	LightShadow ShadowConfig `yaml:"light_shadow" toml:"light_shadow"`
}

// ShadowConfig describes one inner shadow pass. Color is a hex string.
type ShadowConfig struct {
	Color   string  `yaml:"color" toml:"color"`
	OffsetX float64 `yaml:"offset_x" toml:"offset_x"`
	OffsetY float64 `yaml:"offset_y" toml:"offset_y"`
	Blur    float64 `yaml:"blur" toml:"blur"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr string `yaml:"addr" toml:"addr"`

	// MaxUploadMB limits the size of uploaded images.
	MaxUploadMB int `yaml:"max_upload_mb" toml:"max_upload_mb"`

	// CacheEntries bounds the number of seeded responses kept in memory.
	// Zero disables the cache.
	CacheEntries int `yaml:"cache_entries" toml:"cache_entries"`

	// MaxGrid is the largest accepted row or column count.
	MaxGrid int `yaml:"max_grid" toml:"max_grid"`

	// MaxPixels is the largest accepted decoded image area (width * height).
	MaxPixels int `yaml:"max_pixels" toml:"max_pixels"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level" toml:"level"`
	LogFile string `yaml:"log_file" toml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Grid: GridConfig{
			Rows:    4,
			Columns: 4,
		},
		Render: RenderConfig{
			Scale:       1,
			Workers:     0,
			DarkShadow:  shadowConfig(jigsaw.DefaultDarkShadow()),
			LightShadow: shadowConfig(jigsaw.DefaultLightShadow()),
		},
		Server: ServerConfig{
			Addr:         ":8080",
			MaxUploadMB:  32,
			CacheEntries: 64,
			MaxGrid:      64,
			MaxPixels:    40_000_000,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

func shadowConfig(s jigsaw.Shadow) ShadowConfig {
	return ShadowConfig{
		Color:   s.Color.Hex(),
		OffsetX: s.Offset.X,
		OffsetY: s.Offset.Y,
		Blur:    s.BlurRadius,
	}
}

// Shadow converts the configuration into a jigsaw shadow pass.
func (s ShadowConfig) Shadow() (jigsaw.Shadow, error) {
	c, err := jigsaw.ParseHex(s.Color)
	if err != nil {
		return jigsaw.Shadow{}, err
	}
	return jigsaw.Shadow{
		Color:      c,
		Offset:     jigsaw.Pt(s.OffsetX, s.OffsetY),
		BlurRadius: s.Blur,
	}, nil
}

// Load loads configuration with priority: defaults < file.
// An empty path returns the defaults. The format is picked from the file
// extension: .yaml, .yml or .toml.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if err := loadFromFile(cfg, path); err != nil {
		return nil, fmt.Errorf("loading config from %s: %w", path, err)
	}
	return cfg, nil
}

// loadFromFile loads config from a file, merging with existing values.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, cfg)
	case ".toml":
		return toml.Unmarshal(data, cfg)
	default:
		return fmt.Errorf("unsupported config format %q", ext)
	}
}

// SaveTo writes the config to path as YAML.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Validate reports settings that can never produce a board.
func (c *Config) Validate() error {
	if c.Grid.Rows < jigsaw.MinGridSize || c.Grid.Columns < jigsaw.MinGridSize {
		return fmt.Errorf("%w: got %dx%d", jigsaw.ErrInvalidGridSize, c.Grid.Rows, c.Grid.Columns)
	}
	if c.Render.Scale <= 0 {
		return fmt.Errorf("render scale must be positive, got %v", c.Render.Scale)
	}
	if c.Server.MaxGrid < jigsaw.MinGridSize {
		return fmt.Errorf("server max_grid must be at least %d, got %d", jigsaw.MinGridSize, c.Server.MaxGrid)
	}
	if c.Server.MaxPixels <= 0 {
		return fmt.Errorf("server max_pixels must be positive, got %d", c.Server.MaxPixels)
	}
	return nil
}

// Options converts the render and grid settings into maker options.
func (c *Config) Options() ([]jigsaw.Option, error) {
	dark, err := c.Render.DarkShadow.Shadow()
	if err != nil {
		return nil, fmt.Errorf("dark_shadow: %w", err)
	}
	light, err := c.Render.LightShadow.Shadow()
	if err != nil {
		return nil, fmt.Errorf("light_shadow: %w", err)
	}

	opts := []jigsaw.Option{
		jigsaw.WithWorkers(c.Render.Workers),
		jigsaw.WithDarkShadow(dark),
		jigsaw.WithLightShadow(light),
	}
	if c.Grid.Seed != 0 {
		opts = append(opts, jigsaw.WithSeed(c.Grid.Seed))
	}
	return opts, nil
}
