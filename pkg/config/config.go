// Package config loads the hotelgen YAML configuration file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/chazu/hotelgen/pkg/logger"
	"github.com/chazu/hotelgen/pkg/profile"
)

// Config is the whole configuration file.
type Config struct {
	Logging  logger.Config                `yaml:"logging"`
	Build    BuildConfig                  `yaml:"build"`
	Profiles map[string]profile.Overrides `yaml:"profiles"`
	Catalog  CatalogConfig                `yaml:"catalog"`
	Export   ExportConfig                 `yaml:"export"`
	Script   ScriptConfig                 `yaml:"script"`
}

// BuildConfig holds defaults for single builds.
type BuildConfig struct {
	// Printer is the profile used when a request names none.
	Printer string `yaml:"printer"`

	// MaxTriangles caps every build's triangle budget, whatever the
	// request asks for.
	MaxTriangles int `yaml:"max_triangles"`

	// Simplify reduces meshes over budget instead of only warning.
	Simplify bool `yaml:"simplify"`

	// CellSize overrides the profile's marching cubes cell edge in mm.
	// Zero keeps the profile value.
	CellSize float64 `yaml:"cell_size"`

	// WallSamples is the number of probes of the wall thickness check.
	// Zero disables it.
	WallSamples int `yaml:"wall_samples"`
}

// CatalogConfig selects the build history store.
type CatalogConfig struct {
	Enabled bool   `yaml:"enabled"`
	Driver  string `yaml:"driver"` // sqlite or postgres
	DSN     string `yaml:"dsn"`    // file path for sqlite
}

// ExportConfig controls what a build writes to disk.
type ExportConfig struct {
	Directory   string   `yaml:"directory"`
	Formats     []string `yaml:"formats"`
	Preview     bool     `yaml:"preview"`
	PreviewSize int      `yaml:"preview_size"`
}

// ScriptConfig bounds script evaluation.
type ScriptConfig struct {
	TimeoutSeconds int `yaml:"timeout_seconds"`
}

// Timeout returns the evaluation limit.
func (s ScriptConfig) Timeout() time.Duration {
	if s.TimeoutSeconds <= 0 {
		return 5 * time.Second
	}
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		Logging: logger.DefaultConfig(),
		Build: BuildConfig{
			Printer:      "fdm",
			MaxTriangles: 200000,
			Simplify:     true,
		},
		Profiles: map[string]profile.Overrides{},
		Catalog: CatalogConfig{
			Driver: "sqlite",
			DSN:    "hotelgen.db",
		},
		Export: ExportConfig{
			Directory:   "out",
			Formats:     []string{"stl"},
			Preview:     false,
			PreviewSize: 256,
		},
		Script: ScriptConfig{TimeoutSeconds: 5},
	}
}

// LoadConfig reads path over the defaults. A missing file yields the
// defaults; environment overrides apply either way.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, config); err != nil {
				return DefaultConfig(), fmt.Errorf("failed to parse %s: %w", path, err)
			}
		case !os.IsNotExist(err):
			return config, fmt.Errorf("failed to read %s: %w", path, err)
		}
	}

	if err := config.applyEnv(); err != nil {
		return config, err
	}
	return config, nil
}

func (c *Config) applyEnv() error {
	if level := os.Getenv("HOTEL_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
	if raw := os.Getenv("HOTEL_MAX_TRIANGLES"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return fmt.Errorf("HOTEL_MAX_TRIANGLES must be a positive integer, got %q", raw)
		}
		c.Build.MaxTriangles = n
	}
	if dsn := os.Getenv("HOTEL_CATALOG_DSN"); dsn != "" {
		c.Catalog.DSN = dsn
		c.Catalog.Enabled = true
	}
	return nil
}

// Profile resolves a printer name, falling back to the build default, and
// applies the configured overrides for it.
func (c *Config) Profile(name string) (profile.Profile, error) {
	if name == "" {
		name = c.Build.Printer
	}
	p, err := profile.ByName(name)
	if err != nil {
		return p, err
	}
	if o, ok := c.Profiles[p.Name]; ok {
		p = p.Apply(o)
	}
	if c.Build.CellSize > 0 {
		p.MeshCellSize = c.Build.CellSize
	}
	return p, nil
}
