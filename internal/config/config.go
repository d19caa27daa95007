// Package config holds the liveedit configuration: storage locations,
// logging, and the resize clamp bounds applied to every drag.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"liveedit/internal/geometry"
)

// Config holds all liveedit configuration.
type Config struct {
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
	Resize  ResizeConfig  `yaml:"resize"`
	UI      UIConfig      `yaml:"ui"`
}

// StorageConfig configures the durable key-value store.
type StorageConfig struct {
	// Path to the sqlite database file.
	Path string `yaml:"path"`
}

// LogConfig configures the process logger and the activity log.
type LogConfig struct {
	Level        string `yaml:"level"`  // debug, info, warn, error
	Format       string `yaml:"format"` // json, console
	File         string `yaml:"file"`
	ActivityFile string `yaml:"activity_file"`
}

// ResizeConfig bounds the geometry a drag may produce.
type ResizeConfig struct {
	MinWidth  int `yaml:"min_width"`
	MaxWidth  int `yaml:"max_width"`
	MinHeight int `yaml:"min_height"`
}

// Clamp converts the bounds into the geometry type controllers consume.
func (r ResizeConfig) Clamp() geometry.Clamp {
	return geometry.Clamp{MinWidth: r.MinWidth, MaxWidth: r.MaxWidth, MinHeight: r.MinHeight}
}

// UIConfig configures the demo page.
type UIConfig struct {
	Theme string `yaml:"theme"` // light, dark
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			Path: "data/liveedit.db",
		},
		Log: LogConfig{
			Level:        "info",
			Format:       "console",
			ActivityFile: "data/activity.log",
		},
		Resize: ResizeConfig{
			MinWidth:  50,
			MaxWidth:  1200,
			MinHeight: 20,
		},
		UI: UIConfig{
			Theme: "dark",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults; a malformed file is an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes the configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides applies LIVEEDIT_* environment variables on top of
// whatever the file provided.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("LIVEEDIT_STORAGE_PATH"); v != "" {
		c.Storage.Path = v
	}
	if v := os.Getenv("LIVEEDIT_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("LIVEEDIT_LOG_FILE"); v != "" {
		c.Log.File = v
	}
	if v := os.Getenv("LIVEEDIT_ACTIVITY_FILE"); v != "" {
		c.Log.ActivityFile = v
	}
	if v, ok := envInt("LIVEEDIT_MIN_WIDTH"); ok {
		c.Resize.MinWidth = v
	}
	if v, ok := envInt("LIVEEDIT_MAX_WIDTH"); ok {
		c.Resize.MaxWidth = v
	}
	if v, ok := envInt("LIVEEDIT_MIN_HEIGHT"); ok {
		c.Resize.MinHeight = v
	}
}

func envInt(name string) (int, bool) {
	v := os.Getenv(name)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}
