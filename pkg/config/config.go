// Package config loads and saves treetop's configuration and per-user
// display preferences. The main config is YAML under the user config dir;
// display preferences live in a flat key/value JSON store so individual
// keys survive schema changes.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the treetop application configuration.
type Config struct {
	Theme    string         `yaml:"theme"` // dark, light, or auto
	Document DocumentConfig `yaml:"document"`
	Display  DisplayConfig  `yaml:"display"`
	Watch    WatchConfig    `yaml:"watch"`
}

// DocumentConfig controls where documents are looked up.
type DocumentConfig struct {
	// DefaultPath is opened when no path argument is given. Empty means
	// discover in the current directory.
	DefaultPath string `yaml:"default_path,omitempty"`
}

// DisplayConfig controls outline rendering.
type DisplayConfig struct {
	// Indent is the number of cells each tree level shifts a row.
	Indent int `yaml:"indent"`
	// TruncateAt is the label budget in characters before the ellipsis.
	TruncateAt int `yaml:"truncate_at"`
	// ShowComments renders a node's comment as a dimmed second line.
	ShowComments bool `yaml:"show_comments"`
	// QuoteLabels wraps widget labels in double quotes.
	QuoteLabels bool `yaml:"quote_labels"`
}

// WatchConfig controls live-reload behavior.
type WatchConfig struct {
	Enabled      bool          `yaml:"enabled"`
	PollInterval time.Duration `yaml:"poll_interval"`
	Debounce     time.Duration `yaml:"debounce"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{
		Theme: "auto",
		Display: DisplayConfig{
			Indent:       2,
			TruncateAt:   32,
			ShowComments: true,
			QuoteLabels:  true,
		},
		Watch: WatchConfig{
			Enabled:      true,
			PollInterval: 2 * time.Second,
			Debounce:     250 * time.Millisecond,
		},
	}
}

// Dir returns the treetop config directory, honoring TREETOP_CONFIG_DIR
// for tests and portable setups.
func Dir() (string, error) {
	if dir := os.Getenv("TREETOP_CONFIG_DIR"); dir != "" {
		return expandHome(dir), nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(base, "treetop"), nil
}

// Path returns the config file path.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads the config file, returning defaults when it does not exist.
func Load() (Config, error) {
	path, err := Path()
	if err != nil {
		return DefaultConfig(), err
	}
	return LoadFrom(path)
}

// LoadFrom reads a config file from an explicit path. A missing file is not
// an error; fields absent from the file keep their defaults.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(expandHome(path))
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.normalize()
	return cfg, nil
}

// Save writes the config to the default path, creating the directory.
func Save(cfg Config) error {
	path, err := Path()
	if err != nil {
		return err
	}
	return SaveTo(cfg, path)
}

// SaveTo writes the config to an explicit path.
func SaveTo(cfg Config, path string) error {
	path = expandHome(path)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func (c *Config) normalize() {
	if c.Display.Indent <= 0 {
		c.Display.Indent = 2
	}
	if c.Display.TruncateAt <= 0 {
		c.Display.TruncateAt = 32
	}
	if c.Watch.PollInterval <= 0 {
		c.Watch.PollInterval = 2 * time.Second
	}
	if c.Watch.Debounce <= 0 {
		c.Watch.Debounce = 250 * time.Millisecond
	}
	switch c.Theme {
	case "dark", "light", "auto":
	default:
		c.Theme = "auto"
	}
}

// expandHome resolves a leading ~ to the user's home directory.
func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, strings.TrimPrefix(strings.TrimPrefix(path, "~"), "/"))
		}
	}
	return path
}
