// Package config loads plugdex configuration and resolves the target
// plugin directory.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config errors.
var (
	ErrInvalidConfig = errors.New("invalid configuration")
)

// DefaultFileName is the configuration file looked up in the working
// directory when no explicit path is given.
const DefaultFileName = "plugdex.toml"

// Registry configures the catalog client.
type Registry struct {
	BaseURL        string `toml:"base_url"`
	UserAgent      string `toml:"user_agent"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Search configures the search session.
type Search struct {
	PageSize   int `toml:"page_size"`
	DebounceMS int `toml:"debounce_ms"`
}

// Install configures the installer.
type Install struct {
	// Dir overrides target-directory resolution when set.
	Dir     string `toml:"dir"`
	Workers int    `toml:"workers"`
}

// Config is the complete plugdex configuration.
type Config struct {
	Registry Registry `toml:"registry"`
	Search   Search   `toml:"search"`
	Install  Install  `toml:"install"`
	// Loaders is the set of platform loaders enabled by default.
	Loaders []string `toml:"loaders"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Registry: Registry{
			BaseURL:        "https://api.modrinth.com/v2",
			UserAgent:      "plugdex/1.0 (github.com/plugdex/plugdex)",
			TimeoutSeconds: 10,
		},
		Search: Search{
			PageSize:   20,
			DebounceMS: 200,
		},
		Install: Install{
			Workers: 2,
		},
		Loaders: []string{"paper", "spigot", "bukkit", "purpur"},
	}
}

// Load reads the configuration at path, applying defaults for absent
// fields. An empty path falls back to DefaultFileName in the working
// directory; a missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultFileName
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Registry.BaseURL == "" {
		return fmt.Errorf("%w: registry base_url must not be empty", ErrInvalidConfig)
	}
	if c.Registry.TimeoutSeconds <= 0 {
		return fmt.Errorf("%w: registry timeout_seconds must be positive", ErrInvalidConfig)
	}
	if c.Search.PageSize <= 0 {
		return fmt.Errorf("%w: search page_size must be positive", ErrInvalidConfig)
	}
	if c.Search.DebounceMS < 0 {
		return fmt.Errorf("%w: search debounce_ms must not be negative", ErrInvalidConfig)
	}
	return nil
}

// Timeout returns the registry timeout as a duration.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.Registry.TimeoutSeconds) * time.Second
}

// Debounce returns the search debounce window as a duration.
func (c Config) Debounce() time.Duration {
	return time.Duration(c.Search.DebounceMS) * time.Millisecond
}

// ResolveTargetDir determines the plugin directory relative to the working
// directory: the working directory itself when it is named "plugins", an
// existing "plugins" subdirectory when present, otherwise a freshly
// created "plugins" subdirectory. An explicit install.dir wins.
func (c Config) ResolveTargetDir() (string, error) {
	if c.Install.Dir != "" {
		if err := os.MkdirAll(c.Install.Dir, 0o755); err != nil {
			return "", fmt.Errorf("failed to create target directory: %w", err)
		}
		return c.Install.Dir, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to determine working directory: %w", err)
	}

	if filepath.Base(cwd) == "plugins" {
		return cwd, nil
	}

	pluginsDir := filepath.Join(cwd, "plugins")
	if info, err := os.Stat(pluginsDir); err == nil && info.IsDir() {
		return pluginsDir, nil
	}

	if err := os.MkdirAll(pluginsDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create plugins directory: %w", err)
	}
	return pluginsDir, nil
}
