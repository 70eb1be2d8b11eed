// Package config handles configuration loading and validation for flotilla.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/colonyops/flotilla/internal/core/styles"
)

// Config holds the application configuration.
type Config struct {
	// Roots are directories scanned for git repositories.
	Roots []string `yaml:"roots"`
	// Ignore holds glob patterns matched against repository paths
	// relative to their root. Matching repositories are skipped.
	Ignore []string  `yaml:"ignore"`
	Git    GitConfig `yaml:"git"`
	UI     UIConfig  `yaml:"ui"`
}

// GitConfig holds git execution settings.
type GitConfig struct {
	Path        string `yaml:"path"`
	Workers     int    `yaml:"workers"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// UIConfig holds TUI behavior settings.
type UIConfig struct {
	// AutoRefreshSecs is the interval between background status refreshes.
	// Zero disables auto-refresh.
	AutoRefreshSecs int `yaml:"auto_refresh_secs"`
	// Theme names a built-in color palette.
	Theme string `yaml:"theme"`
}

// Timeout returns the per-operation git timeout.
func (g GitConfig) Timeout() time.Duration {
	return time.Duration(g.TimeoutSecs) * time.Second
}

// AutoRefresh returns the auto-refresh interval, or zero when disabled.
func (u UIConfig) AutoRefresh() time.Duration {
	return time.Duration(u.AutoRefreshSecs) * time.Second
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Roots: []string{"~/code"},
		Git: GitConfig{
			Path:        "git",
			Workers:     8,
			TimeoutSecs: 30,
		},
		UI: UIConfig{
			AutoRefreshSecs: 0,
			Theme:           styles.DefaultTheme,
		},
	}
}

// Load reads configuration from the given path. If configPath is empty or
// doesn't exist, returns defaults.
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if len(c.Roots) == 0 {
		c.Roots = defaults.Roots
	}
	if c.Git.Path == "" {
		c.Git.Path = defaults.Git.Path
	}
	if c.Git.Workers == 0 {
		c.Git.Workers = defaults.Git.Workers
	}
	if c.Git.TimeoutSecs == 0 {
		c.Git.TimeoutSecs = defaults.Git.TimeoutSecs
	}
	if c.UI.Theme == "" {
		c.UI.Theme = defaults.UI.Theme
	}
}

// Validate checks that the configuration is structurally valid.
func (c *Config) Validate() error {
	if c.Git.Path == "" {
		return fmt.Errorf("git.path cannot be empty")
	}

	if c.Git.Workers < 1 {
		return fmt.Errorf("git.workers must be at least 1")
	}

	if c.Git.TimeoutSecs < 1 {
		return fmt.Errorf("git.timeout_secs must be at least 1")
	}

	if c.UI.AutoRefreshSecs < 0 {
		return fmt.Errorf("ui.auto_refresh_secs cannot be negative")
	}

	if _, ok := styles.GetPalette(c.UI.Theme); !ok {
		return fmt.Errorf("ui.theme %q is not a built-in theme (have %v)", c.UI.Theme, styles.ThemeNames())
	}

	if len(c.Roots) == 0 {
		return fmt.Errorf("roots cannot be empty")
	}

	return nil
}

// ExpandedRoots returns roots with a leading "~" resolved against the
// user's home directory.
func (c *Config) ExpandedRoots() ([]string, error) {
	out := make([]string, 0, len(c.Roots))
	for _, root := range c.Roots {
		expanded, err := expandHome(root)
		if err != nil {
			return nil, fmt.Errorf("root %q: %w", root, err)
		}
		out = append(out, expanded)
	}
	return out, nil
}

func expandHome(path string) (string, error) {
	if path == "~" || len(path) > 1 && path[0] == '~' && path[1] == os.PathSeparator {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		if path == "~" {
			return home, nil
		}
		return filepath.Join(home, path[2:]), nil
	}
	return path, nil
}
