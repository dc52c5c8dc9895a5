// Package config handles global Magpie configuration.
//
// Configuration lives in a single TOML file (by default
// ~/.config/magpie/config.toml) and is loaded once by the CLI and threaded
// into the scanning and indexing calls explicitly. Core packages never read
// ambient state.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config is the global Magpie configuration.
type Config struct {
	// DefaultWorkspace names the workspace used when none is specified.
	DefaultWorkspace string `toml:"default_workspace"`

	// Workspaces maps workspace names to their root directories.
	Workspaces map[string]string `toml:"workspaces"`

	// Exclude lists glob patterns (matched against workspace-relative
	// slash paths, `**` supported) skipped by every scan and repair pass.
	Exclude []string `toml:"exclude"`

	// UI holds optional CLI theming preferences.
	UI UIConfig `toml:"ui"`
}

// UIConfig holds optional CLI theming preferences.
type UIConfig struct {
	// Accent is an ANSI color code ("0"–"255") or hex color ("#RRGGBB")
	// used for paths and highlights.
	Accent string `toml:"accent"`
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "magpie", "config.toml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "magpie", "config.toml")
}

// Load reads the config at path. A missing file is not an error: it yields
// an empty config so `mgp --workspace-path` works without any setup.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &cfg, nil
}

// WorkspacePath resolves a workspace name to its root directory. An empty
// name falls back to the default workspace.
func (c *Config) WorkspacePath(name string) (string, error) {
	if name == "" {
		name = c.DefaultWorkspace
	}
	if name == "" {
		return "", fmt.Errorf("no workspace specified and no default_workspace configured")
	}
	if path, ok := c.Workspaces[name]; ok {
		return expandHome(path), nil
	}
	return "", fmt.Errorf("workspace '%s' not found in config", name)
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
