// Package config loads and provides application configuration.
//
// On first run, a default YAML config is written to ~/.glacierterm.yaml.
// Subsequent runs read and merge that file with built-in defaults.
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all user-configurable settings that aren't part of the
// per-run settings.json (font/llm endpoint) handled by Settings.
type Config struct {
	// Theme can be "dark" or "light" (plus a few bonus palettes).
	Theme string `yaml:"theme"`

	// MaxPanesPerTab limits panes in a single tab (1-12).
	MaxPanesPerTab int `yaml:"max_panes_per_tab"`

	// DefaultSSHPort is used when a login doesn't specify one.
	DefaultSSHPort int `yaml:"default_ssh_port"`

	// ReconnectRetryLimit is the streak length main.go passes to the
	// crash-health checks: that many consecutive dirty shutdowns turn
	// auto-logging on, and that many clean ones turn it off again.
	// Dropped connections are never retried automatically; a reconnect
	// is always started by the user.
	ReconnectRetryLimit int `yaml:"reconnect_retry_limit"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		Theme:               "dark",
		MaxPanesPerTab:      12,
		DefaultSSHPort:      22,
		ReconnectRetryLimit: 3,
	}
}

// configPath returns the path to ~/.glacierterm.yaml.
func configPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".glacierterm.yaml")
}

// Load reads the config file, falling back to defaults for missing fields.
func Load() Config {
	cfg := DefaultConfig()

	p := configPath()
	if p == "" {
		return cfg
	}

	data, err := os.ReadFile(p)
	if err != nil {
		// No config file yet – write defaults for future editing
		writeDefaults(p, cfg)
		return cfg
	}

	_ = yaml.Unmarshal(data, &cfg)

	if cfg.MaxPanesPerTab < 1 {
		cfg.MaxPanesPerTab = 1
	}
	if cfg.MaxPanesPerTab > 12 {
		cfg.MaxPanesPerTab = 12
	}

	validThemes := map[string]bool{"dark": true, "light": true, "dracula": true, "nord": true, "solarized": true}
	if !validThemes[cfg.Theme] {
		cfg.Theme = "dark"
	}

	if cfg.DefaultSSHPort <= 0 {
		cfg.DefaultSSHPort = 22
	}
	if cfg.ReconnectRetryLimit < 0 {
		cfg.ReconnectRetryLimit = 0
	}

	return cfg
}

// writeDefaults persists the default configuration to disk.
func writeDefaults(path string, cfg Config) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return
	}
	header := []byte("# glacierterm configuration\n# Edit this file to customise defaults.\n\n")
	_ = os.WriteFile(path, append(header, data...), 0644)
}
