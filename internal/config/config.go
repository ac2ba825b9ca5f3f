// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for parley.
//
// Configuration lives in ~/.parley/config.toml with built-in defaults and
// environment variable overrides:
//
//   - PARLEY_SERVER_URL   overrides server.url
//   - PARLEY_DEFAULT_MODE overrides default_mode
//   - PARLEY_THEME        overrides ui.theme
package config

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/morganforge/parley/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete parley configuration.
type Config struct {
	// DefaultMode is the mode new sessions start in.
	DefaultMode string `toml:"default_mode"`

	// Server holds the backend connection settings.
	Server ServerConfig `toml:"server"`

	// UI holds presentation settings.
	UI UIConfig `toml:"ui"`

	// History holds prompt history settings.
	History HistoryConfig `toml:"history"`
}

// ServerConfig contains backend connection configuration.
type ServerConfig struct {
	// URL is the backend base URL.
	URL string `toml:"url"`
	// TimeoutSeconds bounds list/fetch/clear requests.
	TimeoutSeconds int `toml:"timeout_seconds"`
	// SendTimeoutSeconds bounds send requests, which block until the
	// assistant reply is generated.
	SendTimeoutSeconds int `toml:"send_timeout_seconds"`
}

// UIConfig contains presentation configuration.
type UIConfig struct {
	// Theme is "dark", "light", or "auto" (detect from the terminal).
	Theme string `toml:"theme"`
	// Markdown renders assistant replies through glamour when true;
	// when false only fenced code blocks are highlighted.
	Markdown bool `toml:"markdown"`
	// ShowTimestamps renders message times in the chat view.
	ShowTimestamps bool `toml:"show_timestamps"`
}

// HistoryConfig contains prompt history configuration.
type HistoryConfig struct {
	// Enabled turns local prompt history on.
	Enabled bool `toml:"enabled"`
	// MaxEntries bounds the history size (0 = unlimited).
	MaxEntries int `toml:"max_entries"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		DefaultMode: "default",
		Server: ServerConfig{
			URL:                "http://127.0.0.1:8787",
			TimeoutSeconds:     15,
			SendTimeoutSeconds: 120,
		},
		UI: UIConfig{
			Theme:          "auto",
			Markdown:       true,
			ShowTimestamps: true,
		},
		History: HistoryConfig{
			Enabled:    true,
			MaxEntries: 500,
		},
	}
}

// Timeout returns the request timeout as a duration.
func (c *ServerConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// SendTimeout returns the send timeout as a duration.
func (c *ServerConfig) SendTimeout() time.Duration {
	return time.Duration(c.SendTimeoutSeconds) * time.Second
}

// =============================================================================
// PATHS
// =============================================================================

// ConfigDir returns ~/.parley, creating it if necessary.
func ConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(homeDir, ".parley")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}

// ConfigPath returns the path of the configuration file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// HistoryPath returns the path of the prompt history database.
func HistoryPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "history.db"), nil
}

// =============================================================================
// LOAD / SAVE
// =============================================================================

// Load reads the configuration file, applies environment overrides, and
// validates the result. A missing file is not an error: defaults apply.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom is Load with an explicit path, for tests.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := toml.DecodeFile(path, cfg); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides layers PARLEY_* environment variables over the file.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PARLEY_SERVER_URL"); v != "" {
		cfg.Server.URL = v
	}
	if v := os.Getenv("PARLEY_DEFAULT_MODE"); v != "" {
		cfg.DefaultMode = v
	}
	if v := os.Getenv("PARLEY_THEME"); v != "" {
		cfg.UI.Theme = v
	}
}

// Validate checks the configuration for values that cannot work.
func (c *Config) Validate() error {
	parsed, err := url.Parse(c.Server.URL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("invalid server url: %q", c.Server.URL)
	}
	if c.Server.TimeoutSeconds <= 0 {
		return fmt.Errorf("timeout_seconds must be positive, got %d", c.Server.TimeoutSeconds)
	}
	if c.Server.SendTimeoutSeconds <= 0 {
		return fmt.Errorf("send_timeout_seconds must be positive, got %d", c.Server.SendTimeoutSeconds)
	}
	switch c.UI.Theme {
	case "dark", "light", "auto":
	default:
		return fmt.Errorf("theme must be dark, light, or auto, got %q", c.UI.Theme)
	}
	return nil
}

// Save writes the configuration atomically to the default path.
func (c *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo is Save with an explicit path, for tests.
func (c *Config) SaveTo(path string) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return util.AtomicWriteFile(path, buf.Bytes(), 0644)
}
