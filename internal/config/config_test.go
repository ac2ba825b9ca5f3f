// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "config.toml"))
	require.NoError(t, err)

	assert.Equal(t, "default", cfg.DefaultMode)
	assert.Equal(t, "http://127.0.0.1:8787", cfg.Server.URL)
	assert.Equal(t, "auto", cfg.UI.Theme)
	assert.True(t, cfg.History.Enabled)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
default_mode = "study"

[server]
url = "http://chat.example.test:9000"
timeout_seconds = 5
send_timeout_seconds = 30

[ui]
theme = "light"
markdown = false
show_timestamps = false
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, "study", cfg.DefaultMode)
	assert.Equal(t, "http://chat.example.test:9000", cfg.Server.URL)
	assert.Equal(t, 5*time.Second, cfg.Server.Timeout())
	assert.Equal(t, 30*time.Second, cfg.Server.SendTimeout())
	assert.Equal(t, "light", cfg.UI.Theme)
	assert.False(t, cfg.UI.Markdown)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PARLEY_SERVER_URL", "http://override.test:1234")
	t.Setenv("PARLEY_DEFAULT_MODE", "image")
	t.Setenv("PARLEY_THEME", "dark")

	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "config.toml"))
	require.NoError(t, err)

	assert.Equal(t, "http://override.test:1234", cfg.Server.URL)
	assert.Equal(t, "image", cfg.DefaultMode)
	assert.Equal(t, "dark", cfg.UI.Theme)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(c *Config) {}, true},
		{"bad url", func(c *Config) { c.Server.URL = "not a url" }, false},
		{"empty url", func(c *Config) { c.Server.URL = "" }, false},
		{"zero timeout", func(c *Config) { c.Server.TimeoutSeconds = 0 }, false},
		{"bad theme", func(c *Config) { c.UI.Theme = "solarized" }, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			err := cfg.Validate()
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg := DefaultConfig()
	cfg.DefaultMode = "calculation"
	cfg.UI.Theme = "dark"
	require.NoError(t, cfg.SaveTo(path))

	loaded, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "calculation", loaded.DefaultMode)
	assert.Equal(t, "dark", loaded.UI.Theme)
}

func TestWatcherReloads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, DefaultConfig().SaveTo(path))

	var reloads atomic.Int32
	var gotTheme atomic.Value

	w, err := NewWatcher(path, 50*time.Millisecond, func(cfg *Config) {
		gotTheme.Store(cfg.UI.Theme)
		reloads.Add(1)
	})
	require.NoError(t, err)
	defer w.Close()
	require.NoError(t, w.Watch())

	cfg := DefaultConfig()
	cfg.UI.Theme = "light"
	require.NoError(t, cfg.SaveTo(path))

	require.Eventually(t, func() bool { return reloads.Load() > 0 },
		3*time.Second, 20*time.Millisecond)
	assert.Equal(t, "light", gotTheme.Load())
}

func TestWatcherDropsInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, DefaultConfig().SaveTo(path))

	var reloads atomic.Int32
	w, err := NewWatcher(path, 50*time.Millisecond, func(*Config) { reloads.Add(1) })
	require.NoError(t, err)
	defer w.Close()
	require.NoError(t, w.Watch())

	require.NoError(t, os.WriteFile(path, []byte(`[server]`+"\n"+`url = ""`), 0644))

	// The broken file must not reach the callback.
	time.Sleep(300 * time.Millisecond)
	assert.Zero(t, reloads.Load())
}
