// Copyright (c) 2024-2025 Velora App
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/velora-app/velora-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete velora configuration.
type Config struct {
	Version string `toml:"version"`

	API     APIConfig     `toml:"api"`
	UI      UIConfig      `toml:"ui"`
	Storage StorageConfig `toml:"storage"`
	Dev     DevConfig     `toml:"dev"`
}

// APIConfig contains backend connection settings.
type APIConfig struct {
	// BaseURL is the root of the storefront REST API.
	BaseURL string `toml:"base_url"`
	// TimeoutSecs is the per-request timeout in seconds.
	TimeoutSecs int `toml:"timeout_secs"`
	// DeviceName is sent with device-token registration so the backend can
	// label push targets; purely informational.
	DeviceName string `toml:"device_name"`
}

// UIConfig contains presentation settings.
type UIConfig struct {
	// Locale selects the message catalog ("en", "vi").
	Locale string `toml:"locale"`
	// Theme selects the color theme ("auto", "dark", "light").
	Theme string `toml:"theme"`
	// StartMode optionally deep-links the auth screen into a mode other
	// than login ("register", "forgot"). Empty means login.
	StartMode string `toml:"start_mode"`
}

// StorageConfig contains local data settings.
type StorageConfig struct {
	// DataDir holds the session record, the catalog cache, and logs.
	// Default: ~/.velora
	DataDir string `toml:"data_dir"`
	// CacheEnabled toggles the local SQLite catalog cache.
	CacheEnabled bool `toml:"cache_enabled"`
}

// DevConfig contains settings for the bundled development backend.
type DevConfig struct {
	// ListenAddr is where `velora serve` binds.
	ListenAddr string `toml:"listen_addr"`
	// OTPDebug makes the dev server log issued OTP codes so the flow can be
	// exercised without an SMS channel.
	OTPDebug bool `toml:"otp_debug"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns the built-in default configuration.
func Default() *Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return &Config{
		Version: "1",
		API: APIConfig{
			BaseURL:     "http://localhost:8990/api/v1",
			TimeoutSecs: 15,
			DeviceName:  "velora-tui",
		},
		UI: UIConfig{
			Locale: "en",
			Theme:  "auto",
		},
		Storage: StorageConfig{
			DataDir:      filepath.Join(home, ".velora"),
			CacheEnabled: true,
		},
		Dev: DevConfig{
			ListenAddr: "localhost:8990",
			OTPDebug:   true,
		},
	}
}

// Path returns the config file location (~/.velora/config.toml).
func Path() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".velora", "config.toml")
}

// =============================================================================
// LOADING
// =============================================================================

// Load reads the config file at path, applies env overrides, and validates.
// A missing file is not an error: defaults plus env overrides are returned.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// Defaults only.
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides applies VELORA_* environment variables over file values.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("VELORA_API_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("VELORA_TIMEOUT_SECS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.API.TimeoutSecs = n
		}
	}
	if v := os.Getenv("VELORA_LOCALE"); v != "" {
		c.UI.Locale = v
	}
	if v := os.Getenv("VELORA_DATA_DIR"); v != "" {
		c.Storage.DataDir = v
	}
}

// Validate checks invariants that would otherwise surface as confusing
// runtime failures.
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("api.base_url %q is not a valid URL", c.API.BaseURL)
	}
	if c.API.TimeoutSecs <= 0 {
		return fmt.Errorf("api.timeout_secs must be positive, got %d", c.API.TimeoutSecs)
	}
	return nil
}

// Timeout returns the request timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.API.TimeoutSecs) * time.Second
}

// Save writes the config to path atomically.
func (c *Config) Save(path string) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return util.AtomicWriteFile(path, buf.Bytes(), 0644)
}

// =============================================================================
// GLOBAL ACCESSOR
// =============================================================================

var (
	globalMu  sync.RWMutex
	globalCfg *Config
)

// Global returns the active configuration, loading it on first access.
func Global() *Config {
	globalMu.RLock()
	cfg := globalCfg
	globalMu.RUnlock()
	if cfg != nil {
		return cfg
	}

	loaded, err := Load(Path())
	if err != nil {
		loaded = Default()
	}

	globalMu.Lock()
	if globalCfg == nil {
		globalCfg = loaded
	}
	cfg = globalCfg
	globalMu.Unlock()
	return cfg
}

// SetGlobal replaces the active configuration.
func SetGlobal(cfg *Config) {
	globalMu.Lock()
	globalCfg = cfg
	globalMu.Unlock()
}

// ReloadGlobal re-reads the config file and swaps the active configuration.
func ReloadGlobal() error {
	cfg, err := Load(Path())
	if err != nil {
		return err
	}
	SetGlobal(cfg)
	return nil
}

// ResetGlobalForTesting clears the global config so tests start clean.
func ResetGlobalForTesting() {
	globalMu.Lock()
	globalCfg = nil
	globalMu.Unlock()
}
