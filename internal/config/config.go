// Package config provides configuration loading for workprogress.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"
)

// Config is the top-level configuration for the workprogress client.
type Config struct {
	Store   StoreConfig   `koanf:"store"`
	API     APIConfig     `koanf:"api"`
	Cache   CacheConfig   `koanf:"cache"`
	Logging LoggingConfig `koanf:"logging"`
}

// StoreConfig holds connection settings for the Supabase-style remote store.
type StoreConfig struct {
	// URL is the project base URL, e.g. https://xyzcompany.supabase.co
	URL string `koanf:"url"`

	// AnonKey is the publishable API key sent as the apikey header.
	AnonKey Secret `koanf:"anon_key"`

	// Timeout bounds each store request (default: 10s).
	Timeout Duration `koanf:"timeout"`
}

// APIConfig holds settings for the Express AI/work-progress API.
type APIConfig struct {
	// URL is the primary API base URL, e.g. http://localhost:5000
	URL string `koanf:"url"`

	// BackupURL is the production host tried after the primary when Dev is set.
	BackupURL string `koanf:"backup_url"`

	// Dev marks a development context; backup-host endpoints are only tried in dev.
	Dev bool `koanf:"dev"`

	// AskTimeout bounds each ask attempt (default: 15s).
	AskTimeout Duration `koanf:"ask_timeout"`

	// GenerateTimeout bounds generation calls (default: 30s).
	GenerateTimeout Duration `koanf:"generate_timeout"`

	// RequestsPerMinute caps outbound AI requests (default: 30).
	RequestsPerMinute int `koanf:"requests_per_minute"`
}

// CacheConfig holds settings for the read-path cache tiers.
type CacheConfig struct {
	// TTL is the freshness window for cached reads (default: 30s).
	TTL Duration `koanf:"ttl"`

	// MaxEntries bounds the in-memory cache (default: 128).
	MaxEntries int `koanf:"max_entries"`

	// MirrorPath is the file backing the persisted tasks mirror.
	// Default: ~/.config/workprogress/tasks_data.json
	MirrorPath string `koanf:"mirror_path"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// DefaultBackupAPIURL is the production host used when no backup URL is configured.
const DefaultBackupAPIURL = "https://meetingscribe-backend.onrender.com"

// applyDefaults sets default values for missing configuration fields.
func applyDefaults(cfg *Config) {
	if cfg.Store.Timeout == 0 {
		cfg.Store.Timeout = Duration(10 * time.Second)
	}
	if cfg.API.BackupURL == "" {
		cfg.API.BackupURL = DefaultBackupAPIURL
	}
	if cfg.API.AskTimeout == 0 {
		cfg.API.AskTimeout = Duration(15 * time.Second)
	}
	if cfg.API.GenerateTimeout == 0 {
		cfg.API.GenerateTimeout = Duration(30 * time.Second)
	}
	if cfg.API.RequestsPerMinute == 0 {
		cfg.API.RequestsPerMinute = 30
	}
	if cfg.Cache.TTL == 0 {
		cfg.Cache.TTL = Duration(30 * time.Second)
	}
	if cfg.Cache.MaxEntries == 0 {
		cfg.Cache.MaxEntries = 128
	}
	if cfg.Cache.MirrorPath == "" {
		if home, err := os.UserHomeDir(); err == nil {
			cfg.Cache.MirrorPath = filepath.Join(home, ".config", "workprogress", "tasks_data.json")
		}
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Store.URL != "" {
		if err := validateBaseURL(c.Store.URL); err != nil {
			return fmt.Errorf("store.url: %w", err)
		}
	}
	if c.API.URL != "" {
		if err := validateBaseURL(c.API.URL); err != nil {
			return fmt.Errorf("api.url: %w", err)
		}
	}
	if err := validateBaseURL(c.API.BackupURL); err != nil {
		return fmt.Errorf("api.backup_url: %w", err)
	}
	if c.Cache.MaxEntries < 0 {
		return fmt.Errorf("cache.max_entries must be non-negative, got %d", c.Cache.MaxEntries)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format must be 'json' or 'console', got %q", c.Logging.Format)
	}
	return nil
}

func validateBaseURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("URL must use http or https, got %q", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("URL missing host: %q", raw)
	}
	return nil
}
