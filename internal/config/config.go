package config

import (
	"os"
	"path/filepath"
	"time"
)

// AppConfig holds application configuration
type AppConfig struct {
	APIBaseURL     string        `json:"api_base_url"`
	RequestTimeout time.Duration `json:"request_timeout"`
	PollInterval   time.Duration `json:"poll_interval"`
	ProgressTick   time.Duration `json:"progress_tick"`
	DatabasePath   string        `json:"database_path"`
	UITheme        string        `json:"ui_theme"`
}

// DefaultConfig returns default application configuration
func DefaultConfig() *AppConfig {
	return &AppConfig{
		APIBaseURL:     "http://localhost:5000",
		RequestTimeout: 15 * time.Second,
		PollInterval:   30 * time.Second,
		ProgressTick:   200 * time.Millisecond,
		DatabasePath:   defaultDatabasePath(),
		UITheme:        "light",
	}
}

// Load returns the default configuration with GOLOCAL_* environment
// overrides applied
func Load() *AppConfig {
	cfg := DefaultConfig()

	if v := os.Getenv("GOLOCAL_API_BASE_URL"); v != "" {
		cfg.APIBaseURL = v
	}
	if v := os.Getenv("GOLOCAL_REQUEST_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.RequestTimeout = d
		}
	}
	if v := os.Getenv("GOLOCAL_POLL_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.PollInterval = d
		}
	}
	if v := os.Getenv("GOLOCAL_DATABASE_PATH"); v != "" {
		cfg.DatabasePath = v
	}
	if v := os.Getenv("GOLOCAL_UI_THEME"); v != "" {
		cfg.UITheme = v
	}

	return cfg
}

func defaultDatabasePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "golocal.db"
	}
	return filepath.Join(dir, "golocal", "golocal.db")
}
