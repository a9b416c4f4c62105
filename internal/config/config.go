// Package config provides configuration loading and validation for the portal.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/jonathan/futurotec/internal/schemas"
)

// Defaults used when neither the config file nor the environment sets a value.
const (
	DefaultPort        = 8080
	DefaultLandingPage = "/index.html"
	DefaultDateLayout  = "02/01/2006"
	DefaultLogFormat   = "text"
	DefaultLogLevel    = "info"
)

// Config is the portal configuration. It can be loaded from a JSON file;
// every field is optional.
type Config struct {
	Port        int    `json:"port,omitempty"`
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL
	LandingPage string `json:"landing_page,omitempty"` // Redirect target for signed-out users
	DateLayout  string `json:"date_layout,omitempty"`  // Go time layout for candidacy dates
	LogFormat   string `json:"log_format,omitempty"`   // text or json
	LogLevel    string `json:"log_level,omitempty"`

	// Pointer so an explicit false in the file survives the merge.
	RateLimitEnabled *bool `json:"rate_limit_enabled,omitempty"`
}

// LoadConfig loads configuration from a JSON file. The file must satisfy the
// embedded config schema.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := schemas.ValidateConfig(data); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}

	return &cfg, nil
}

// Default returns the built-in configuration.
func Default() Config {
	enabled := true
	return Config{
		Port:             DefaultPort,
		LandingPage:      DefaultLandingPage,
		DateLayout:       DefaultDateLayout,
		LogFormat:        DefaultLogFormat,
		LogLevel:         DefaultLogLevel,
		RateLimitEnabled: &enabled,
	}
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.LandingPage == "" {
		result.LandingPage = defaults.LandingPage
	}
	if result.DateLayout == "" {
		result.DateLayout = defaults.DateLayout
	}
	if result.LogFormat == "" {
		result.LogFormat = defaults.LogFormat
	}
	if result.LogLevel == "" {
		result.LogLevel = defaults.LogLevel
	}
	if result.RateLimitEnabled == nil {
		result.RateLimitEnabled = defaults.RateLimitEnabled
	}

	return result
}

// ApplyEnv overrides fields from DATABASE_URL and PORT when they are set.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.DatabaseURL = v
	}
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT: %v", err)
		}
		c.Port = port
	}
	return nil
}

// Validate checks that the configuration has usable values.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' out of range: %d", c.Port)
	}
	if c.DatabaseURL == "" {
		return fmt.Errorf("config error: 'database_url' is required (or set DATABASE_URL)")
	}
	if len(c.LandingPage) == 0 || c.LandingPage[0] != '/' {
		return fmt.Errorf("config error: 'landing_page' must be an absolute path")
	}
	return nil
}

// RateLimitOn reports whether request rate limiting is enabled.
func (c *Config) RateLimitOn() bool {
	return c.RateLimitEnabled == nil || *c.RateLimitEnabled
}
