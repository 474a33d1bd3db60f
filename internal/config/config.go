package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration.
type Config struct {
	Environment string        `toml:"environment"`
	Server      ServerConfig  `toml:"server"`
	Data        DataConfig    `toml:"data"`
	Display     DisplayConfig `toml:"display"`
	Theme       ThemeConfig   `toml:"theme"`
	Storage     StorageConfig `toml:"storage"`
	MCP         MCPConfig     `toml:"mcp"`
	Logging     LoggingConfig `toml:"logging"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port int    `toml:"port"`
	Host string `toml:"host"`
}

// DataConfig points at the generated newsletter documents.
// Empty paths use the documents embedded in the binary.
type DataConfig struct {
	OutputPath string `toml:"output_path"`
	TrackPath  string `toml:"track_path"`
}

// DisplayConfig contains page branding and date display settings.
type DisplayConfig struct {
	Title      string `toml:"title"`
	BrandURL   string `toml:"brand_url"`
	BrandLabel string `toml:"brand_label"`
	Timezone   string `toml:"timezone"`
}

// ThemeConfig contains theme persistence settings.
type ThemeConfig struct {
	StorageKey string `toml:"storage_key"`
}

// StorageConfig contains storage layer settings.
type StorageConfig struct {
	Backend string       `toml:"backend"` // "badger", "memory" or "cookie"
	Badger  BadgerConfig `toml:"badger"`
	Cookie  CookieConfig `toml:"cookie"`
}

// BadgerConfig contains BadgerDB-specific settings.
type BadgerConfig struct {
	Path string `toml:"path"`
}

// CookieConfig contains settings for the cookie storage backend.
type CookieConfig struct {
	MaxAgeDays int  `toml:"max_age_days"`
	Secure     bool `toml:"secure"`
}

// MCPConfig toggles the MCP endpoint.
type MCPConfig struct {
	Enabled bool `toml:"enabled"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level      string   `toml:"level"`
	Outputs    []string `toml:"outputs"`
	FilePath   string   `toml:"file_path"`
	MaxSizeMB  int      `toml:"max_size_mb"`
	MaxBackups int      `toml:"max_backups"`
}

// IsDevMode reports whether the portal runs in the dev environment.
func (c *Config) IsDevMode() bool {
	return strings.EqualFold(strings.TrimSpace(c.Environment), "dev")
}

// Location returns the display time zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Display.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Display.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid display timezone %q: %w", c.Display.Timezone, err)
	}
	return loc, nil
}

// BaseURL returns the URL the portal listens on.
func (c *Config) BaseURL() string {
	return fmt.Sprintf("http://%s:%d", c.Server.Host, c.Server.Port)
}

// Validate returns a list of configuration problems. An empty list means the
// configuration is usable.
func (c *Config) Validate() []string {
	var issues []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		issues = append(issues, fmt.Sprintf("server.port must be between 1 and 65535 (got %d)", c.Server.Port))
	}
	if strings.TrimSpace(c.Theme.StorageKey) == "" {
		issues = append(issues, "theme.storage_key must not be empty")
	}

	switch c.Storage.Backend {
	case "badger":
		if c.Storage.Badger.Path == "" {
			issues = append(issues, "storage.badger.path is required when storage.backend is badger")
		}
	case "memory", "cookie":
	default:
		issues = append(issues, fmt.Sprintf("storage.backend must be badger, memory or cookie (got %q)", c.Storage.Backend))
	}

	if _, err := c.Location(); err != nil {
		issues = append(issues, err.Error())
	}

	return issues
}

// LoadFromFile loads configuration with priority: defaults -> file -> env.
func LoadFromFile(path string) (*Config, error) {
	if path == "" {
		return LoadFromFiles()
	}
	return LoadFromFiles(path)
}

// LoadFromFiles loads configuration from multiple files with priority:
// defaults -> file1 -> file2 -> ... -> env.
// Later files override earlier files.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		err = toml.Unmarshal(data, config)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies NEWSLETTER_* environment variable overrides to config.
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("NEWSLETTER_ENV"); env != "" {
		config.Environment = env
	}
	if port := os.Getenv("NEWSLETTER_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("NEWSLETTER_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	if output := os.Getenv("NEWSLETTER_DATA_OUTPUT_PATH"); output != "" {
		config.Data.OutputPath = output
	}
	if track := os.Getenv("NEWSLETTER_DATA_TRACK_PATH"); track != "" {
		config.Data.TrackPath = track
	}
	if tz := os.Getenv("NEWSLETTER_TIMEZONE"); tz != "" {
		config.Display.Timezone = tz
	}
	if backend := os.Getenv("NEWSLETTER_STORAGE_BACKEND"); backend != "" {
		config.Storage.Backend = backend
	}
	if badgerPath := os.Getenv("NEWSLETTER_BADGER_PATH"); badgerPath != "" {
		config.Storage.Badger.Path = badgerPath
	}
	if enabled := os.Getenv("NEWSLETTER_MCP_ENABLED"); enabled != "" {
		if b, err := strconv.ParseBool(enabled); err == nil {
			config.MCP.Enabled = b
		}
	}
	if level := os.Getenv("NEWSLETTER_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if outputs := os.Getenv("NEWSLETTER_LOG_OUTPUTS"); outputs != "" {
		config.Logging.Outputs = splitList(outputs)
	}
}

// splitList splits a comma-separated value, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ApplyFlagOverrides applies command-line flag overrides to config.
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}
