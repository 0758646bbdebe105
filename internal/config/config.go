// Package config provides configuration management for mfl.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/open-cli-collective/media-filter-cli/pkg/media"
)

// Config holds the mfl configuration.
type Config struct {
	URL          string        `yaml:"url"`
	User         string        `yaml:"user"`
	APIToken     string        `yaml:"api_token"`
	SessionDB    string        `yaml:"session_db,omitempty"`
	OutputFormat string        `yaml:"output_format,omitempty"`
	Media        media.Options `yaml:"media,omitempty"`
}

// Validate checks that all required fields are present and valid.
func (c *Config) Validate() error {
	if c.URL == "" {
		return errors.New("url is required")
	}
	if c.User == "" {
		return errors.New("user is required")
	}
	if c.APIToken == "" {
		return errors.New("api_token is required")
	}

	if !strings.HasPrefix(c.URL, "https://") {
		return errors.New("url must use https")
	}

	return nil
}

// NormalizeURL strips trailing slashes from the site URL.
func (c *Config) NormalizeURL() {
	c.URL = strings.TrimRight(strings.TrimSpace(c.URL), "/")
}

// MediaOptions returns the translator options with defaults filled in.
func (c *Config) MediaOptions() media.Options {
	return c.Media.WithDefaults()
}

// SessionDBPath returns the configured session database path or the default.
func (c *Config) SessionDBPath() string {
	if c.SessionDB != "" {
		return c.SessionDB
	}
	return DefaultSessionDBPath()
}

// LoadFromEnv loads configuration from environment variables.
// Environment variables override existing values only if set and non-empty.
// Precedence: MFL_* → DRUPAL_* → existing config value
func (c *Config) LoadFromEnv() {
	if url := getEnvWithFallback("MFL_URL", "DRUPAL_URL"); url != "" {
		c.URL = url
	}
	if user := getEnvWithFallback("MFL_USER", "DRUPAL_USER"); user != "" {
		c.User = user
	}
	if token := getEnvWithFallback("MFL_API_TOKEN", "DRUPAL_API_TOKEN"); token != "" {
		c.APIToken = token
	}
	if db := os.Getenv("MFL_SESSION_DB"); db != "" {
		c.SessionDB = db
	}
	if v := os.Getenv("MFL_DO_LINK_TEXT"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Media.DoLinkText = b
		}
	}
}

// getEnvWithFallback returns the value of the primary env var, or the fallback if primary is empty.
func getEnvWithFallback(primary, fallback string) string {
	if v := os.Getenv(primary); v != "" {
		return v
	}
	return os.Getenv(fallback)
}

// DefaultConfigPath returns the default configuration file path.
func DefaultConfigPath() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "mfl", "config.yml")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".mfl", "config.yml")
	}

	return filepath.Join(home, ".config", "mfl", "config.yml")
}

// DefaultSessionDBPath returns the default location of the session database.
func DefaultSessionDBPath() string {
	if xdgData := os.Getenv("XDG_DATA_HOME"); xdgData != "" {
		return filepath.Join(xdgData, "mfl", "sessions.db")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".mfl", "sessions.db")
	}

	return filepath.Join(home, ".local", "share", "mfl", "sessions.db")
}

// Save writes the configuration to the specified path.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// The file holds an API token.
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Load reads the configuration from the specified path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &cfg, nil
}

// LoadWithEnv loads configuration from file and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		// A missing file means env-only configuration.
		cfg = &Config{}
	}

	cfg.LoadFromEnv()
	return cfg, nil
}
