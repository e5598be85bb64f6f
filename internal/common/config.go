// Package common provides shared utilities for folioscope
package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for folioscope
type Config struct {
	Environment string           `toml:"environment"`
	Portfolios  []string         `toml:"portfolios"` // portfolio IDs to aggregate, one aggregator each
	Sharesight  SharesightConfig `toml:"sharesight"`
	Poll        PollConfig       `toml:"poll"`
	Logging     LoggingConfig    `toml:"logging"`
}

// SharesightConfig holds Sharesight API configuration
type SharesightConfig struct {
	BaseURL      string `toml:"base_url"`
	TokenURL     string `toml:"token_url"`
	UseEdge      bool   `toml:"use_edge"` // use the edge API environment instead of production
	EdgeBaseURL  string `toml:"edge_base_url"`
	EdgeTokenURL string `toml:"edge_token_url"`
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	RefreshToken string `toml:"refresh_token"`
	AccessToken  string `toml:"access_token"` // static token, skips the refresh flow when set
	RateLimit    int    `toml:"rate_limit"`
	Timeout      string `toml:"timeout"`
}

// GetTimeout parses and returns the HTTP timeout duration
func (c *SharesightConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// ResolveBaseURL returns the API base URL for the selected environment
func (c *SharesightConfig) ResolveBaseURL() string {
	if c.UseEdge {
		return c.EdgeBaseURL
	}
	return c.BaseURL
}

// ResolveTokenURL returns the OAuth token URL for the selected environment
func (c *SharesightConfig) ResolveTokenURL() string {
	if c.UseEdge {
		return c.EdgeTokenURL
	}
	return c.TokenURL
}

// PollConfig holds poll cycle timing configuration
type PollConfig struct {
	Interval       string `toml:"interval"`        // snapshot poll cycle interval
	RescanInterval string `toml:"rescan_interval"` // market/cash group re-scan interval
}

// GetInterval parses and returns the poll interval
func (c *PollConfig) GetInterval() time.Duration {
	d, err := time.ParseDuration(c.Interval)
	if err != nil {
		return 5 * time.Minute
	}
	return d
}

// GetRescanInterval parses and returns the group re-scan interval
func (c *PollConfig) GetRescanInterval() time.Duration {
	d, err := time.ParseDuration(c.RescanInterval)
	if err != nil {
		return 10 * time.Minute
	}
	return d
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Sharesight: SharesightConfig{
			BaseURL:      "https://api.sharesight.com/api",
			TokenURL:     "https://api.sharesight.com/oauth2/token",
			EdgeBaseURL:  "https://edge-api.sharesight.com/api",
			EdgeTokenURL: "https://edge-api.sharesight.com/oauth2/token",
			RateLimit:    5,
			Timeout:      "30s",
		},
		Poll: PollConfig{
			Interval:       "5m",
			RescanInterval: "10m",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides.
// Later files override earlier ones; missing files are skipped.
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("FOLIOSCOPE_ENV"); env != "" {
		config.Environment = env
	}

	if level := os.Getenv("FOLIOSCOPE_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if ids := os.Getenv("FOLIOSCOPE_PORTFOLIOS"); ids != "" {
		var portfolios []string
		for _, id := range strings.Split(ids, ",") {
			if id = strings.TrimSpace(id); id != "" {
				portfolios = append(portfolios, id)
			}
		}
		if len(portfolios) > 0 {
			config.Portfolios = portfolios
		}
	}

	if v := os.Getenv("SHARESIGHT_CLIENT_ID"); v != "" {
		config.Sharesight.ClientID = v
	}
	if v := os.Getenv("SHARESIGHT_CLIENT_SECRET"); v != "" {
		config.Sharesight.ClientSecret = v
	}
	if v := os.Getenv("SHARESIGHT_REFRESH_TOKEN"); v != "" {
		config.Sharesight.RefreshToken = v
	}
	if v := os.Getenv("SHARESIGHT_ACCESS_TOKEN"); v != "" {
		config.Sharesight.AccessToken = v
	}
	if v := os.Getenv("SHARESIGHT_USE_EDGE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			config.Sharesight.UseEdge = b
		}
	}
	if v := os.Getenv("FOLIOSCOPE_POLL_INTERVAL"); v != "" {
		config.Poll.Interval = v
	}
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}
