// Package common provides shared utilities for marketintel
package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for marketintel
type Config struct {
	Environment string         `toml:"environment"`
	Scan        ScanConfig     `toml:"scan"`
	News        NewsConfig     `toml:"news"`
	Report      ReportConfig   `toml:"report"`
	Schedule    ScheduleConfig `toml:"schedule"`
	Clients     ClientsConfig  `toml:"clients"`
	Logging     LoggingConfig  `toml:"logging"`
}

// ScanConfig holds signal pipeline parameters
type ScanConfig struct {
	WatchlistPath string   `toml:"watchlist_path"`
	DiscoveryPool []string `toml:"discovery_pool"`
	PEThreshold   float64  `toml:"pe_threshold"`  // value trigger ceiling
	LookbackYears int      `toml:"lookback_years"`
	ShortWindow   int      `toml:"short_window"`  // bars in the short moving average
	LongWindow    int      `toml:"long_window"`   // bars in the long moving average
	Workers       int      `toml:"workers"`       // concurrent ticker evaluations
	RunTimeout    string   `toml:"run_timeout"`   // overall per-run deadline
}

// GetRunTimeout parses and returns the per-run deadline
func (c *ScanConfig) GetRunTimeout() time.Duration {
	d, err := time.ParseDuration(c.RunTimeout)
	if err != nil {
		return 10 * time.Minute
	}
	return d
}

// NewsConfig holds headline selector parameters
type NewsConfig struct {
	RecencyDays int    `toml:"recency_days"` // max article age per stage
	StrictTitle bool   `toml:"strict_title"` // require ticker/name in the headline
	Language    string `toml:"language"`
}

// ReportConfig holds report output and delivery settings
type ReportConfig struct {
	OutputDir string     `toml:"output_dir"`
	Title     string     `toml:"title"`
	SMTP      SMTPConfig `toml:"smtp"`
}

// SMTPConfig holds email delivery settings. An empty Host disables delivery.
type SMTPConfig struct {
	Host       string   `toml:"host"`
	Port       int      `toml:"port"`
	Username   string   `toml:"username"`
	Password   string   `toml:"password"`
	From       string   `toml:"from"`
	Recipients []string `toml:"recipients"`
}

// Enabled reports whether email delivery is configured
func (c *SMTPConfig) Enabled() bool {
	return c.Host != "" && c.From != "" && len(c.Recipients) > 0
}

// ScheduleConfig holds the optional in-process schedule.
// An empty Cron means run once and exit.
type ScheduleConfig struct {
	Cron string `toml:"cron"`
}

// ClientsConfig holds API client configurations
type ClientsConfig struct {
	EODHD   EODHDConfig   `toml:"eodhd"`
	NewsAPI NewsAPIConfig `toml:"newsapi"`
}

// EODHDConfig holds EODHD API configuration
type EODHDConfig struct {
	BaseURL   string `toml:"base_url"`
	APIKey    string `toml:"api_key"`
	RateLimit int    `toml:"rate_limit"`
	Timeout   string `toml:"timeout"`
}

// GetTimeout parses and returns the HTTP timeout
func (c *EODHDConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// NewsAPIConfig holds NewsAPI configuration
type NewsAPIConfig struct {
	BaseURL   string `toml:"base_url"`
	APIKey    string `toml:"api_key"`
	RateLimit int    `toml:"rate_limit"`
	Timeout   string `toml:"timeout"`
}

// GetTimeout parses and returns the HTTP timeout
func (c *NewsAPIConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level    string `toml:"level"`
	Format   string `toml:"format"` // "console" or "json"
	FilePath string `toml:"file_path"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Scan: ScanConfig{
			WatchlistPath: "watchlist.txt",
			PEThreshold:   20,
			LookbackYears: 1,
			ShortWindow:   50,
			LongWindow:    200,
			Workers:       5,
			RunTimeout:    "10m",
		},
		News: NewsConfig{
			RecencyDays: 4,
			Language:    "en",
		},
		Report: ReportConfig{
			OutputDir: "reports",
			Title:     "Market Intelligence Scan",
		},
		Clients: ClientsConfig{
			EODHD: EODHDConfig{
				BaseURL:   "https://eodhd.com/api",
				RateLimit: 10,
				Timeout:   "30s",
			},
			NewsAPI: NewsAPIConfig{
				BaseURL:   "https://newsapi.org/v2",
				RateLimit: 2,
				Timeout:   "30s",
			},
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

	if err := validate(config); err != nil {
		return nil, err
	}

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("MARKETINTEL_ENV"); env != "" {
		config.Environment = env
	}

	if level := os.Getenv("MARKETINTEL_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if path := os.Getenv("MARKETINTEL_WATCHLIST"); path != "" {
		config.Scan.WatchlistPath = path
	}

	if v := os.Getenv("MARKETINTEL_PE_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			config.Scan.PEThreshold = f
		}
	}

	if key := os.Getenv("EODHD_API_KEY"); key != "" {
		config.Clients.EODHD.APIKey = key
	}

	if key := os.Getenv("NEWS_API_KEY"); key != "" {
		config.Clients.NewsAPI.APIKey = key
	}

	if pass := os.Getenv("EMAIL_PASS"); pass != "" {
		config.Report.SMTP.Password = pass
	}
}

// validate rejects configurations the pipeline cannot run with
func validate(config *Config) error {
	if config.Scan.PEThreshold <= 0 {
		return fmt.Errorf("scan.pe_threshold must be positive, got %v", config.Scan.PEThreshold)
	}
	if config.Scan.ShortWindow <= 0 || config.Scan.LongWindow <= config.Scan.ShortWindow {
		return fmt.Errorf("scan windows invalid: short=%d long=%d", config.Scan.ShortWindow, config.Scan.LongWindow)
	}
	if config.Scan.Workers <= 0 {
		config.Scan.Workers = 5
	}
	if config.News.RecencyDays <= 0 {
		config.News.RecencyDays = 4
	}
	if config.News.Language == "" {
		config.News.Language = "en"
	}
	return nil
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}
