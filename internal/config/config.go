package config

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config is the commons client configuration.
type Config struct {
	API       APIConfig       `toml:"api"`
	Discovery DiscoveryConfig `toml:"discovery"`
	Viewer    ViewerConfig    `toml:"viewer"`
	History   HistoryConfig   `toml:"history"`
	Logging   LoggingConfig   `toml:"logging"`
	Metrics   MetricsConfig   `toml:"metrics"`
}

// APIConfig locates the forum backend.
type APIConfig struct {
	BaseURL           string  `toml:"base_url"`
	Token             string  `toml:"token"`
	TimeoutSeconds    int     `toml:"timeout_seconds"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
	Burst             int     `toml:"burst"`
}

// DiscoveryConfig tunes result paging and background refresh.
type DiscoveryConfig struct {
	PageSize       int `toml:"page_size"`
	RefreshSeconds int `toml:"refresh_seconds"`
}

// ViewerConfig describes who is browsing.
type ViewerConfig struct {
	Username       string `toml:"username"`
	Admin          bool   `toml:"admin"`
	IncludeDeleted bool   `toml:"include_deleted"`
}

// HistoryConfig locates the recent-links database.
type HistoryConfig struct {
	Path  string `toml:"path"`
	Limit int    `toml:"limit"`
}

// LoggingConfig controls the log level and the file used while the TUI runs.
type LoggingConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// MetricsConfig enables the Prometheus endpoint when Listen is set.
type MetricsConfig struct {
	Listen string `toml:"listen"`
}

const (
	defaultConfigPath     = "~/.config/commons/config.toml"
	defaultBaseURL        = "http://127.0.0.1:8000/api/"
	defaultTimeoutSeconds = 10
	defaultRequestsPerSec = 5
	defaultBurst          = 5
	defaultPageSize       = 20
	maxPageSize           = 100
	defaultHistoryPath    = "~/.local/share/commons/history.db"
	defaultHistoryLimit   = 50
	defaultLogLevel       = "info"

	// TokenEnv overrides api.token when set.
	TokenEnv = "COMMONS_API_TOKEN"
)

// DefaultPath returns the default config file path.
func DefaultPath() string {
	return defaultConfigPath
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		API: APIConfig{
			BaseURL:           defaultBaseURL,
			TimeoutSeconds:    defaultTimeoutSeconds,
			RequestsPerSecond: defaultRequestsPerSec,
			Burst:             defaultBurst,
		},
		Discovery: DiscoveryConfig{PageSize: defaultPageSize},
		History:   HistoryConfig{Path: mustExpand(defaultHistoryPath), Limit: defaultHistoryLimit},
		Logging:   LoggingConfig{Level: defaultLogLevel},
	}
}

// Load locates and parses the config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg.applyEnv()
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(bytes, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	cfg.normalize()
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", resolved, err)
	}
	return cfg, nil
}

func (c *Config) normalize() {
	c.API.BaseURL = strings.TrimSpace(c.API.BaseURL)
	if c.API.BaseURL == "" {
		c.API.BaseURL = defaultBaseURL
	}
	c.API.Token = strings.TrimSpace(c.API.Token)

	c.History.Path = strings.TrimSpace(c.History.Path)
	if c.History.Path == "" {
		c.History.Path = defaultHistoryPath
	}
	if c.History.Path != ":memory:" {
		c.History.Path = mustExpand(c.History.Path)
	}

	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if file := strings.TrimSpace(c.Logging.File); file != "" {
		c.Logging.File = mustExpand(file)
	}
	c.Metrics.Listen = strings.TrimSpace(c.Metrics.Listen)
}

func (c *Config) applyEnv() {
	if tok := strings.TrimSpace(os.Getenv(TokenEnv)); tok != "" {
		c.API.Token = tok
	}
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error
	if u, err := url.Parse(c.API.BaseURL); err != nil || u.Host == "" {
		errs = append(errs, fmt.Errorf("api.base_url %q is not an absolute URL", c.API.BaseURL))
	}
	if c.API.TimeoutSeconds <= 0 {
		errs = append(errs, fmt.Errorf("api.timeout_seconds must be positive"))
	}
	if c.API.RequestsPerSecond < 0 {
		errs = append(errs, fmt.Errorf("api.requests_per_second must not be negative"))
	}
	if c.API.RequestsPerSecond > 0 && c.API.Burst < 1 {
		errs = append(errs, fmt.Errorf("api.burst must be at least 1 when rate limiting"))
	}
	if c.Discovery.PageSize < 1 || c.Discovery.PageSize > maxPageSize {
		errs = append(errs, fmt.Errorf("discovery.page_size must be between 1 and %d", maxPageSize))
	}
	if c.Discovery.RefreshSeconds < 0 {
		errs = append(errs, fmt.Errorf("discovery.refresh_seconds must not be negative"))
	}
	if c.History.Limit < 1 {
		errs = append(errs, fmt.Errorf("history.limit must be positive"))
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("logging.level %q must be debug, info, warn or error", c.Logging.Level))
	}
	return errors.Join(errs...)
}

// Timeout is the per-request HTTP timeout.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.API.TimeoutSeconds) * time.Second
}

// RefreshInterval is the background refresh cadence; zero disables it.
func (c Config) RefreshInterval() time.Duration {
	return time.Duration(c.Discovery.RefreshSeconds) * time.Second
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
