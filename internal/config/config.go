package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	toml "github.com/pelletier/go-toml/v2"
)

var (
	ErrInvalidTimeout = errors.New("timeout must be positive")
	ErrInvalidRetries = errors.New("retries must be non-negative")
)

const (
	DefaultPath    = "~/.config/serpapi/config.toml"
	defaultBaseURL = "https://serpapi.com"
	defaultTimeout = 60 * time.Second
)

type Config struct {
	SerpAPI SerpAPIConfig
	Log     LogConfig
	Metrics MetricsConfig
}

type SerpAPIConfig struct {
	APIKey  string        `split_words:"true"`
	BaseURL string        `split_words:"true"`
	Timeout time.Duration `split_words:"true"`
	Retries int           `split_words:"true"`
}

type LogConfig struct {
	Level  string
	Format string
}

// MetricsConfig.File, when set, receives a prometheus text dump after each run.
type MetricsConfig struct {
	File string
}

type fileConfig struct {
	APIKey      string `toml:"api_key"`
	BaseURL     string `toml:"base_url"`
	Timeout     string `toml:"timeout"`
	Retries     *int   `toml:"retries"`
	LogLevel    string `toml:"log_level"`
	LogFormat   string `toml:"log_format"`
	MetricsFile string `toml:"metrics_file"`
}

func Default() *Config {
	return &Config{
		SerpAPI: SerpAPIConfig{
			BaseURL: defaultBaseURL,
			Timeout: defaultTimeout,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load builds the configuration from defaults, then the TOML file at path
// (DefaultPath when empty, and optional in that case), then SERPAPI_*, LOG_*
// and METRICS_* environment variables.
func Load(path string) (*Config, error) {
	cfg := Default()

	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}

	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.SerpAPI.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.SerpAPI.Retries < 0 {
		return ErrInvalidRetries
	}
	return nil
}

func (c *Config) loadFile(path string) error {
	optional := strings.TrimSpace(path) == ""
	if optional {
		path = DefaultPath
	}

	resolved, err := expandPath(path)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		if optional && errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}

	var raw fileConfig
	if err := toml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.APIKey); v != "" {
		c.SerpAPI.APIKey = v
	}
	if v := strings.TrimSpace(raw.BaseURL); v != "" {
		c.SerpAPI.BaseURL = v
	}
	if v := strings.TrimSpace(raw.Timeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse config: timeout: %w", err)
		}
		c.SerpAPI.Timeout = d
	}
	if raw.Retries != nil {
		c.SerpAPI.Retries = *raw.Retries
	}
	if v := strings.TrimSpace(raw.LogLevel); v != "" {
		c.Log.Level = v
	}
	if v := strings.TrimSpace(raw.LogFormat); v != "" {
		c.Log.Format = v
	}
	if v := strings.TrimSpace(raw.MetricsFile); v != "" {
		c.Metrics.File = v
	}
	return nil
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
