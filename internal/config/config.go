package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	DataSource struct {
		Provider     string `yaml:"provider" envconfig:"DATA_PROVIDER"`
		AlpacaKey    string `yaml:"alpaca_key" envconfig:"ALPACA_API_KEY"`
		AlpacaSecret string `yaml:"alpaca_secret" envconfig:"ALPACA_SECRET_KEY"`
	} `yaml:"data_source"`
	Universe struct {
		Source  string   `yaml:"source" envconfig:"UNIVERSE_SOURCE"`
		URL     string   `yaml:"url" envconfig:"UNIVERSE_URL"`
		Symbols []string `yaml:"symbols"`
	} `yaml:"universe"`
	Schedule struct {
		MoversCron string `yaml:"movers_cron" envconfig:"CRON_MOVERS"`
		DailyCron  string `yaml:"daily_cron" envconfig:"CRON_DAILY"`
	} `yaml:"schedule"`
	Fetch struct {
		MaxRetries  int           `yaml:"max_retries" envconfig:"FETCH_MAX_RETRIES"`
		BackoffBase time.Duration `yaml:"backoff_base" envconfig:"FETCH_BACKOFF_BASE"`
		Concurrency int           `yaml:"concurrency" envconfig:"FETCH_CONCURRENCY"`
		TopN        int           `yaml:"top_n" envconfig:"MOVERS_TOP_N"`
	} `yaml:"fetch"`
	Database struct {
		SQLitePath  string `yaml:"sqlite_path" envconfig:"SQLITE_PATH"`
		PostgresDSN string `yaml:"postgres_dsn" envconfig:"POSTGRES_DSN"`
	} `yaml:"database"`
	Server struct {
		Addr string `yaml:"addr" envconfig:"SERVER_ADDR"`
	} `yaml:"server"`
	Proxy string `yaml:"proxy" envconfig:"HTTPS_PROXY"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("apply env overrides: %w", err)
	}

	// Defaults
	if cfg.DataSource.Provider == "" {
		cfg.DataSource.Provider = "yahoo"
	}
	if cfg.Universe.Source == "" {
		cfg.Universe.Source = "wikipedia"
	}
	if cfg.Universe.URL == "" {
		cfg.Universe.URL = "https://en.wikipedia.org/wiki/List_of_S%26P_500_companies"
	}
	if cfg.Schedule.MoversCron == "" {
		cfg.Schedule.MoversCron = "0 */5 * * * *"
	}
	if cfg.Schedule.DailyCron == "" {
		cfg.Schedule.DailyCron = "0 0 18 * * 1-5"
	}
	if cfg.Fetch.MaxRetries == 0 {
		cfg.Fetch.MaxRetries = 3
	}
	if cfg.Fetch.BackoffBase == 0 {
		cfg.Fetch.BackoffBase = 2 * time.Second
	}
	if cfg.Fetch.Concurrency == 0 {
		cfg.Fetch.Concurrency = 4
	}
	if cfg.Fetch.TopN == 0 {
		cfg.Fetch.TopN = 5
	}
	if cfg.Database.SQLitePath == "" && cfg.Database.PostgresDSN == "" {
		cfg.Database.SQLitePath = "data/stockdata.db"
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}

	return cfg, nil
}

// Validate checks that all required fields are set and consistent.
func (c *Config) Validate() error {
	switch c.DataSource.Provider {
	case "yahoo":
	case "alpaca":
		if c.DataSource.AlpacaKey == "" || c.DataSource.AlpacaSecret == "" {
			return fmt.Errorf("data_source: alpaca provider requires alpaca_key and alpaca_secret")
		}
	default:
		return fmt.Errorf("data_source.provider must be yahoo or alpaca, got %q", c.DataSource.Provider)
	}
	switch c.Universe.Source {
	case "wikipedia":
	case "static":
		if len(c.Universe.Symbols) == 0 {
			return fmt.Errorf("universe: static source requires at least one symbol")
		}
	default:
		return fmt.Errorf("universe.source must be wikipedia or static, got %q", c.Universe.Source)
	}
	if c.Fetch.MaxRetries < 0 {
		return fmt.Errorf("fetch.max_retries must be non-negative")
	}
	return nil
}
