package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	DataSource struct {
		BaseURL        string            `yaml:"base_url"`
		APIKey         string            `yaml:"api_key"`
		Coins          map[string]string `yaml:"coins"` // coin id -> display symbol
		TimeoutSeconds int               `yaml:"timeout_seconds"`
	} `yaml:"data_source"`
	Schedule struct {
		FetchCron     string `yaml:"fetch_cron"`
		AnalyticsCron string `yaml:"analytics_cron"`
		MaxFailures   int    `yaml:"max_failures"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Analytics struct {
		Windows      []int `yaml:"windows"`
		LookbackDays int   `yaml:"lookback_days"`
	} `yaml:"analytics"`
	Server struct {
		Host  string `yaml:"host"`
		Port  int    `yaml:"port"`
		Debug bool   `yaml:"debug"`
	} `yaml:"server"`
	Log struct {
		Level      string `yaml:"level"`
		File       string `yaml:"file"`
		MaxSizeMB  int    `yaml:"max_size_mb"`
		MaxBackups int    `yaml:"max_backups"`
	} `yaml:"log"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults. A missing file is fine: everything has a default.
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

	// Environment variable overrides
	if v := os.Getenv("COINGECKO_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("COINGECKO_API_KEY"); v != "" {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("CRON_FETCH"); v != "" {
		cfg.Schedule.FetchCron = v
	}
	if v := os.Getenv("CRON_ANALYTICS"); v != "" {
		cfg.Schedule.AnalyticsCron = v
	}
	if v := os.Getenv("SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}

	// Defaults
	if len(cfg.DataSource.Coins) == 0 {
		cfg.DataSource.Coins = map[string]string{
			"bitcoin":      "BTC",
			"ethereum":     "ETH",
			"cardano":      "ADA",
			"solana":       "SOL",
			"polkadot":     "DOT",
			"chainlink":    "LINK",
			"litecoin":     "LTC",
			"bitcoin-cash": "BCH",
		}
	}
	if cfg.DataSource.TimeoutSeconds == 0 {
		cfg.DataSource.TimeoutSeconds = 30
	}
	if cfg.Schedule.FetchCron == "" {
		cfg.Schedule.FetchCron = "0 */5 * * * *"
	}
	if cfg.Schedule.AnalyticsCron == "" {
		cfg.Schedule.AnalyticsCron = "0 0 * * * *"
	}
	if cfg.Schedule.MaxFailures == 0 {
		cfg.Schedule.MaxFailures = 5
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/crypto.db"
	}
	if len(cfg.Analytics.Windows) == 0 {
		cfg.Analytics.Windows = []int{7, 30}
	}
	if cfg.Analytics.LookbackDays == 0 {
		cfg.Analytics.LookbackDays = 30
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8501
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.MaxSizeMB == 0 {
		cfg.Log.MaxSizeMB = 20
	}
	if cfg.Log.MaxBackups == 0 {
		cfg.Log.MaxBackups = 3
	}

	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if len(c.DataSource.Coins) == 0 {
		return fmt.Errorf("data_source.coins must not be empty")
	}
	for id, symbol := range c.DataSource.Coins {
		if id == "" || symbol == "" {
			return fmt.Errorf("data_source.coins entries need both id and symbol")
		}
	}
	for _, w := range c.Analytics.Windows {
		if w <= 0 {
			return fmt.Errorf("analytics.windows must be positive, got %d", w)
		}
	}
	if c.Analytics.LookbackDays <= 0 {
		return fmt.Errorf("analytics.lookback_days must be positive")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	return nil
}
