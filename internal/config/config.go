package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"pakcuisine/internal/receipt"
	"pakcuisine/internal/store"
)

// Storage drivers
const (
	StorageJSON     = "json"
	StorageSQLite   = "sqlite3"
	StoragePostgres = "postgres"
)

// Config represents the application configuration
type Config struct {
	LogLevel string         `yaml:"log_level"`
	Server   ServerConfig   `yaml:"server"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Storage  StorageConfig  `yaml:"storage"`
	Receipt  receipt.Layout `yaml:"receipt"`
}

// ServerConfig holds the HTTP bridge settings
type ServerConfig struct {
	Port int `yaml:"port"`
}

// MetricsConfig holds the Prometheus endpoint settings
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Port    int    `yaml:"port"`
	Path    string `yaml:"path"`
}

// StorageConfig selects where the counter and history live
type StorageConfig struct {
	Driver      string `yaml:"driver"`
	CounterFile string `yaml:"counter_file"`
	HistoryFile string `yaml:"history_file"`
	DSN         string `yaml:"dsn"`
}

// Default returns the configuration used when no file is present
func Default() *Config {
	return &Config{
		LogLevel: "info",
		Server:   ServerConfig{Port: 8080},
		Metrics: MetricsConfig{
			Enabled: true,
			Port:    9090,
			Path:    "/metrics",
		},
		Storage: StorageConfig{
			Driver:      StorageJSON,
			CounterFile: store.CounterFile,
			HistoryFile: store.HistoryFile,
		},
		Receipt: receipt.DefaultLayout(),
	}
}

// Load reads configuration from a YAML file on top of the defaults.
// A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings that cannot be defaulted
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Metrics.Enabled && (c.Metrics.Port <= 0 || c.Metrics.Port > 65535) {
		return fmt.Errorf("invalid metrics port %d", c.Metrics.Port)
	}

	switch c.Storage.Driver {
	case StorageJSON:
		if c.Storage.CounterFile == "" || c.Storage.HistoryFile == "" {
			return fmt.Errorf("storage.counter_file and storage.history_file are required for the json driver")
		}
	case StorageSQLite, StoragePostgres:
		if c.Storage.DSN == "" {
			return fmt.Errorf("storage.dsn is required for the %s driver", c.Storage.Driver)
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	return nil
}
