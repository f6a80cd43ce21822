// Package config loads the orgroster configuration file.
//
// Config file locations (priority order):
//  1. $ORGROSTER_CONFIG
//  2. ./orgroster.yaml
//  3. $XDG_CONFIG_HOME/orgroster/config.yaml
//  4. ~/.config/orgroster/config.yaml
//  5. /etc/orgroster/config.yaml
//
// $ORGROSTER_DB and $ORGROSTER_LOG_LEVEL override the file.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"orgroster/internal/logger"
	"orgroster/internal/repository/sqlite"
	"orgroster/internal/retry"
)

const (
	// EnvDatabasePath overrides database.path
	EnvDatabasePath = "ORGROSTER_DB"
	// EnvLogLevel overrides log.level
	EnvLogLevel = "ORGROSTER_LOG_LEVEL"

	defaultDatabasePath = "./orgroster.db"
)

// Load finds and loads the config file, or returns defaults if none found
func Load() (*Config, string, error) {
	path := FindConfigPath()

	if path == "" {
		cfg := DefaultConfig()
		cfg.applyEnv()
		return cfg, "", nil
	}

	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()
	cfg.applyEnv()

	return &cfg, path, nil
}

// Save writes config to the specified path
func (c *Config) Save(path string) error {
	if err := EnsureConfigDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

// DefaultConfig returns sensible defaults for a new installation
func DefaultConfig() *Config {
	return &Config{
		Version:  1,
		Database: DatabaseConfig{Path: defaultDatabasePath},
		Retry: RetryConfig{
			MaxAttempts: retry.DefaultMaxAttempts,
			Delay:       Duration(retry.DefaultDelay),
		},
		Log: LogConfig{Level: string(logger.InfoLevel)},
	}
}

// applyDefaults fills in missing values with defaults
func (c *Config) applyDefaults() {
	if c.Version == 0 {
		c.Version = 1
	}
	if c.Database.Path == "" {
		c.Database.Path = defaultDatabasePath
	}
	if c.Retry.MaxAttempts <= 0 {
		c.Retry.MaxAttempts = retry.DefaultMaxAttempts
	}
	if c.Retry.Delay <= 0 {
		c.Retry.Delay = Duration(retry.DefaultDelay)
	}
	if c.Database.BusyTimeout < 0 {
		c.Database.BusyTimeout = 0
	}
	c.Log.Level = string(logger.ParseLevel(c.Log.Level))
}

func (c *Config) applyEnv() {
	if path := os.Getenv(EnvDatabasePath); path != "" {
		c.Database.Path = path
	}
	if level := os.Getenv(EnvLogLevel); level != "" {
		c.Log.Level = string(logger.ParseLevel(level))
	}
}

// RetryPolicy returns the configured retry policy
func (c *Config) RetryPolicy() retry.Policy {
	return retry.Policy{
		MaxAttempts: c.Retry.MaxAttempts,
		Delay:       c.Retry.Delay.Duration(),
	}
}

// StoreConfig returns the settings for opening the SQLite store
func (c *Config) StoreConfig() sqlite.Config {
	return sqlite.Config{
		Path:        c.Database.Path,
		BusyTimeout: c.Database.BusyTimeout.Duration(),
		Retry:       c.RetryPolicy(),
	}
}

// LoggerConfig returns the logger settings. Output is left to the caller.
func (c *Config) LoggerConfig() *logger.Config {
	cfg := logger.DefaultConfig()
	cfg.Level = logger.ParseLevel(c.Log.Level)
	cfg.JSON = c.Log.JSON
	if cfg.JSON {
		cfg.TimeFormat = time.RFC3339
	}
	return cfg
}

// Summary returns a human-readable config summary
func (c *Config) Summary() string {
	return fmt.Sprintf("Database: %s (busy timeout %s)\nRetry: %d attempts, %s delay\nLog: %s",
		c.Database.Path, c.Database.BusyTimeout.Duration(),
		c.Retry.MaxAttempts, c.Retry.Delay.Duration(), c.Log.Level)
}
