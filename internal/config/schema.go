package config

import (
	"time"
)

// Config is the root configuration structure
type Config struct {
	Version  int            `yaml:"version"`
	Database DatabaseConfig `yaml:"database"`
	Retry    RetryConfig    `yaml:"retry"`
	Log      LogConfig      `yaml:"log"`
}

// DatabaseConfig configures the SQLite store
type DatabaseConfig struct {
	Path string `yaml:"path"`
	// BusyTimeout is handed to SQLite before it reports a lock. Zero leaves
	// contention to the retry policy.
	BusyTimeout Duration `yaml:"busy_timeout"`
}

// RetryConfig configures lock-contention retries
type RetryConfig struct {
	MaxAttempts int      `yaml:"max_attempts"`
	Delay       Duration `yaml:"delay"`
}

// LogConfig configures the process logger
type LogConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// Duration wraps time.Duration for YAML marshaling
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Duration returns the underlying time.Duration
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}
