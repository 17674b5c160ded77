// Package config holds the single configuration contract (spec §2
// item 10, §6) and its loader, adapted from the teacher's config.go
// (viper-backed file + env + flag merging).
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config enumerates every tunable recognized by the server (spec §6's
// "Configuration surface").
type Config struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`

	MaxKeys       int   `mapstructure:"max_keys"`
	MaxKeyBytes   int   `mapstructure:"max_key_bytes"`
	MaxValueBytes int   `mapstructure:"max_value_bytes"`
	MaxTotalBytes int64 `mapstructure:"max_total_bytes"`

	MaxConcurrentConnections int `mapstructure:"max_concurrent_connections"`

	ReadTimeoutSeconds           int `mapstructure:"read_timeout_seconds"`
	ConnectionIdleTimeoutSeconds int `mapstructure:"connection_idle_timeout_seconds"`
	DefaultTTLSeconds            int `mapstructure:"default_ttl_seconds"`

	SweeperEnabled         bool `mapstructure:"sweeper_enabled"`
	SweeperIntervalSeconds int  `mapstructure:"sweeper_interval_seconds"`
	SweeperSampleSize      int  `mapstructure:"sweeper_sample_size"`

	ShutdownGracePeriod time.Duration `mapstructure:"shutdown_grace_period"`

	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

// DefaultConfig returns a Config populated with the defaults spec §6
// requires.
func DefaultConfig() *Config {
	return &Config{
		Host: "0.0.0.0",
		Port: 11211,

		MaxKeys:       3000,
		MaxKeyBytes:   250,
		MaxValueBytes: 102400,
		MaxTotalBytes: 1073741824,

		MaxConcurrentConnections: 10,

		ReadTimeoutSeconds:           30,
		ConnectionIdleTimeoutSeconds: 0,
		DefaultTTLSeconds:            3600,

		SweeperEnabled:         true,
		SweeperIntervalSeconds: 10,
		SweeperSampleSize:      20,

		ShutdownGracePeriod: 5 * time.Second,

		LogLevel:  "info",
		LogFormat: "text",
	}
}

// LoadConfig loads configuration from environment variables, an
// optional config file, and command-line flags (via viper.BindPFlag
// calls performed by internal/cli), mirroring the teacher's
// LoadConfig.
func LoadConfig() (*Config, error) {
	cfg := DefaultConfig()

	viper.SetConfigName("cachesrv")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/cachesrv/")
	viper.AddConfigPath("$HOME/.cachesrv")

	viper.SetEnvPrefix("CACHESRV")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("host", cfg.Host)
	viper.SetDefault("port", cfg.Port)
	viper.SetDefault("max_keys", cfg.MaxKeys)
	viper.SetDefault("max_key_bytes", cfg.MaxKeyBytes)
	viper.SetDefault("max_value_bytes", cfg.MaxValueBytes)
	viper.SetDefault("max_total_bytes", cfg.MaxTotalBytes)
	viper.SetDefault("max_concurrent_connections", cfg.MaxConcurrentConnections)
	viper.SetDefault("read_timeout_seconds", cfg.ReadTimeoutSeconds)
	viper.SetDefault("connection_idle_timeout_seconds", cfg.ConnectionIdleTimeoutSeconds)
	viper.SetDefault("default_ttl_seconds", cfg.DefaultTTLSeconds)
	viper.SetDefault("sweeper_enabled", cfg.SweeperEnabled)
	viper.SetDefault("sweeper_interval_seconds", cfg.SweeperIntervalSeconds)
	viper.SetDefault("sweeper_sample_size", cfg.SweeperSampleSize)
	viper.SetDefault("shutdown_grace_period", cfg.ShutdownGracePeriod)
	viper.SetDefault("log_level", cfg.LogLevel)
	viper.SetDefault("log_format", cfg.LogFormat)

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return cfg, nil
}

// Validate checks the configuration for internal consistency, in the
// same idiom as the teacher's Config.Validate.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d (must be 1-65535)", c.Port)
	}
	if c.MaxKeys < 1 {
		return fmt.Errorf("max_keys must be at least 1")
	}
	if c.MaxKeyBytes < 1 {
		return fmt.Errorf("max_key_bytes must be at least 1")
	}
	if c.MaxValueBytes < 0 {
		return fmt.Errorf("max_value_bytes must be non-negative")
	}
	if c.MaxTotalBytes < int64(c.MaxValueBytes) {
		return fmt.Errorf("max_total_bytes must be at least max_value_bytes")
	}
	if c.MaxConcurrentConnections < 1 {
		return fmt.Errorf("max_concurrent_connections must be at least 1")
	}
	if c.DefaultTTLSeconds < 1 {
		return fmt.Errorf("default_ttl_seconds must be at least 1")
	}
	if c.SweeperEnabled {
		if c.SweeperIntervalSeconds < 1 {
			return fmt.Errorf("sweeper_interval_seconds must be at least 1 when sweeper_enabled")
		}
		if c.SweeperSampleSize < 1 {
			return fmt.Errorf("sweeper_sample_size must be at least 1 when sweeper_enabled")
		}
	}

	validLogLevels := []string{"trace", "debug", "info", "warn", "error", "fatal"}
	validLevel := false
	for _, level := range validLogLevels {
		if c.LogLevel == level {
			validLevel = true
			break
		}
	}
	if !validLevel {
		return fmt.Errorf("invalid log_level: %s (must be one of: %s)",
			c.LogLevel, strings.Join(validLogLevels, ", "))
	}

	return nil
}

// String returns a one-line human-readable summary of the main
// settings.
func (c *Config) String() string {
	return fmt.Sprintf("cachesrv Config: %s:%d, max_keys=%d, max_value_bytes=%d, max_total_bytes=%d",
		c.Host, c.Port, c.MaxKeys, c.MaxValueBytes, c.MaxTotalBytes)
}
