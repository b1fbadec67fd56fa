// Package config handles mastery configuration parsing and validation.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/swamp-dev/mastery/internal/catalog"
)

// FileName is the config file looked up by FindConfigFile.
const FileName = "mastery.yaml"

// Config represents the mastery.yaml configuration file.
type Config struct {
	Version   string          `yaml:"version"`
	Store     StoreConfig     `yaml:"store"`
	Retention RetentionConfig `yaml:"retention"`
	Intensity string          `yaml:"intensity" env:"MASTERY_INTENSITY"` // standard, superstar, legend
	Refresh   RefreshConfig   `yaml:"refresh"`
	Export    ExportConfig    `yaml:"export"`
}

// StoreConfig selects and configures the key-value backend.
type StoreConfig struct {
	Driver   string      `yaml:"driver" env:"MASTERY_STORE_DRIVER"` // sqlite, redis
	Path     string      `yaml:"path" env:"MASTERY_STORE_PATH"`
	MaxBytes int64       `yaml:"max_bytes" env:"MASTERY_STORE_MAX_BYTES"`
	Redis    RedisConfig `yaml:"redis"`
}

// RedisConfig locates the Redis server used by the redis driver.
type RedisConfig struct {
	Addr     string `yaml:"addr" env:"MASTERY_REDIS_ADDR"`
	Password string `yaml:"password,omitempty" env:"MASTERY_REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"MASTERY_REDIS_DB"`
	Prefix   string `yaml:"prefix" env:"MASTERY_REDIS_PREFIX"`
}

// RetentionConfig controls the capacity sweep.
type RetentionConfig struct {
	Months int `yaml:"months" env:"MASTERY_RETENTION_MONTHS"`
}

// RefreshConfig sets how often the watching dashboard recomputes each metric.
type RefreshConfig struct {
	Momentum    time.Duration `yaml:"momentum" env:"MASTERY_REFRESH_MOMENTUM"`
	Probability time.Duration `yaml:"probability" env:"MASTERY_REFRESH_PROBABILITY"`
	Streak      time.Duration `yaml:"streak" env:"MASTERY_REFRESH_STREAK"`
}

// ExportConfig holds CSV and backup output settings.
type ExportConfig struct {
	Dir string `yaml:"dir" env:"MASTERY_EXPORT_DIR"`
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version: "1.0",
		Store: StoreConfig{
			Driver:   "sqlite",
			Path:     filepath.Join(".mastery", "mastery.db"),
			MaxBytes: 5 << 20,
			Redis: RedisConfig{
				Addr:   "localhost:6379",
				Prefix: "mastery:",
			},
		},
		Retention: RetentionConfig{Months: 3},
		Intensity: string(catalog.Standard),
		Refresh: RefreshConfig{
			Momentum:    60 * time.Second,
			Probability: 30 * time.Second,
			Streak:      time.Hour,
		},
		Export: ExportConfig{Dir: "."},
	}
}

// Load reads and parses the mastery.yaml config file.
func Load(path string) (*Config, error) {
	if path == "" {
		path = FileName
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return cfg, nil
}

// ApplyEnv overrides fields from MASTERY_* environment variables. Unset variables
// leave the current value in place.
func (c *Config) ApplyEnv() error {
	if err := env.Parse(c); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Save writes the configuration to the specified path.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case "sqlite":
		if c.Store.Path == "" {
			return fmt.Errorf("store.path is required for the sqlite driver")
		}
	case "redis":
		if c.Store.Redis.Addr == "" {
			return fmt.Errorf("store.redis.addr is required for the redis driver")
		}
	default:
		return fmt.Errorf("invalid store driver: %s (must be sqlite or redis)", c.Store.Driver)
	}

	if c.Store.MaxBytes < 0 {
		return fmt.Errorf("store.max_bytes cannot be negative")
	}

	if c.Retention.Months < 1 {
		return fmt.Errorf("retention.months must be at least 1")
	}

	if _, err := catalog.ParseIntensity(c.Intensity); err != nil {
		return err
	}

	if c.Refresh.Momentum <= 0 || c.Refresh.Probability <= 0 || c.Refresh.Streak <= 0 {
		return fmt.Errorf("refresh intervals must be positive")
	}

	return nil
}

// FindConfigFile searches for mastery.yaml in current and parent directories.
func FindConfigFile() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for dir := cwd; ; dir = filepath.Dir(dir) {
		configPath := filepath.Join(dir, FileName)
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}

		if dir == filepath.Dir(dir) {
			break
		}
	}

	return "", fmt.Errorf("%s not found in %s or parent directories", FileName, cwd)
}
