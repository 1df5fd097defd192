// Package config loads the service configuration from a YAML file, with sane
// defaults when the file or individual keys are absent.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults applied when the config file omits a value.
const (
	DefaultListen      = ":8080"
	DefaultDSN         = "data/retrievaltrack.db"
	DefaultExpiryHours = 24
)

// JWTConfig holds session token settings.
type JWTConfig struct {
	Secret      string `yaml:"secret"`
	ExpiryHours int    `yaml:"expiry-hours"`
}

// Expiry returns the token lifetime.
func (c JWTConfig) Expiry() time.Duration {
	hours := c.ExpiryHours
	if hours <= 0 {
		hours = DefaultExpiryHours
	}
	return time.Duration(hours) * time.Hour
}

// LogConfig holds log output settings.
type LogConfig struct {
	File       string `yaml:"file"` // Empty logs to stderr only.
	MaxSizeMB  int    `yaml:"max-size-mb"`
	MaxBackups int    `yaml:"max-backups"`
	MaxAgeDays int    `yaml:"max-age-days"`
	Level      string `yaml:"level"`
}

// Config is the root configuration document.
type Config struct {
	Listen   string `yaml:"listen"`
	Database struct {
		DSN string `yaml:"dsn"`
	} `yaml:"database"`
	JWT JWTConfig `yaml:"jwt"`
	Log LogConfig `yaml:"log"`

	// ReferenceDate pins the SLA reference date (YYYY-MM-DD). Empty uses the
	// wall clock.
	ReferenceDate string `yaml:"reference-date"`
}

// ResolveConfigPath returns the config path, honoring the RT_CONFIG
// environment variable when the flag is empty.
func ResolveConfigPath(path string) string {
	if strings.TrimSpace(path) != "" {
		return path
	}
	if env := strings.TrimSpace(os.Getenv("RT_CONFIG")); env != "" {
		return env
	}
	return "config.yaml"
}

// Load reads the config file. A missing file yields defaults rather than an
// error; a malformed file is an error.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, errRead := os.ReadFile(path)
	if errRead != nil {
		if os.IsNotExist(errRead) {
			return applyDefaults(cfg), nil
		}
		return Config{}, fmt.Errorf("config: read %s: %w", path, errRead)
	}
	if errDecode := yaml.Unmarshal(data, &cfg); errDecode != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, errDecode)
	}
	return applyDefaults(cfg), nil
}

// applyDefaults fills unset values.
func applyDefaults(cfg Config) Config {
	if strings.TrimSpace(cfg.Listen) == "" {
		cfg.Listen = DefaultListen
	}
	if strings.TrimSpace(cfg.Database.DSN) == "" {
		cfg.Database.DSN = DefaultDSN
	}
	if cfg.JWT.ExpiryHours <= 0 {
		cfg.JWT.ExpiryHours = DefaultExpiryHours
	}
	return cfg
}

// ReferenceFunc builds the reference date source: a fixed date when
// configured, the wall clock otherwise.
func (c Config) ReferenceFunc() (func() time.Time, error) {
	trimmed := strings.TrimSpace(c.ReferenceDate)
	if trimmed == "" {
		return func() time.Time { return time.Now().UTC() }, nil
	}
	fixed, errParse := time.ParseInLocation("2006-01-02", trimmed, time.UTC)
	if errParse != nil {
		return nil, fmt.Errorf("config: reference-date %q: %w", trimmed, errParse)
	}
	return func() time.Time { return fixed }, nil
}
