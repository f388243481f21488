// Package config holds the watchdog run settings: compiled defaults,
// overridden by an optional YAML config file, overridden by command-line
// flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Default values for a run. The probe target is a public resolver, so the
// TCP fallback can use the DNS port.
const (
	DefaultHost           = "1.1.1.1"
	DefaultPort           = 53
	DefaultTries          = 3
	DefaultTimeoutSeconds = 3.0
	DefaultWaitSeconds    = 5.0
	DefaultLogFile        = "/var/log/autorebooter.log"
	DefaultLogLevel       = "info"
	DefaultLogMaxSizeMB   = 10
	DefaultLogMaxAgeDays  = 28
)

// Config is the complete set of run settings. Values are fixed at startup
// and immutable for the lifetime of the run.
type Config struct {
	Host           string  `yaml:"host"`
	Port           int     `yaml:"port"`
	Tries          int     `yaml:"tries"`
	TimeoutSeconds float64 `yaml:"timeout_seconds"`
	WaitSeconds    float64 `yaml:"wait_seconds"`
	DryRun         bool    `yaml:"dry_run"`

	LogFile       string `yaml:"log_file"`
	LogLevel      string `yaml:"log_level"`
	LogMaxSizeMB  int    `yaml:"log_max_size_mb"`
	LogMaxAgeDays int    `yaml:"log_max_age_days"`
}

// Default returns the compiled-in configuration.
func Default() Config {
	return Config{
		Host:           DefaultHost,
		Port:           DefaultPort,
		Tries:          DefaultTries,
		TimeoutSeconds: DefaultTimeoutSeconds,
		WaitSeconds:    DefaultWaitSeconds,
		LogFile:        DefaultLogFile,
		LogLevel:       DefaultLogLevel,
		LogMaxSizeMB:   DefaultLogMaxSizeMB,
		LogMaxAgeDays:  DefaultLogMaxAgeDays,
	}
}

// Load reads configuration from a YAML file. An empty path or a missing
// file falls back to defaults; an unreadable or malformed file is an
// error.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}

	content, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(content, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Sanitize clamps out-of-range values to safe ones instead of failing the
// run: a watchdog on an unattended device must keep working on a botched
// config.
func (c *Config) Sanitize() {
	if c.Host == "" {
		c.Host = DefaultHost
	}
	if c.Port <= 0 || c.Port > 65535 {
		c.Port = DefaultPort
	}
	if c.Tries < 1 {
		c.Tries = 1
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 1
	}
	if c.WaitSeconds < 0 {
		c.WaitSeconds = 0
	}
	if c.LogFile == "" {
		c.LogFile = DefaultLogFile
	}
	if c.LogMaxSizeMB < 1 {
		c.LogMaxSizeMB = DefaultLogMaxSizeMB
	}
	if c.LogMaxAgeDays < 1 {
		c.LogMaxAgeDays = DefaultLogMaxAgeDays
	}
}

// Timeout is the per-probe timeout.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds * float64(time.Second))
}

// Wait is the pause between failed attempts.
func (c Config) Wait() time.Duration {
	return time.Duration(c.WaitSeconds * float64(time.Second))
}
