// Package config loads server settings from a TOML file and the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap/zapcore"

	"toolstation/store"
)

type Config struct {
	Listen  string        `toml:"listen"`
	Storage StorageConfig `toml:"storage"`
	Session SessionConfig `toml:"session"`
	Limits  LimitsConfig  `toml:"limits"`
	Log     LogConfig     `toml:"log"`
}

type StorageConfig struct {
	Backend string `toml:"backend"` // memory, file or sqlite
	Path    string `toml:"path"`
	// Watch reloads a file store when another process rewrites it.
	Watch bool `toml:"watch"`
}

type SessionConfig struct {
	IdleTimeout Duration `toml:"idle_timeout"`
}

type LimitsConfig struct {
	RequestsPerSecond float64 `toml:"requests_per_second"`
	Burst             int     `toml:"burst"`
	MaxBodyBytes      int64   `toml:"max_body_bytes"`
}

type LogConfig struct {
	Level       string `toml:"level"`
	Development bool   `toml:"development"`
}

// Duration is a time.Duration written as a string such as "30m".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default storage paths per backend.
const (
	DefaultFilePath   = "data/toolstation.json"
	DefaultSQLitePath = "data/toolstation.db"
)

func Default() *Config {
	return &Config{
		Listen: ":8080",
		Storage: StorageConfig{
			Backend: store.BackendFile,
			Watch:   true,
		},
		Session: SessionConfig{IdleTimeout: Duration{30 * time.Minute}},
		Limits: LimitsConfig{
			RequestsPerSecond: 20,
			Burst:             40,
			MaxBodyBytes:      10 << 20,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads path over the defaults, applies environment overrides and
// validates the result. A missing file is not an error; an empty path skips
// the file.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to decode TOML file: %w", err)
		}
	}
	cfg.ApplyEnvOverrides()
	cfg.fillDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnvOverrides applies PORT and TOOLSTATION_* variables.
func (c *Config) ApplyEnvOverrides() {
	if port := os.Getenv("PORT"); port != "" {
		c.Listen = ":" + port
	}
	if backend := os.Getenv("TOOLSTATION_STORE"); backend != "" {
		c.Storage.Backend = backend
	}
	if path := os.Getenv("TOOLSTATION_STORE_PATH"); path != "" {
		c.Storage.Path = path
	}
	if level := os.Getenv("TOOLSTATION_LOG_LEVEL"); level != "" {
		c.Log.Level = level
	}
}

func (c *Config) fillDefaults() {
	c.Storage.Backend = strings.ToLower(c.Storage.Backend)
	if c.Storage.Path != "" {
		return
	}
	switch c.Storage.Backend {
	case store.BackendFile:
		c.Storage.Path = DefaultFilePath
	case store.BackendSQLite:
		c.Storage.Path = DefaultSQLitePath
	}
}

// ValidationError names the offending key.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is every validation failure found.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

func (c *Config) Validate() error {
	var errs ValidateErrors

	if c.Listen == "" {
		errs = append(errs, ValidationError{"listen", "must not be empty"})
	}
	switch c.Storage.Backend {
	case store.BackendMemory, store.BackendFile, store.BackendSQLite:
	default:
		errs = append(errs, ValidationError{
			Field:   "storage.backend",
			Message: fmt.Sprintf("invalid backend '%s', must be one of: memory, file, sqlite", c.Storage.Backend),
		})
	}
	if c.Session.IdleTimeout.Duration < 0 {
		errs = append(errs, ValidationError{"session.idle_timeout", "must not be negative"})
	}
	if c.Limits.RequestsPerSecond < 0 {
		errs = append(errs, ValidationError{"limits.requests_per_second", "must not be negative"})
	}
	if c.Limits.Burst < 0 {
		errs = append(errs, ValidationError{"limits.burst", "must not be negative"})
	}
	if c.Limits.MaxBodyBytes <= 0 {
		errs = append(errs, ValidationError{"limits.max_body_bytes", "must be positive"})
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, ValidationError{"log.level", err.Error()})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
