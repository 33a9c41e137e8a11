package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// EnvPrefix prefixes every environment override, e.g. P2PM_REPLY_MIN_DELAY.
const EnvPrefix = "P2PM_"

// Storage backends.
const (
	BackendSQLite = "sqlite"
	BackendBolt   = "bolt"
)

// Config represents the global ~/.p2pm/config.toml.
type Config struct {
	DefaultProfile string        `toml:"default_profile" env:"DEFAULT_PROFILE"`
	Reply          ReplyConfig   `toml:"reply" envPrefix:"REPLY_"`
	Storage        StorageConfig `toml:"storage" envPrefix:"STORAGE_"`
	HTTP           HTTPConfig    `toml:"http" envPrefix:"HTTP_"`
	Log            LogConfig     `toml:"log" envPrefix:"LOG_"`
}

// ReplyConfig bounds the simulated reply delay.
type ReplyConfig struct {
	MinDelay Duration `toml:"min_delay" env:"MIN_DELAY"`
	MaxDelay Duration `toml:"max_delay" env:"MAX_DELAY"`
}

// StorageConfig selects the blob store backend.
type StorageConfig struct {
	Backend string `toml:"backend" env:"BACKEND"`
}

// HTTPConfig enables the JSON API when Addr is set.
type HTTPConfig struct {
	Addr string `toml:"addr" env:"ADDR"`
}

// LogConfig sets the minimum log level.
type LogConfig struct {
	Level string `toml:"level" env:"LEVEL"`
}

// Duration is a time.Duration written as "1.5s" in TOML and env values.
type Duration time.Duration

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Reply: ReplyConfig{
			MinDelay: Duration(1500 * time.Millisecond),
			MaxDelay: Duration(2500 * time.Millisecond),
		},
		Storage: StorageConfig{Backend: BackendSQLite},
		Log:     LogConfig{Level: "info"},
	}
}

// Load reads config from the given path. Returns zero config and error if file missing.
func Load(path string) (*Config, error) {
	var cfg Config
	_, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Resolve builds the effective configuration: defaults, then the TOML file
// at path if present, then an optional .env file, then P2PM_* variables.
func Resolve(path, dotenv string) (*Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if dotenv != "" {
		if err := godotenv.Load(dotenv); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", dotenv, err)
		}
	}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the daemon cannot run with.
func (c *Config) Validate() error {
	if c.Reply.MinDelay < 0 || c.Reply.MaxDelay < c.Reply.MinDelay {
		return fmt.Errorf("reply delay range [%s, %s] is invalid", c.Reply.MinDelay.Std(), c.Reply.MaxDelay.Std())
	}
	switch c.Storage.Backend {
	case BackendSQLite, BackendBolt:
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	return nil
}

// Save writes config to the given path, creating parent dirs as needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	encErr := toml.NewEncoder(f).Encode(cfg)
	if closeErr := f.Close(); closeErr != nil && encErr == nil {
		return closeErr
	}
	return encErr
}
