package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Store struct {
		Driver string `yaml:"driver"`
		Prefix string `yaml:"prefix"`
	} `yaml:"store"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	SQLite struct {
		Path string `yaml:"path"`
	} `yaml:"sqlite"`
	Clock struct {
		Timezone string `yaml:"timezone"`
	} `yaml:"clock"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
}

// Store drivers.
const (
	DriverMemory   = "memory"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// envOverrides are read from TRIVIA_* variables and win over the file.
type envOverrides struct {
	StoreDriver string `envconfig:"STORE_DRIVER"`
	RedisAddr   string `envconfig:"REDIS_ADDR"`
	PostgresURL string `envconfig:"POSTGRES_URL"`
	SQLitePath  string `envconfig:"SQLITE_PATH"`
	Timezone    string `envconfig:"TIMEZONE"`
	LogLevel    string `envconfig:"LOG_LEVEL"`
}

// Default returns the config used when no file is present.
func Default() Config {
	cfg := Config{}
	cfg.Server.Port = "8080"
	cfg.Store.Driver = DriverMemory
	cfg.SQLite.Path = "trivia-score.db"
	cfg.Clock.Timezone = "Local"
	cfg.Log.Level = "info"
	cfg.Log.Format = "text"
	return cfg
}

// Load reads YAML config from path on top of the defaults, then applies
// environment overrides. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return cfg, err
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	var env envOverrides
	if err := envconfig.Process("trivia", &env); err != nil {
		return fmt.Errorf("read environment: %w", err)
	}
	setIf(&cfg.Store.Driver, env.StoreDriver)
	setIf(&cfg.Redis.Addr, env.RedisAddr)
	setIf(&cfg.Postgres.URL, env.PostgresURL)
	setIf(&cfg.SQLite.Path, env.SQLitePath)
	setIf(&cfg.Clock.Timezone, env.Timezone)
	setIf(&cfg.Log.Level, env.LogLevel)
	return nil
}

func setIf(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// Location resolves the configured timezone, falling back to time.Local.
func (c Config) Location() (*time.Location, error) {
	switch c.Clock.Timezone {
	case "", "Local":
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Clock.Timezone)
	if err != nil {
		return time.Local, fmt.Errorf("load timezone %q: %w", c.Clock.Timezone, err)
	}
	return loc, nil
}
