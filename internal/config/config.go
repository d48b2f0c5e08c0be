// Package config loads CLI settings from an optional YAML file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g.
// ELEMENTS_FORMGEN_API_BASE_URL.
const EnvPrefix = "ELEMENTS_FORMGEN"

// Draft backends.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
)

// Config represents the CLI configuration.
type Config struct {
	API    APIConfig    `mapstructure:"api"`
	Log    LogConfig    `mapstructure:"log"`
	Drafts DraftsConfig `mapstructure:"drafts"`
}

// APIConfig points at the Elements admin API.
type APIConfig struct {
	BaseURL       string        `mapstructure:"base_url"`
	SessionSecret string        `mapstructure:"session_secret"`
	Timeout       time.Duration `mapstructure:"timeout"`
}

// LogConfig selects the log level and output format.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// DraftsConfig selects where drafts are kept.
type DraftsConfig struct {
	Backend string      `mapstructure:"backend"`
	Redis   RedisConfig `mapstructure:"redis"`
	SQLite  SQLite      `mapstructure:"sqlite"`
}

// RedisConfig configures the redis draft store.
type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	Prefix   string        `mapstructure:"prefix"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// SQLite configures the sqlite draft store.
type SQLite struct {
	Path string `mapstructure:"path"`
}

// Load reads the configuration. An empty path looks for
// elements-formgen.yaml in the working directory and tolerates its absence;
// an explicit path must exist.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("api.base_url", "")
	v.SetDefault("api.session_secret", "")
	v.SetDefault("api.timeout", 30*time.Second)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("drafts.backend", BackendMemory)
	v.SetDefault("drafts.redis.addr", "localhost:6379")
	v.SetDefault("drafts.redis.password", "")
	v.SetDefault("drafts.redis.db", 0)
	v.SetDefault("drafts.redis.prefix", "elements:drafts:")
	v.SetDefault("drafts.redis.ttl", 7*24*time.Hour)
	v.SetDefault("drafts.sqlite.path", "elements-drafts.db")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("elements-formgen")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks enumerated settings.
func (c *Config) Validate() error {
	switch c.Drafts.Backend {
	case BackendMemory, BackendRedis, BackendSQLite:
	default:
		return fmt.Errorf("config: drafts.backend must be one of memory, redis, sqlite, got %q", c.Drafts.Backend)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("config: log.format must be text or json, got %q", c.Log.Format)
	}
	if c.API.BaseURL != "" && !strings.HasPrefix(c.API.BaseURL, "http://") && !strings.HasPrefix(c.API.BaseURL, "https://") {
		return fmt.Errorf("config: api.base_url must be an http(s) url, got %q", c.API.BaseURL)
	}
	return nil
}
