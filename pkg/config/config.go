// Package config resolves runtime settings from flags, BOOKSHELF_* environment
// variables, an optional .env.local file and an optional YAML config file,
// in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	StoreDuckDB   = "duckdb"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
)

type Config struct {
	DataDir           string        `mapstructure:"data_dir"`
	Store             string        `mapstructure:"store"`
	RedisURL          string        `mapstructure:"redis_url"`
	RedisPrefix       string        `mapstructure:"redis_prefix"`
	PostgresURL       string        `mapstructure:"postgres_url"`
	APIBaseURL        string        `mapstructure:"api_base_url"`
	APIKey            string        `mapstructure:"api_key"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	HTTPTimeout       time.Duration `mapstructure:"http_timeout"`
	RecentLimit       int           `mapstructure:"recent_limit"`
	DedupeFavorites   bool          `mapstructure:"dedupe_favorites"`
	LogLevel          string        `mapstructure:"log_level"`
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".bookshelf"
	}
	return filepath.Join(home, ".bookshelf")
}

// SetDefaults registers every key so environment overrides reach Unmarshal.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("data_dir", defaultDataDir())
	v.SetDefault("store", StoreDuckDB)
	v.SetDefault("redis_url", "redis://localhost:6379/0")
	v.SetDefault("redis_prefix", "bookshelf:")
	v.SetDefault("postgres_url", "")
	v.SetDefault("api_base_url", "https://www.googleapis.com/books/v1")
	v.SetDefault("api_key", "")
	v.SetDefault("requests_per_second", 5.0)
	v.SetDefault("http_timeout", 15*time.Second)
	v.SetDefault("recent_limit", 20)
	v.SetDefault("dedupe_favorites", false)
	v.SetDefault("log_level", "info")
}

// Load reads configuration into a Config. configFile may be empty, in which
// case <data_dir>/config.yaml is used when present.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	_ = godotenv.Load(".env.local")

	SetDefaults(v)
	v.SetEnvPrefix("BOOKSHELF")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: failed to read %s: %w", configFile, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(v.GetString("data_dir"))
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("config: %w", err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Store {
	case StoreDuckDB:
	case StoreRedis:
		if c.RedisURL == "" {
			return errors.New("config: redis_url is required for the redis store")
		}
	case StorePostgres:
		if c.PostgresURL == "" {
			return errors.New("config: postgres_url is required for the postgres store")
		}
	default:
		return fmt.Errorf("config: unknown store %q", c.Store)
	}
	if c.DataDir == "" {
		return errors.New("config: data_dir cannot be empty")
	}
	if c.RecentLimit <= 0 {
		return fmt.Errorf("config: recent_limit must be positive, got %d", c.RecentLimit)
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("config: http_timeout must be positive, got %s", c.HTTPTimeout)
	}
	if c.RequestsPerSecond < 0 {
		return fmt.Errorf("config: requests_per_second cannot be negative")
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir, "bookshelf.db")
}

func (c *Config) LogPath() string {
	return filepath.Join(c.DataDir, "bookshelf.log")
}

func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return level, fmt.Errorf("config: invalid log_level %q", s)
	}
	return level, nil
}

func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	level, _ := ParseLevel(c.LogLevel)
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// OpenLogFile opens the append-only session log under DataDir.
func (c *Config) OpenLogFile() (*os.File, error) {
	if err := os.MkdirAll(c.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}
	return os.OpenFile(c.LogPath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
}
