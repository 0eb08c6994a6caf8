package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/kerbaras/bookshelf/pkg/config"
	"github.com/kerbaras/bookshelf/pkg/data"
	"github.com/kerbaras/bookshelf/pkg/sources"
	"github.com/spf13/viper"
)

func loadConfig() (*config.Config, error) {
	return config.Load(viper.GetViper(), cfgFile)
}

func openStore(ctx context.Context, cfg *config.Config) (data.Store, error) {
	switch cfg.Store {
	case config.StoreRedis:
		return data.NewRedisStore(ctx, cfg.RedisURL, cfg.RedisPrefix)
	case config.StorePostgres:
		return data.NewPostgresStore(ctx, cfg.PostgresURL)
	case config.StoreDuckDB:
		return data.NewDuckDBStore(cfg.DBPath())
	}
	return nil, fmt.Errorf("unknown store %q", cfg.Store)
}

func newSource(cfg *config.Config) sources.Source {
	return sources.NewGoogleBooks(sources.GoogleBooksConfig{
		BaseURL:           cfg.APIBaseURL,
		APIKey:            cfg.APIKey,
		Timeout:           cfg.HTTPTimeout,
		RequestsPerSecond: cfg.RequestsPerSecond,
	})
}

// cliLogger is used by one-shot commands, which keep stdout for output.
func cliLogger(cfg *config.Config) *slog.Logger {
	level, _ := config.ParseLevel(cfg.LogLevel)
	if level < slog.LevelWarn {
		level = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}
