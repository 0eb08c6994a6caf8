package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/kerbaras/bookshelf/pkg/app"
	"github.com/kerbaras/bookshelf/pkg/app/screens"
	"github.com/kerbaras/bookshelf/pkg/integrations"
	"github.com/kerbaras/bookshelf/pkg/services"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "bookshelf",
	Short: "Search books and keep a shelf of favorites",
	Long:  "Search the Google Books catalog, inspect books and keep favorites from a terminal UI or the command line",
	Run: func(cmd *cobra.Command, args []string) {
		// Launch TUI by default
		cobra.CheckErr(runTUI(cmd.Context()))
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default <data-dir>/config.yaml)")
	rootCmd.PersistentFlags().String("data-dir", "", "directory for the database, log and exports")
	rootCmd.PersistentFlags().String("store", "", "favorites store: duckdb, redis or postgres")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn or error")

	for key, flag := range map[string]string{
		"data_dir":  "data-dir",
		"store":     "store",
		"log_level": "log-level",
	} {
		if err := viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
			log.Fatal(err)
		}
	}
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func runTUI(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// The TUI owns the terminal, so the session log goes to a file.
	logFile, err := cfg.OpenLogFile()
	if err != nil {
		return err
	}
	defer logFile.Close()
	logger := cfg.NewLogger(logFile)

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	controller := services.NewBookController(ctx, newSource(cfg), store, services.ControllerConfig{
		RecentLimit:     cfg.RecentLimit,
		DedupeFavorites: cfg.DedupeFavorites,
		Logger:          logger,
	})

	a := app.NewApp(ctx, controller, screens.Options{
		ExportDir: filepath.Join(cfg.DataDir, "exports"),
		Export:    integrations.ReadingListOptions{Logger: logger},
	})
	return a.Run()
}
