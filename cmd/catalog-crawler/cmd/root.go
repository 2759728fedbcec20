package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/raushankrgupta/catalog-crawler/config"
	"github.com/spf13/cobra"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "catalog-crawler",
	Short: "catalog-crawler crawls e-commerce catalogs and validates the extracted products.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg = config.Load()
		initLogger(cfg.Log)
		if cfg.EnvFile != "" {
			slog.Debug("loaded environment file", "file", cfg.EnvFile)
		}
	},
	SilenceUsage: true,
}

// Execute runs the CLI. SIGINT and SIGTERM stop a crawl between products;
// whatever was collected is still written out.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	slog.SetDefault(slog.New(handler))
}
