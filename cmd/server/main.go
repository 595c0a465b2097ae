// Package main is the entry point for the snippet manager.
//
// MAIN PACKAGE IN GO:
// The main package is kept minimal. Its job is to parse the command line,
// load configuration, build the logger and hand over to internal/server.
// All actual logic lives in imported packages.
//
// COMMANDS:
//
//	server serve     run migrations, then serve the HTTP API
//	server migrate   apply pending migrations and exit
//
// Both accept --config to point at a YAML file; without it snippets.yaml
// in the working directory is used when present.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/sakif/snippet-manager/internal/config"
)

func main() {
	var configFile string

	rootCmd := &cobra.Command{
		Use:           "server",
		Short:         "Snippet manager HTTP API",
		Long:          "Store code snippets with public or private visibility behind token authentication.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "path to a YAML config file")

	rootCmd.AddCommand(newServeCmd(&configFile))
	rootCmd.AddCommand(newMigrateCmd(&configFile))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newLogger builds the process-wide structured logger.
//
// slog.NewTextHandler outputs human-readable key=value lines; the level
// comes from SNIPPETS_LOG_LEVEL (debug, info, warn, error).
func newLogger(cfg *config.Config) *slog.Logger {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.Log.Level,
	}))
	slog.SetDefault(logger)
	return logger
}
