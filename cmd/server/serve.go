package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sakif/snippet-manager/internal/config"
	"github.com/sakif/snippet-manager/internal/repository/sqldb"
	"github.com/sakif/snippet-manager/internal/server"
)

func newServeCmd(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configFile)
			if err != nil {
				return err
			}
			logger := newLogger(cfg)

			db, err := openDB(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}

			srv, err := server.New(cfg, db, logger)
			if err != nil {
				db.Close()
				return fmt.Errorf("creating server: %w", err)
			}

			// Start blocks until SIGINT/SIGTERM and closes the database on
			// the way out.
			return srv.Start()
		},
	}
}

// openDB opens the configured database and applies pending migrations.
// The caller owns the returned handle.
func openDB(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*sqldb.DB, error) {
	driver := sqldb.NormalizeDriver(cfg.DB.Driver)
	if err := ensureDataDir(driver, cfg.DB.DSN); err != nil {
		return nil, err
	}

	db, err := sqldb.Open(ctx, driver, cfg.DB.DSN)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	applied, err := db.Migrate(ctx)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	logger.Info("database ready",
		slog.String("driver", driver),
		slog.Int("migrations_applied", applied),
	)
	return db, nil
}

// ensureDataDir creates the parent directory of a file-backed SQLite
// database (like `mkdir -p`). URIs and in-memory databases are left alone.
func ensureDataDir(driver, dsn string) error {
	if driver != sqldb.DriverSQLite || dsn == ":memory:" || strings.HasPrefix(dsn, "file:") {
		return nil
	}
	path, _, _ := strings.Cut(dsn, "?")
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating data directory %s: %w", dir, err)
	}
	return nil
}
