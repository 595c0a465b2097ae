package main

import (
	"github.com/spf13/cobra"

	"github.com/sakif/snippet-manager/internal/config"
)

func newMigrateCmd(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configFile)
			if err != nil {
				return err
			}

			db, err := openDB(cmd.Context(), cfg, newLogger(cfg))
			if err != nil {
				return err
			}
			return db.Close()
		},
	}
}
