package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/nathantheresa/portfolio/internal/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the articles schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.DatabaseURL == "" {
			return errors.New("DATABASE_URL is not set")
		}

		ctx := cmd.Context()
		conn, err := db.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer conn.Close()

		if err := db.Migrate(ctx, conn); err != nil {
			logger.Error("Migration failed: %v", err)
			return err
		}

		logger.Info("Database schema is up to date")
		return nil
	},
}
