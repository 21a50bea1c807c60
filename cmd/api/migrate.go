package main

import (
	"github.com/spf13/cobra"

	"invoiceapi/internal/database"
	"invoiceapi/internal/database/migration"
	"invoiceapi/internal/logger"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the invoices schema and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig(cmd)
		ctx := cmd.Context()

		db, err := database.NewPostgres(ctx, cfg.Database, logger.WithComponent("database"))
		if err != nil {
			return err
		}
		defer db.Close()

		return migration.EnsureMigrated(ctx, db, logger.WithComponent("migration"))
	},
}
