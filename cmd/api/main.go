package main

import (
	"fmt"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"
)

var version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "invoiceapi",
	Short: "Invoice CSV import service",
	Long: `invoiceapi serves the invoice HTTP API: bulk CSV import with
per-row error reporting, archival of uploaded files to object storage
and single-invoice CRUD.

Running it without a subcommand starts the server.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "", "override LOG_LEVEL (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "", "override LOG_FORMAT (json, console)")
	rootCmd.AddCommand(serveCmd, migrateCmd)
}

// @title Invoice Import API
// @version 1.0
// @description Bulk CSV import and CRUD for invoices.
// @BasePath /
func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "invoiceapi: %v\n", err)
		os.Exit(1)
	}
}
