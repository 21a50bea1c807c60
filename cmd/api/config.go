package main

import (
	"github.com/spf13/cobra"

	"invoiceapi/internal/config"
	"invoiceapi/internal/logger"
)

// loadConfig reads the environment, applies flag overrides and sets up logging.
func loadConfig(cmd *cobra.Command) *config.AppConfig {
	cfg := config.Load()
	if v, _ := cmd.Flags().GetString("log-level"); v != "" {
		cfg.Log.Level = v
	}
	if v, _ := cmd.Flags().GetString("log-format"); v != "" {
		cfg.Log.Format = v
	}
	logger.Setup(cfg.Log)
	return cfg
}
