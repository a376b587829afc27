// Package cli implements the validador command line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Primosic/validador-opin-2025/internal/config"
	"github.com/Primosic/validador-opin-2025/internal/logging"
	"github.com/Primosic/validador-opin-2025/internal/store"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "validador",
	Short: "Open Insurance validation rule manager",
	Long: `Validador derives field-level validation rules from Open Insurance
OpenAPI documents and keeps them synchronized in PostgreSQL.`,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to the configuration file")

	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(daemonCmd)
	rootCmd.AddCommand(genCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the CLI and exits the process on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads the configuration and builds the logger shared by commands.
func setup() (*config.Config, *zap.SugaredLogger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}

	log, err := logging.New(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		return nil, nil, err
	}

	return cfg, log, nil
}

func openStore(cfg *config.Config) (*store.DB, error) {
	if cfg.Database.URL == "" {
		return nil, fmt.Errorf("database.url is not set (or set DATABASE_URL)")
	}
	return store.Open(cfg.Database.URL)
}
