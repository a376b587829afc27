package cli

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Primosic/validador-opin-2025/internal/config"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Database migration commands",
	Long:  "Run and inspect the schema migrations of the rule store.",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}

		db, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		applied, err := db.MigrateUp(cmd.Context())
		if err != nil {
			return err
		}

		if len(applied) == 0 {
			fmt.Println("No pending migrations")
			return nil
		}
		for _, name := range applied {
			color.New(color.FgGreen).Printf("✓ Applied %s\n", name)
		}
		return nil
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show migration status",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}

		db, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		statuses, err := db.MigrationStatuses(cmd.Context())
		if err != nil {
			return err
		}

		for _, st := range statuses {
			if st.Applied {
				color.New(color.FgGreen).Printf("✓ %s (applied %s)\n", st.Name, st.AppliedAt.Format(time.RFC3339))
			} else {
				color.New(color.FgYellow).Printf("- %s (pending)\n", st.Name)
			}
		}
		return nil
	},
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateStatusCmd)
}
