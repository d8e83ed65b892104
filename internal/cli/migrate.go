package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/forgecommerce/catalog/internal/database"
)

var (
	migrateDirection string
	migrateSteps     int
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply or roll back database migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if migrateDirection != "up" && migrateDirection != "down" {
			return fmt.Errorf("unknown direction %q (use \"up\" or \"down\")", migrateDirection)
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		if migrateDirection == "up" {
			if err := database.Migrate(cfg.DatabaseURL); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied successfully")
			return nil
		}

		if err := database.MigrateDown(cfg.DatabaseURL, migrateSteps); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "rolled back %d migration(s)\n", max(migrateSteps, 1))
		return nil
	},
}

func init() {
	migrateCmd.Flags().StringVar(&migrateDirection, "direction", "up", "migration direction: up or down")
	migrateCmd.Flags().IntVar(&migrateSteps, "steps", 1, "number of migrations to roll back (down only)")
}
