package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/forgecommerce/catalog/internal/database"
	"github.com/forgecommerce/catalog/internal/logging"
	"github.com/forgecommerce/catalog/internal/services/category"
)

var categoryCmd = &cobra.Command{
	Use:   "category",
	Short: "Manage product categories",
}

var categoryCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a category and print its ID",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger := logging.Setup(cfg.LogLevel, cfg.LogFormat, cmd.ErrOrStderr())

		pool, err := database.Connect(cmd.Context(), cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer pool.Close()

		cat, err := category.NewService(pool, logger).Create(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", cat.ID, cat.Name)
		return nil
	},
}

func init() {
	categoryCmd.AddCommand(categoryCreateCmd)
}
