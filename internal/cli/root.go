// Package cli implements the catalog command line: the HTTP server and its
// operational subcommands.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/forgecommerce/catalog/internal/config"
)

// configPath is the optional YAML file named by --config.
var configPath string

var rootCmd = &cobra.Command{
	Use:          "catalog",
	Short:        "Product catalog service",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(codeCmd)
	rootCmd.AddCommand(categoryCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func loadConfig() (*config.Config, error) {
	return config.Load(configPath)
}
