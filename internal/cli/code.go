package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/forgecommerce/catalog/internal/productcode"
)

var codeCmd = &cobra.Command{
	Use:   "code <name>...",
	Short: "Print the base product code for each name",
	Long: `Print the base product code generated for each name, one per line,
followed by a tab and the name. Codes are not checked against the database,
so a stored product may carry a numeric suffix.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, name := range args {
			if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", productcode.Generate(name), name); err != nil {
				return err
			}
		}
		return nil
	},
}
