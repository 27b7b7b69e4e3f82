package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// ConfigCmd prints the effective configuration.
var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration as TOML",
	Long: `Print the configuration after merging defaults, energydb.toml files,
ENERGYDB_* environment variables and flags. The output is a valid energydb.toml.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := settings.Encode()
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}
