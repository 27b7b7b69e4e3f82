package commands

import (
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// LoadCmd replaces the production table without printing the report.
var LoadCmd = &cobra.Command{
	Use:   "load <csv-file>",
	Short: "Load a CSV file into the database, replacing previous data",
	Long: `Drop and recreate the production table from a CSV file.

The file must start with a header line followed by year,state,source,megawatthours
records. The load runs in one transaction: a missing file or a malformed line
leaves the previously loaded data untouched.

Examples:
  energydb load energy.csv
  energydb load energy.csv --db /var/lib/energydb/energy.db`,
	Args: cobra.ExactArgs(1),
	RunE: runLoad,
}

func runLoad(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	result, err := s.loader.Load(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	pterm.Success.WithWriter(cmd.OutOrStdout()).Printfln("Loaded %d records from %s (load %s, %s)",
		result.Rows, result.SourcePath, result.ID, result.Duration.Round(time.Millisecond))
	return nil
}
