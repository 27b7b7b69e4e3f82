package commands

import (
	"github.com/spf13/cobra"

	"github.com/teranos/energydb/energy"
)

// RunReport loads the CSV file named by args[0], replacing the production
// table, then prints total production for each configured source.
func RunReport(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := cmd.Context()
	if _, err := s.loader.Load(ctx, args[0]); err != nil {
		return err
	}
	return energy.WriteReport(ctx, cmd.OutOrStdout(), s.aggregator,
		settings.Report.Year, labelledSources(settings.Report.Sources))
}
