package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teranos/energydb/energy"
)

// TotalCmd queries the already-loaded store.
var TotalCmd = &cobra.Command{
	Use:   "total",
	Short: "Print total production for one source and year",
	Long: `Sum megawatt-hours over every loaded record matching a source and year.

The source must match the stored name exactly (case-sensitive). A source or
year with no records prints 0.0.

Examples:
  energydb total --source Wind --year 2017
  energydb total --source "Solar Thermal and Photovoltaic"`,
	Args: cobra.NoArgs,
	RunE: runTotal,
}

var (
	totalSourceFlag string
	totalYearFlag   int
)

func init() {
	TotalCmd.Flags().StringVarP(&totalSourceFlag, "source", "s", "", "Energy source, exactly as stored (required)")
	TotalCmd.Flags().IntVarP(&totalYearFlag, "year", "y", 0, "Year (default: report.year)")
	_ = TotalCmd.MarkFlagRequired("source")
}

func runTotal(cmd *cobra.Command, args []string) error {
	year := totalYearFlag
	if !cmd.Flags().Changed("year") {
		year = settings.Report.Year
	}

	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	total, err := s.aggregator.TotalProduction(cmd.Context(), totalSourceFlag, year)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), energy.FormatMWh(total))
	return nil
}
