package commands

import (
	"fmt"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/energydb/energy"
)

// StatsCmd summarizes the loaded data.
var StatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show row count, last load and per-source totals",
	Long: `Display what the database currently holds: the number of production
records, the most recent load, and total production per source for one year.

Examples:
  energydb stats
  energydb stats --year 2010`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

var statsYearFlag int

func init() {
	StatsCmd.Flags().IntVarP(&statsYearFlag, "year", "y", 0, "Year for per-source totals (default: report.year)")
}

func runStats(cmd *cobra.Command, args []string) error {
	year := statsYearFlag
	if !cmd.Flags().Changed("year") {
		year = settings.Report.Year
	}

	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	count, err := s.aggregator.Count(ctx)
	if err != nil {
		return err
	}
	last, err := s.aggregator.LastLoad(ctx)
	if err != nil {
		return err
	}
	totals, err := s.aggregator.SourceTotals(ctx, year)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Database:     %s\n", settings.Database.Path)
	fmt.Fprintf(out, "Records:      %d\n", count)
	if last != nil {
		fmt.Fprintf(out, "Last load:    %s (%d rows, %s)\n",
			last.SourcePath, last.Rows, last.LoadedAt.Local().Format(time.RFC3339))
	}
	fmt.Fprintln(out)

	if len(totals) == 0 {
		pterm.Info.WithWriter(out).Printfln("No records for %d", year)
		return nil
	}

	data := pterm.TableData{{"Source", fmt.Sprintf("MWh (%d)", year)}}
	for _, st := range totals {
		data = append(data, []string{st.Source, energy.FormatMWh(st.MWh)})
	}
	return pterm.DefaultTable.WithHasHeader().WithRightAlignment().WithData(data).WithWriter(out).Render()
}
