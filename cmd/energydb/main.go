package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/teranos/energydb/cmd/energydb/commands"
	"github.com/teranos/energydb/errors"
	"github.com/teranos/energydb/logger"
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "energydb <csv-file>",
		Short: "energydb - load U.S. energy production data and report totals",
		Long: `energydb - load U.S. energy production data and report totals.

Given a CSV file of year,state,energy source,megawatthours records, energydb
replaces the production table in its database with the file's contents and
prints total production per configured source for the report year.

Available commands:
  load    - Load a CSV file without printing the report
  total   - Total production for one source and year
  stats   - Row count, last load and per-source totals
  config  - Show the effective configuration
  version - Show version information

Examples:
  energydb energy.csv                       # Load and print the 2017 report
  energydb load energy.csv --db energy.db   # Load into a specific database
  energydb total --source Wind --year 2016  # Query the loaded data`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return commands.Setup(cmd)
		},
		RunE: commands.RunReport,
	}

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "Config file (default: ./energydb.toml)")
	flags.String("db", "", "Database path or DSN (default: example.db)")
	flags.String("driver", "", "Database driver: sqlite3 or pgx (default: sqlite3)")
	flags.CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv)")
	flags.Bool("log-json", false, "Write logs as JSON")
	flags.String("metrics-file", "", "Write Prometheus metrics to this file on exit")

	rootCmd.AddCommand(commands.LoadCmd)
	rootCmd.AddCommand(commands.TotalCmd)
	rootCmd.AddCommand(commands.StatsCmd)
	rootCmd.AddCommand(commands.ConfigCmd)
	rootCmd.AddCommand(commands.VersionCmd)

	return rootCmd
}

func main() {
	err := newRootCmd().Execute()
	logger.Cleanup()
	if err != nil {
		fmt.Fprintln(os.Stderr, errors.UserMessage(err))
		os.Exit(1)
	}
}
