package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:   "monex",
		Short: "Summarise a month of categorized bank transactions",
		Long: `Monex reads a monthly bank statement export (CSV with Date, Amount,
Merchant, Total fees and Category columns) and reports where the money went:
share of spend per category, cumulative cost per category over the month,
income, savings and transaction counts.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to a TOML config file")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&opts.format, "format", "text", "output format (text or json)")

	cmd.AddCommand(
		newReportCmd(opts, "summary", "Share of spend per category and month totals", renderSummary),
		newReportCmd(opts, "trend", "Cumulative cost per category for each day", renderTrend),
		newReportCmd(opts, "counts", "Number of transactions per day and per category", renderCounts),
		newMonthsCmd(),
	)
	return cmd
}
