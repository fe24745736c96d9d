package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	profilePath string
	verbose     bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Portfolio risk analyzer",
	Long: `Portfolio Analyzer CLI

Analyzes a weighted basket of instruments over a lookback period:
expected return, volatility, Sharpe ratio and parametric Value at Risk,
daily and annualized, plus the allocation breakdown.

Usage:
  go run ./cmd/portfolio [command]

Examples:
  go run ./cmd/portfolio instruments
  go run ./cmd/portfolio analyze --symbols ^GSPC,^FTSE --weights 0.6,0.4 --period 2y
  go run ./cmd/portfolio analyze --source demo --symbols ^GSPC --weights 1 --output json
  go run ./cmd/portfolio api
  go run ./cmd/portfolio scheduler start`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&profilePath, "profile", "", "analysis profile YAML (default: ANALYSIS_PROFILE or built-in)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug logging)")
}
