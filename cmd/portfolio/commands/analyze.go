package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jaudi/Portfolio-analysis/internal/analyzer"
	"github.com/jaudi/Portfolio-analysis/internal/contracts"
	"github.com/jaudi/Portfolio-analysis/internal/external/yahoo"
	"github.com/jaudi/Portfolio-analysis/internal/marketdata"
	"github.com/jaudi/Portfolio-analysis/internal/portfolio"
	"github.com/jaudi/Portfolio-analysis/internal/render"
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a weighted portfolio",
	Long: fmt.Sprintf(`Fetches daily closes for the selected instruments, aligns them on common
trading dates and reports the portfolio's risk metrics.

Weights are fractions that must sum to 1 (±%g), one per symbol, in
symbol order. Omitting --weights splits the portfolio equally.

Sources:
  yahoo  - Yahoo Finance chart API (default)
  naver  - Naver Finance daily closes (6-digit KRX codes)
  db     - local price store filled by the price_refresh job
  demo   - deterministic synthetic prices, no network

Example:
  go run ./cmd/portfolio analyze --symbols ^GSPC,^FTSE --weights 0.6,0.4
  go run ./cmd/portfolio analyze --symbols ^GSPC,^N225,^HSI --period 5y --confidence 0.99
  go run ./cmd/portfolio analyze --demo --symbols ^GSPC,^IXIC --weights 0.5,0.5 --output json
  go run ./cmd/portfolio analyze --symbols ^GSPC,^FTSE --weights 0.7,0.3 --chart allocation.png`, portfolio.WeightSumTolerance),
	RunE: runAnalyze,
}

var (
	analyzeSymbols        []string
	analyzeWeights        []float64
	analyzePeriod         string
	analyzeSource         string
	analyzeDemo           bool
	analyzeConfidence     float64
	analyzeRiskFree       float64
	analyzePeriodsPerYear int
	analyzeOutput         string
	analyzeChart          string
	analyzeTimeout        time.Duration
)

func init() {
	rootCmd.AddCommand(analyzeCmd)

	// Flags
	analyzeCmd.Flags().StringSliceVarP(&analyzeSymbols, "symbols", "s", nil, "instrument symbols, comma separated")
	analyzeCmd.Flags().Float64SliceVarP(&analyzeWeights, "weights", "w", nil, "weights in symbol order, summing to 1")
	analyzeCmd.Flags().StringVarP(&analyzePeriod, "period", "p", "", "lookback period (default: profile default)")
	analyzeCmd.Flags().StringVar(&analyzeSource, "source", yahoo.SourceName, "price source (yahoo|naver|db|demo)")
	analyzeCmd.Flags().BoolVar(&analyzeDemo, "demo", false, "use synthetic prices (same as --source demo)")
	analyzeCmd.Flags().Float64Var(&analyzeConfidence, "confidence", 0, "VaR confidence level in (0,1) (default: profile)")
	analyzeCmd.Flags().Float64Var(&analyzeRiskFree, "risk-free", 0, "annual risk-free rate (default: profile)")
	analyzeCmd.Flags().IntVar(&analyzePeriodsPerYear, "periods-per-year", 0, "trading periods per year (default: profile)")
	analyzeCmd.Flags().StringVarP(&analyzeOutput, "output", "o", "text", "output format (text|json)")
	analyzeCmd.Flags().StringVar(&analyzeChart, "chart", "", "write the allocation pie chart to this PNG file")
	analyzeCmd.Flags().DurationVar(&analyzeTimeout, "timeout", 2*time.Minute, "overall deadline for fetching prices")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	if analyzeOutput != "text" && analyzeOutput != "json" {
		return fmt.Errorf("invalid --output %q (valid: text, json)", analyzeOutput)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, analyzeTimeout)
	defer cancel()

	a, err := setup(ctx, setupOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	sourceName := analyzeSource
	if analyzeDemo {
		sourceName = marketdata.SourceDemo
	}
	src, err := a.sources.Get(sourceName)
	if err != nil {
		return err
	}

	period := analyzePeriod
	if period == "" {
		period = a.profile.Periods.Default
	}

	symbols := normalizeSymbols(analyzeSymbols)
	weights := contracts.WeightVector(analyzeWeights)
	if len(weights) == 0 && len(symbols) > 0 {
		weights = equalWeights(len(symbols))
	}

	params := a.profile.Params()
	flags := cmd.Flags()
	if flags.Changed("confidence") {
		params.Confidence = analyzeConfidence
	}
	if flags.Changed("risk-free") {
		params.RiskFreeAnnual = analyzeRiskFree
	}
	if flags.Changed("periods-per-year") {
		params.PeriodsPerYear = analyzePeriodsPerYear
	}

	loader := marketdata.NewLoader(src, a.profile.Label, a.log)
	result, err := analyzer.New(loader, a.profile.Bounds(), a.profile.Limits, a.log).Run(ctx, analyzer.Request{
		Symbols: symbols,
		Weights: weights,
		Period:  period,
		Params:  params,
	})
	if err != nil {
		if kind := analyzer.Kind(err); kind != "" {
			return fmt.Errorf("%s: %w", kind, err)
		}
		return err
	}

	report := render.NewReport(result, a.profile.Meta.ProfileID, a.profileHash, src.Name(), symbols)
	out := cmd.OutOrStdout()
	if analyzeOutput == "json" {
		err = render.WriteJSON(out, report)
	} else {
		err = render.WriteText(out, report)
	}
	if err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	if analyzeChart != "" {
		png, err := render.AllocationPie(result.Allocation, a.profile.ChartStyle())
		if err != nil {
			return fmt.Errorf("render chart: %w", err)
		}
		if err := os.WriteFile(analyzeChart, png, 0o644); err != nil {
			return fmt.Errorf("write chart: %w", err)
		}
		a.log.WithField("path", analyzeChart).Info("Allocation chart written")
	}

	return nil
}

// normalizeSymbols trims blanks left by "a, b" style lists
func normalizeSymbols(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// equalWeights splits the portfolio evenly across n instruments
func equalWeights(n int) contracts.WeightVector {
	w := make(contracts.WeightVector, n)
	for i := range w {
		w[i] = 1 / float64(n)
	}
	return w
}
