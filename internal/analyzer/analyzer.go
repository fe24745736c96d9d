package analyzer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jaudi/Portfolio-analysis/internal/contracts"
	"github.com/jaudi/Portfolio-analysis/internal/marketdata"
	"github.com/jaudi/Portfolio-analysis/internal/portfolio"
	"github.com/jaudi/Portfolio-analysis/internal/risk"
	"github.com/jaudi/Portfolio-analysis/pkg/logger"
)

// Result is everything one analysis produces
type Result struct {
	Metrics          contracts.RiskMetrics            `json:"metrics"`
	Allocation       contracts.Allocation             `json:"allocation"`
	PortfolioReturns *contracts.PortfolioReturnSeries `json:"-"`
	Period           string                           `json:"period,omitempty"`
	Start            time.Time                        `json:"start"`
	End              time.Time                        `json:"end"`
	Limits           *risk.LimitCheckResult           `json:"limits,omitempty"`
}

// Analyze runs the statistics pipeline on one price table
// ⭐ SSOT: validate params → validate weights → returns → aggregate → metrics → allocation
// Every stage short-circuits; no partial Result is returned on error.
// Pure: no I/O, no shared state, safe for concurrent use.
func Analyze(table *contracts.PriceTable, weights contracts.WeightVector, params contracts.AnalysisParams) (*Result, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if table == nil {
		return nil, contracts.ErrEmptyTable
	}

	symbols := table.Symbols()
	if err := portfolio.ValidateWeightsFor(weights, symbols); err != nil {
		return nil, err
	}

	returns, err := portfolio.CalculateReturns(table)
	if err != nil {
		return nil, err
	}

	series, err := portfolio.Aggregate(returns, weights)
	if err != nil {
		return nil, err
	}

	metrics, err := risk.NewEngine().Compute(series.Returns, params)
	if err != nil {
		return nil, err
	}

	allocation, err := portfolio.Summarize(symbols, table.Labels(), weights)
	if err != nil {
		return nil, err
	}

	dates := table.Dates()
	return &Result{
		Metrics:          metrics,
		Allocation:       allocation,
		PortfolioReturns: series,
		Start:            dates[0],
		End:              dates[len(dates)-1],
	}, nil
}

// Loader supplies the aligned price table for a selection
type Loader interface {
	Load(ctx context.Context, symbols []string, period string) (*contracts.PriceTable, marketdata.DateRange, error)
}

// Request is one analysis as asked for by a caller (CLI flags or HTTP body)
type Request struct {
	Symbols []string
	Weights contracts.WeightVector
	Period  string
	Params  contracts.AnalysisParams
}

// Analyzer wires selection checks, price loading and the pipeline together
type Analyzer struct {
	loader Loader
	bounds portfolio.SelectionBounds
	limits risk.RiskLimits
	logger *logger.Logger
}

// New creates an analyzer
func New(loader Loader, bounds portfolio.SelectionBounds, limits risk.RiskLimits, log *logger.Logger) *Analyzer {
	return &Analyzer{
		loader: loader,
		bounds: bounds,
		limits: limits,
		logger: log,
	}
}

// Run validates the request, loads prices and analyzes them
// Selection and weights are checked before any market data is requested
func (a *Analyzer) Run(ctx context.Context, req Request) (*Result, error) {
	if err := a.bounds.Check(len(req.Symbols)); err != nil {
		return nil, err
	}
	if err := req.Params.Validate(); err != nil {
		return nil, err
	}
	if err := portfolio.ValidateWeightsFor(req.Weights, req.Symbols); err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(req.Symbols))
	for _, sym := range req.Symbols {
		if seen[sym] {
			return nil, fmt.Errorf("%w: %s", contracts.ErrDuplicateSymbol, sym)
		}
		seen[sym] = true
	}

	start := time.Now()
	table, _, err := a.loader.Load(ctx, req.Symbols, req.Period)
	if err != nil {
		return nil, fmt.Errorf("load prices: %w", err)
	}

	result, err := Analyze(table, req.Weights, req.Params)
	if err != nil {
		a.logger.WithError(err).WithFields(map[string]interface{}{
			"symbols": req.Symbols,
			"period":  req.Period,
			"kind":    Kind(err),
		}).Warn("Analysis rejected")
		return nil, err
	}
	result.Period = req.Period

	if a.limits.Enabled() {
		check := risk.NewEngine().CheckLimits(result.Metrics, a.limits)
		result.Limits = check
		if !check.Passed {
			a.logger.WithFields(map[string]interface{}{
				"violations": check.Violations,
			}).Warn("Risk limits exceeded")
		}
	}

	a.logger.WithFields(map[string]interface{}{
		"symbols":       req.Symbols,
		"period":        req.Period,
		"samples":       result.Metrics.SampleSize,
		"return_annual": result.Metrics.ExpectedReturnAnnual,
		"vol_annual":    result.Metrics.StdDevAnnual,
		"sharpe":        result.Metrics.SharpeRatio,
		"duration":      time.Since(start).String(),
	}).Info("Analysis completed")

	return result, nil
}

// Kinds of request errors outside the portfolio taxonomy
const (
	KindInvalidParams   = "invalid_params"
	KindDuplicateSymbol = "duplicate_symbol"
)

// Kind returns the machine-readable error kind of any analysis error, or ""
// for collaborator failures (network, store)
func Kind(err error) string {
	if k := portfolio.Kind(err); k != "" {
		return k
	}
	if errors.Is(err, contracts.ErrInvalidParams) {
		return KindInvalidParams
	}
	if errors.Is(err, contracts.ErrDuplicateSymbol) {
		return KindDuplicateSymbol
	}
	return ""
}
