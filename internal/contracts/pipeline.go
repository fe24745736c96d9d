package contracts

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ReturnTable holds simple daily returns, one row per consecutive price pair.
// Dates[t] is the later date of the pair.
type ReturnTable struct {
	Dates   []time.Time `json:"dates"`
	Symbols []string    `json:"symbols"`
	Returns [][]float64 `json:"returns"` // Returns[row][col]
}

// Rows returns the number of return periods (N-1)
func (r *ReturnTable) Rows() int {
	return len(r.Returns)
}

// Cols returns the number of instruments
func (r *ReturnTable) Cols() int {
	return len(r.Symbols)
}

// PortfolioReturnSeries is the weighted portfolio return per period
type PortfolioReturnSeries struct {
	Dates   []time.Time `json:"dates"`
	Returns []float64   `json:"returns"`
}

// Len returns the number of periods
func (p *PortfolioReturnSeries) Len() int {
	return len(p.Returns)
}

// RiskMetrics is the summary of one analysis run
// ⭐ VaR sign convention: signed return, negative = loss (z*std - mean)
type RiskMetrics struct {
	ExpectedReturnDaily  float64 `json:"expected_return_daily"`
	ExpectedReturnAnnual float64 `json:"expected_return_annual"`
	StdDevDaily          float64 `json:"std_dev_daily"`
	StdDevAnnual         float64 `json:"std_dev_annual"`
	SharpeRatio          float64 `json:"sharpe_ratio"`
	VaRDaily             float64 `json:"var_daily"`
	VaRAnnual            float64 `json:"var_annual"`

	// Inputs that produced the figures
	Confidence     float64 `json:"confidence"`
	PeriodsPerYear int     `json:"periods_per_year"`
	RiskFreeAnnual float64 `json:"risk_free_annual"`
	SampleSize     int     `json:"sample_size"`
}

// AnalysisParams are the tunable constants of the risk metrics engine
type AnalysisParams struct {
	PeriodsPerYear int     `json:"periods_per_year"`
	RiskFreeAnnual float64 `json:"risk_free_annual"`
	Confidence     float64 `json:"confidence"`
}

// Defaults for daily data
const (
	DefaultPeriodsPerYear = 252
	DefaultRiskFreeAnnual = 0.02
	DefaultConfidence     = 0.95
)

// ErrInvalidParams is returned for out-of-range analysis parameters
var ErrInvalidParams = errors.New("invalid analysis parameters")

// DefaultAnalysisParams returns 252 periods, 2% risk-free, 95% confidence
func DefaultAnalysisParams() AnalysisParams {
	return AnalysisParams{
		PeriodsPerYear: DefaultPeriodsPerYear,
		RiskFreeAnnual: DefaultRiskFreeAnnual,
		Confidence:     DefaultConfidence,
	}
}

// Validate checks parameter ranges
func (p AnalysisParams) Validate() error {
	if p.PeriodsPerYear <= 0 {
		return fmt.Errorf("%w: periods per year must be > 0, got %d", ErrInvalidParams, p.PeriodsPerYear)
	}
	if math.IsNaN(p.Confidence) || p.Confidence <= 0 || p.Confidence >= 1 {
		return fmt.Errorf("%w: confidence level must be between 0 and 1, got %v", ErrInvalidParams, p.Confidence)
	}
	if math.IsNaN(p.RiskFreeAnnual) || math.IsInf(p.RiskFreeAnnual, 0) {
		return fmt.Errorf("%w: risk-free rate must be finite, got %v", ErrInvalidParams, p.RiskFreeAnnual)
	}
	return nil
}
