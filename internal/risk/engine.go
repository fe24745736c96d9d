package risk

import (
	"fmt"
	"time"

	"github.com/jaudi/Portfolio-analysis/internal/contracts"
	"github.com/jaudi/Portfolio-analysis/internal/portfolio"
)

// =============================================================================
// Engine
// =============================================================================

// Engine risk metrics engine (pure calculator)
// ⭐ SSOT: data retrieval, weighting and presentation are assembled by callers;
// internal/risk only reduces a return series to scalar statistics.
// Engine holds no state and is safe for concurrent use.
type Engine struct{}

// NewEngine creates a new risk engine
func NewEngine() *Engine {
	return &Engine{}
}

// Compute reduces a portfolio return series to RiskMetrics.
// Fails with DegenerateVarianceError when the series is constant or has a single point.
func (e *Engine) Compute(returns []float64, params contracts.AnalysisParams) (contracts.RiskMetrics, error) {
	if err := params.Validate(); err != nil {
		return contracts.RiskMetrics{}, err
	}
	if len(returns) == 0 {
		return contracts.RiskMetrics{}, fmt.Errorf("%w: %w", ErrEmptySeries,
			&portfolio.InsufficientDataError{Rows: 0, Required: portfolio.MinPriceRows})
	}

	mean, stdDev := Moments(returns)

	sharpe, err := SharpeRatio(mean, stdDev, params.RiskFreeAnnual, params.PeriodsPerYear, len(returns))
	if err != nil {
		return contracts.RiskMetrics{}, err
	}

	varDaily := ParametricVaR(mean, stdDev, params.Confidence)

	return contracts.RiskMetrics{
		ExpectedReturnDaily:  mean,
		ExpectedReturnAnnual: AnnualizeReturn(mean, params.PeriodsPerYear),
		StdDevDaily:          stdDev,
		StdDevAnnual:         AnnualizeVolatility(stdDev, params.PeriodsPerYear),
		SharpeRatio:          sharpe,
		VaRDaily:             varDaily,
		VaRAnnual:            AnnualizeVaR(varDaily, params.PeriodsPerYear),
		Confidence:           params.Confidence,
		PeriodsPerYear:       params.PeriodsPerYear,
		RiskFreeAnnual:       params.RiskFreeAnnual,
		SampleSize:           len(returns),
	}, nil
}

// =============================================================================
// Risk Check
// =============================================================================

// CheckLimits compares computed metrics with profile limits
func (e *Engine) CheckLimits(m contracts.RiskMetrics, limits RiskLimits) *LimitCheckResult {
	result := &LimitCheckResult{
		Passed:     true,
		Violations: make([]string, 0),
		Limits:     limits,
		CheckedAt:  time.Now(),
	}

	if limits.MaxVolatilityAnnual > 0 && m.StdDevAnnual > limits.MaxVolatilityAnnual {
		result.Passed = false
		result.Violations = append(result.Violations,
			fmt.Sprintf("annual volatility %.4f exceeds limit %.4f", m.StdDevAnnual, limits.MaxVolatilityAnnual))
	}

	// VaR is signed; the loss magnitude is its negation
	if limits.MaxDailyLoss > 0 && -m.VaRDaily > limits.MaxDailyLoss {
		result.Passed = false
		result.Violations = append(result.Violations,
			fmt.Sprintf("daily VaR loss %.4f exceeds limit %.4f", -m.VaRDaily, limits.MaxDailyLoss))
	}

	return result
}
