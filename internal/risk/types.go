package risk

import (
	"errors"
	"fmt"
	"time"
)

// =============================================================================
// Conventions
// =============================================================================

// VaRConvention VaR sign convention
// ⭐ SSOT: VaR is a signed return, z*σ - μ with z = Φ⁻¹(1-confidence).
// A negative value is a loss (VaR=-0.034 → 3.4% daily loss at the confidence level).
// The sign is kept as computed and never converted to a positive loss magnitude.
const VaRConvention = "signed_return"

// DegenerateStdDev is the daily standard deviation below which a series is
// treated as constant. It absorbs the floating residue left by averaging
// identical values.
const DegenerateStdDev = 1e-12

// =============================================================================
// Errors
// =============================================================================

var (
	ErrDegenerateVariance = errors.New("degenerate_variance")
	ErrEmptySeries        = errors.New("empty return series")
)

// DegenerateVarianceError: the return series has zero variance and the
// Sharpe ratio is undefined
type DegenerateVarianceError struct {
	StdDev     float64
	SampleSize int
}

func (e *DegenerateVarianceError) Error() string {
	return fmt.Sprintf("portfolio returns have zero variance over %d periods: Sharpe ratio is undefined", e.SampleSize)
}

func (e *DegenerateVarianceError) Kind() string { return ErrDegenerateVariance.Error() }
func (e *DegenerateVarianceError) Is(target error) bool { return target == ErrDegenerateVariance }

// =============================================================================
// Limit Check Types
// =============================================================================

// RiskLimits optional limits checked after an analysis
// Zero disables a limit
type RiskLimits struct {
	// Annualized volatility ceiling (e.g. 0.25)
	MaxVolatilityAnnual float64 `json:"max_volatility_annual" yaml:"max_volatility_annual"`
	// Daily VaR loss ceiling as a positive magnitude (e.g. 0.03)
	MaxDailyLoss float64 `json:"max_daily_loss" yaml:"max_daily_loss"`
}

// Enabled reports whether any limit is set
func (l RiskLimits) Enabled() bool {
	return l.MaxVolatilityAnnual > 0 || l.MaxDailyLoss > 0
}

// LimitCheckResult outcome of CheckLimits
type LimitCheckResult struct {
	Passed     bool       `json:"passed"`
	Violations []string   `json:"violations"`
	Limits     RiskLimits `json:"limits"`
	CheckedAt  time.Time  `json:"checked_at"`
}
