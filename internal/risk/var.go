package risk

import (
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// =============================================================================
// Parametric VaR (normal distribution)
// =============================================================================

// ZScore returns Φ⁻¹(1 - confidence), negative for confidence > 0.5
// 95%: -1.6449, 99%: -2.3263
func ZScore(confidence float64) float64 {
	return distuv.UnitNormal.Quantile(1 - confidence)
}

// ParametricVaR variance-covariance VaR of a single return series
// varDaily = z * stdDev - mean (signed, see VaRConvention)
func ParametricVaR(mean, stdDev, confidence float64) float64 {
	return ZScore(confidence)*stdDev - mean
}

// =============================================================================
// Statistics
// =============================================================================

// Moments returns the mean and the population (biased) standard deviation
func Moments(returns []float64) (mean, stdDev float64) {
	return stat.PopMeanStdDev(returns, nil)
}

// AnnualizeReturn scales a per-period mean return to a yearly figure
func AnnualizeReturn(periodReturn float64, periodsPerYear int) float64 {
	return periodReturn * float64(periodsPerYear)
}

// AnnualizeVolatility scales a per-period standard deviation (square-root-of-time)
func AnnualizeVolatility(periodStdDev float64, periodsPerYear int) float64 {
	return periodStdDev * math.Sqrt(float64(periodsPerYear))
}

// AnnualizeVaR scales a daily VaR with the square-root-of-time rule, sign kept
func AnnualizeVaR(varDaily float64, periodsPerYear int) float64 {
	return varDaily * math.Sqrt(float64(periodsPerYear))
}

// SharpeRatio per-period excess return over per-period standard deviation
// riskFreeAnnual is de-annualized linearly: riskFreeAnnual / periodsPerYear
func SharpeRatio(mean, stdDev, riskFreeAnnual float64, periodsPerYear int, sampleSize int) (float64, error) {
	if stdDev < DegenerateStdDev || math.IsNaN(stdDev) {
		return 0, &DegenerateVarianceError{StdDev: stdDev, SampleSize: sampleSize}
	}
	riskFreeDaily := riskFreeAnnual / float64(periodsPerYear)
	return (mean - riskFreeDaily) / stdDev, nil
}
