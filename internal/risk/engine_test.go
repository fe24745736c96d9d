package risk

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaudi/Portfolio-analysis/internal/contracts"
	"github.com/jaudi/Portfolio-analysis/internal/portfolio"
)

func TestZScore(t *testing.T) {
	assert.InDelta(t, -1.6449, ZScore(0.95), 1e-4)
	assert.InDelta(t, -2.3263, ZScore(0.99), 1e-4)
	assert.InDelta(t, 0, ZScore(0.5), 1e-12)
}

func TestParametricVaR_SignConvention(t *testing.T) {
	// mean 0.001, std 0.02, 95% → (-1.6449)(0.02) - 0.001
	got := ParametricVaR(0.001, 0.02, 0.95)

	assert.InDelta(t, -0.03390, got, 1e-5)
	assert.Less(t, got, 0.0, "VaR keeps its sign, it is not reported as a magnitude")
}

func TestMoments_PopulationStdDev(t *testing.T) {
	mean, std := Moments([]float64{0.01, 0.03})

	assert.InDelta(t, 0.02, mean, 1e-15)
	// population: sqrt(((0.01)^2 + (0.01)^2) / 2) = 0.01
	assert.InDelta(t, 0.01, std, 1e-15)
}

func TestSharpeRatio(t *testing.T) {
	got, err := SharpeRatio(0.001, 0.01, 0.02, 252, 10)
	require.NoError(t, err)

	assert.InDelta(t, (0.001-0.02/252)/0.01, got, 1e-15)
}

func TestEngine_Compute(t *testing.T) {
	returns := []float64{0.01, -0.02, 0.015, 0.003, -0.007}
	params := contracts.DefaultAnalysisParams()

	m, err := NewEngine().Compute(returns, params)
	require.NoError(t, err)

	mean, std := Moments(returns)
	assert.Equal(t, mean, m.ExpectedReturnDaily)
	assert.Equal(t, std, m.StdDevDaily)
	assert.InDelta(t, (mean-0.02/252)/std, m.SharpeRatio, 1e-12)
	assert.InDelta(t, ZScore(0.95)*std-mean, m.VaRDaily, 1e-15)
	assert.Equal(t, 5, m.SampleSize)
	assert.Equal(t, 0.95, m.Confidence)
	assert.Equal(t, 252, m.PeriodsPerYear)
	assert.Equal(t, 0.02, m.RiskFreeAnnual)
}

func TestEngine_Compute_ScalingProperty(t *testing.T) {
	inputs := [][]float64{
		{0.01, -0.02, 0.015},
		{0.1, 0.2, -0.3, 0.05},
		{-0.001, 0.0005, 0.0002, 0.0031, -0.0042, 0.0009},
	}
	periods := []int{252, 12, 365}

	for _, returns := range inputs {
		for _, p := range periods {
			params := contracts.AnalysisParams{PeriodsPerYear: p, RiskFreeAnnual: 0.02, Confidence: 0.95}
			m, err := NewEngine().Compute(returns, params)
			require.NoError(t, err)

			assert.Equal(t, m.ExpectedReturnDaily*float64(p), m.ExpectedReturnAnnual)
			assert.Equal(t, m.StdDevDaily*math.Sqrt(float64(p)), m.StdDevAnnual)
			assert.Equal(t, m.VaRDaily*math.Sqrt(float64(p)), m.VaRAnnual)
		}
	}
}

func TestEngine_Compute_DegenerateVariance(t *testing.T) {
	tests := []struct {
		name    string
		returns []float64
	}{
		{"constant", []float64{0.01, 0.01, 0.01}},
		{"single point", []float64{0.02}},
		{"all zero", []float64{0, 0, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewEngine().Compute(tt.returns, contracts.DefaultAnalysisParams())

			var degenerate *DegenerateVarianceError
			require.ErrorAs(t, err, &degenerate)
			assert.Equal(t, len(tt.returns), degenerate.SampleSize)
			assert.True(t, errors.Is(err, ErrDegenerateVariance))
			assert.Equal(t, "degenerate_variance", degenerate.Kind())
			assert.Equal(t, contracts.RiskMetrics{}, m, "no partial metrics")
			assert.False(t, math.IsInf(m.SharpeRatio, 0) || math.IsNaN(m.SharpeRatio))
		})
	}
}

func TestEngine_Compute_InvalidInput(t *testing.T) {
	_, err := NewEngine().Compute(nil, contracts.DefaultAnalysisParams())
	assert.ErrorIs(t, err, ErrEmptySeries)
	assert.ErrorIs(t, err, portfolio.ErrInsufficientData)
	assert.Equal(t, "insufficient_data", portfolio.Kind(err))

	_, err = NewEngine().Compute([]float64{0.1, 0.2}, contracts.AnalysisParams{PeriodsPerYear: 252, Confidence: 1.5})
	assert.ErrorIs(t, err, contracts.ErrInvalidParams)
}

func TestEngine_Compute_Idempotent(t *testing.T) {
	returns := []float64{0.004, -0.011, 0.007, 0.002}
	e := NewEngine()

	first, err := e.Compute(returns, contracts.DefaultAnalysisParams())
	require.NoError(t, err)
	second, err := e.Compute(returns, contracts.DefaultAnalysisParams())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestEngine_CheckLimits(t *testing.T) {
	m := contracts.RiskMetrics{StdDevAnnual: 0.30, VaRDaily: -0.04}

	tests := []struct {
		name           string
		limits         RiskLimits
		wantPassed     bool
		wantViolations int
	}{
		{"disabled", RiskLimits{}, true, 0},
		{"within", RiskLimits{MaxVolatilityAnnual: 0.5, MaxDailyLoss: 0.05}, true, 0},
		{"volatility breach", RiskLimits{MaxVolatilityAnnual: 0.2}, false, 1},
		{"loss breach", RiskLimits{MaxDailyLoss: 0.03}, false, 1},
		{"both", RiskLimits{MaxVolatilityAnnual: 0.2, MaxDailyLoss: 0.03}, false, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := NewEngine().CheckLimits(m, tt.limits)
			assert.Equal(t, tt.wantPassed, res.Passed)
			assert.Len(t, res.Violations, tt.wantViolations)
		})
	}
}
