package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaudi/Portfolio-analysis/internal/analyzer"
	"github.com/jaudi/Portfolio-analysis/internal/contracts"
	"github.com/jaudi/Portfolio-analysis/internal/risk"
)

func sampleResult() *analyzer.Result {
	return &analyzer.Result{
		Metrics: contracts.RiskMetrics{
			ExpectedReturnDaily:  0.0005,
			ExpectedReturnAnnual: 0.1234,
			StdDevDaily:          0.01,
			StdDevAnnual:         0.1587,
			SharpeRatio:          0.04206,
			VaRDaily:             -0.01697,
			VaRAnnual:            -0.26903,
			Confidence:           0.95,
			PeriodsPerYear:       252,
			RiskFreeAnnual:       0.02,
			SampleSize:           251,
		},
		Allocation: contracts.Allocation{
			{Symbol: "^GSPC", Label: "S&P 500", Weight: 0.6},
			{Symbol: "^FTSE", Label: "FTSE 100", Weight: 0.4},
		},
		Period: "1y",
		Start:  time.Date(2023, 6, 14, 0, 0, 0, 0, time.UTC),
		End:    time.Date(2024, 6, 14, 0, 0, 0, 0, time.UTC),
	}
}

func TestPercent(t *testing.T) {
	assert.Equal(t, "12.34%", Percent(0.1234))
	assert.Equal(t, "-3.39%", Percent(-0.033897))
	assert.Equal(t, "0.00%", Percent(0))
}

func TestWriteText(t *testing.T) {
	r := NewReport(sampleResult(), "global_indices", "abc", "demo", []string{"^GSPC", "^FTSE"})

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, r))
	out := buf.String()

	for _, line := range []string{
		"Expected Portfolio Return: 12.34%",
		"Portfolio Standard Deviation: 15.87%",
		"Sharpe Ratio: 0.04",
		"Value at Risk (VaR) (Daily): -1.70%",
		"Value at Risk (VaR) (Annual): -26.90%",
		"Period    : 1y (2023-06-14 ~ 2024-06-14, 251 returns)",
	} {
		assert.Contains(t, out, line)
	}
	assert.Regexp(t, `S&P 500\s+\^GSPC\s+60\.0%`, out)
	assert.NotContains(t, out, "Risk limits")
}

func TestWriteText_Limits(t *testing.T) {
	res := sampleResult()
	res.Limits = &risk.LimitCheckResult{Passed: false, Violations: []string{"annual volatility 0.1587 exceeds limit 0.1000"}}

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, NewReport(res, "p", "", "demo", nil)))

	assert.Contains(t, buf.String(), "annual volatility 0.1587 exceeds limit 0.1000")
}

func TestWriteJSON(t *testing.T) {
	r := NewReport(sampleResult(), "global_indices", "abc", "yahoo", []string{"^GSPC", "^FTSE"})

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, r))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))

	assert.Equal(t, "signed_return", decoded["var_convention"])
	assert.Equal(t, "2023-06-14", decoded["start"])
	result := decoded["result"].(map[string]interface{})
	metrics := result["metrics"].(map[string]interface{})
	assert.Equal(t, -0.01697, metrics["var_daily"])
	assert.Len(t, result["allocation"], 2)
	assert.False(t, strings.Contains(buf.String(), "PortfolioReturns"))
}

func TestAllocationPie(t *testing.T) {
	png, err := AllocationPie(sampleResult().Allocation, DefaultChartStyle())
	require.NoError(t, err)

	require.Greater(t, len(png), 8)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, png[:4])
}

func TestAllocationPie_Empty(t *testing.T) {
	_, err := AllocationPie(nil, DefaultChartStyle())
	assert.ErrorIs(t, err, ErrEmptyAllocation)
}

func TestAllocationPie_Concurrent(t *testing.T) {
	alloc := sampleResult().Allocation

	const workers = 8
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			style := DefaultChartStyle()
			if i%2 == 1 {
				// a fresh palette registers while other goroutines render
				style.Colors = []string{fmt.Sprintf("#%02x3366", i*16), "#336699"}
			}
			_, errs[i] = AllocationPie(alloc, style)
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		assert.NoError(t, err, "worker %d", i)
	}
}
