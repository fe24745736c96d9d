package render

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jaudi/Portfolio-analysis/internal/analyzer"
	"github.com/jaudi/Portfolio-analysis/internal/risk"
)

// ═══════════════════════════════════════════════════════════
// Report
// ═══════════════════════════════════════════════════════════

// Report is the presentation envelope of one analysis (text and JSON)
type Report struct {
	ProfileID     string           `json:"profile_id"`
	ProfileHash   string           `json:"profile_hash,omitempty"`
	Source        string           `json:"source"`
	Symbols       []string         `json:"symbols"`
	Period        string           `json:"period"`
	Start         string           `json:"start"`
	End           string           `json:"end"`
	VaRConvention string           `json:"var_convention"`
	Result        *analyzer.Result `json:"result"`
	GeneratedAt   time.Time        `json:"generated_at"`
}

// NewReport builds the envelope for res
func NewReport(res *analyzer.Result, profileID, profileHash, source string, symbols []string) *Report {
	return &Report{
		ProfileID:     profileID,
		ProfileHash:   profileHash,
		Source:        source,
		Symbols:       symbols,
		Period:        res.Period,
		Start:         res.Start.Format("2006-01-02"),
		End:           res.End.Format("2006-01-02"),
		VaRConvention: risk.VaRConvention,
		Result:        res,
		GeneratedAt:   time.Now(),
	}
}

// Percent formats a fraction with two decimals (0.1234 → "12.34%")
func Percent(v float64) string {
	return fmt.Sprintf("%.2f%%", v*100)
}

const (
	doubleRule = "═══════════════════════════════════════════════════════════"
	singleRule = "───────────────────────────────────────────────────────────"
)

// WriteText prints the human-readable report
func WriteText(w io.Writer, r *Report) error {
	m := r.Result.Metrics

	var b strings.Builder
	fmt.Fprintln(&b)
	fmt.Fprintln(&b, doubleRule)
	fmt.Fprintln(&b, "  Portfolio Analysis")
	fmt.Fprintln(&b, singleRule)
	fmt.Fprintf(&b, "  Profile   : %s\n", r.ProfileID)
	fmt.Fprintf(&b, "  Source    : %s\n", r.Source)
	fmt.Fprintf(&b, "  Period    : %s (%s ~ %s, %d returns)\n", r.Period, r.Start, r.End, m.SampleSize)
	fmt.Fprintf(&b, "  Symbols   : %s\n", strings.Join(r.Symbols, ", "))
	fmt.Fprintln(&b, singleRule)

	fmt.Fprintf(&b, "Expected Portfolio Return: %s\n", Percent(m.ExpectedReturnAnnual))
	fmt.Fprintf(&b, "Portfolio Standard Deviation: %s\n", Percent(m.StdDevAnnual))
	fmt.Fprintf(&b, "Sharpe Ratio: %.2f\n", m.SharpeRatio)
	fmt.Fprintf(&b, "Value at Risk (VaR) (Daily): %s\n", Percent(m.VaRDaily))
	fmt.Fprintf(&b, "Value at Risk (VaR) (Annual): %s\n", Percent(m.VaRAnnual))
	fmt.Fprintf(&b, "  (confidence %.0f%%, risk-free %s, %d periods/year)\n",
		m.Confidence*100, Percent(m.RiskFreeAnnual), m.PeriodsPerYear)

	fmt.Fprintln(&b, singleRule)
	fmt.Fprintln(&b, "  Allocation")
	for _, s := range r.Result.Allocation {
		fmt.Fprintf(&b, "  %-32s %-10s %7.1f%%\n", s.Label, s.Symbol, s.Weight*100)
	}

	if l := r.Result.Limits; l != nil {
		fmt.Fprintln(&b, singleRule)
		if l.Passed {
			fmt.Fprintln(&b, "✅ Risk limits passed")
		} else {
			for _, v := range l.Violations {
				fmt.Fprintf(&b, "⚠️  %s\n", v)
			}
		}
	}
	fmt.Fprintln(&b, doubleRule)

	_, err := io.WriteString(w, b.String())
	return err
}
