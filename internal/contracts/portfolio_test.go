package contracts

import (
	"errors"
	"testing"
)

func TestWeightVector_Sum(t *testing.T) {
	w := WeightVector{0.25, 0.25, 0.5}
	if got := w.Sum(); got != 1.0 {
		t.Errorf("Sum() = %v, want 1", got)
	}
}

func TestWeightVector_Clone(t *testing.T) {
	w := WeightVector{0.4, 0.6}
	c := w.Clone()
	c[0] = 0

	if w[0] != 0.4 {
		t.Error("Clone shares backing array")
	}
}

func TestAllocation_LabelsValues(t *testing.T) {
	a := Allocation{
		{Symbol: "^GSPC", Label: "S&P 500", Weight: 0.7},
		{Symbol: "^N225", Label: "Nikkei 225", Weight: 0.3},
	}

	labels := a.Labels()
	values := a.Values()
	if labels[0] != "S&P 500" || labels[1] != "Nikkei 225" {
		t.Errorf("Labels() = %v", labels)
	}
	if values[0] != 0.7 || values[1] != 0.3 {
		t.Errorf("Values() = %v", values)
	}
}

func TestAnalysisParams_Validate(t *testing.T) {
	if err := DefaultAnalysisParams().Validate(); err != nil {
		t.Fatalf("default params invalid: %v", err)
	}

	bad := []AnalysisParams{
		{PeriodsPerYear: 0, RiskFreeAnnual: 0.02, Confidence: 0.95},
		{PeriodsPerYear: 252, RiskFreeAnnual: 0.02, Confidence: 1},
		{PeriodsPerYear: 252, RiskFreeAnnual: 0.02, Confidence: 0},
	}
	for _, p := range bad {
		if err := p.Validate(); !errors.Is(err, ErrInvalidParams) {
			t.Errorf("Validate(%+v) = %v, want ErrInvalidParams", p, err)
		}
	}
}
