package portfolio

import (
	"github.com/jaudi/Portfolio-analysis/internal/contracts"
)

// Summarize pairs each instrument with its weight for chart/report renderers.
// Order is preserved; nothing is computed or normalized.
func Summarize(symbols, labels []string, weights contracts.WeightVector) (contracts.Allocation, error) {
	if len(weights) != len(symbols) {
		return nil, &WeightCountError{Got: len(weights), Want: len(symbols)}
	}

	out := make(contracts.Allocation, len(symbols))
	for i, sym := range symbols {
		label := sym
		if i < len(labels) && labels[i] != "" {
			label = labels[i]
		}
		out[i] = contracts.AllocationSlice{Symbol: sym, Label: label, Weight: weights[i]}
	}
	return out, nil
}
