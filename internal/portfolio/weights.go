package portfolio

import (
	"math"

	"github.com/jaudi/Portfolio-analysis/internal/contracts"
)

// WeightSumTolerance absorbs floating accumulation when weights are summed
const WeightSumTolerance = 1e-9

// ValidateWeights is the only gate before aggregation.
// Checks run in order: count, per-weight range, sum.
func ValidateWeights(weights contracts.WeightVector, instrumentCount int) error {
	return validateWeights(weights, instrumentCount, nil)
}

// ValidateWeightsFor is ValidateWeights with symbols attached to range errors
func ValidateWeightsFor(weights contracts.WeightVector, symbols []string) error {
	return validateWeights(weights, len(symbols), symbols)
}

func validateWeights(weights contracts.WeightVector, instrumentCount int, symbols []string) error {
	if len(weights) != instrumentCount {
		return &WeightCountError{Got: len(weights), Want: instrumentCount}
	}

	for i, w := range weights {
		if math.IsNaN(w) || w < 0 || w > 1 {
			e := &WeightRangeError{Index: i, Weight: w}
			if symbols != nil {
				e.Symbol = symbols[i]
			}
			return e
		}
	}

	sum := weights.Sum()
	if math.Abs(sum-1) > WeightSumTolerance {
		return &WeightSumError{Sum: sum}
	}

	return nil
}
