package contracts

// WeightVector holds one weight per selected instrument, in selection order
// ⭐ Contract: each weight in [0, 1], sum == 1 within tolerance
type WeightVector []float64

// Sum returns the sum of all weights
func (w WeightVector) Sum() float64 {
	total := 0.0
	for _, v := range w {
		total += v
	}
	return total
}

// Clone returns an independent copy
func (w WeightVector) Clone() WeightVector {
	return append(WeightVector(nil), w...)
}

// AllocationSlice pairs an instrument with its validated weight
type AllocationSlice struct {
	Symbol string  `json:"symbol"`
	Label  string  `json:"label"`
	Weight float64 `json:"weight"`
}

// Allocation is the ordered allocation summary handed to chart/report renderers
// ⭐ Contract: same order as the WeightVector it was validated against
type Allocation []AllocationSlice

// Labels returns slice labels in order
func (a Allocation) Labels() []string {
	out := make([]string, len(a))
	for i, s := range a {
		out[i] = s.Label
	}
	return out
}

// Values returns slice weights in order
func (a Allocation) Values() []float64 {
	out := make([]float64, len(a))
	for i, s := range a {
		out[i] = s.Weight
	}
	return out
}
