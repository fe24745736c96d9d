package portfolio

// SelectionBounds limits how many instruments one analysis may hold
// ⭐ SSOT: instrument count bounds come from the analysis profile
type SelectionBounds struct {
	Min int
	Max int
}

// DefaultSelectionBounds returns 1..4 instruments
func DefaultSelectionBounds() SelectionBounds {
	return SelectionBounds{Min: 1, Max: 4}
}

// Check validates an instrument count against the bounds
func (b SelectionBounds) Check(count int) error {
	if count < b.Min || count > b.Max {
		return &SelectionCountError{Got: count, Min: b.Min, Max: b.Max}
	}
	return nil
}
