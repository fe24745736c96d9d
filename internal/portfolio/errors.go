package portfolio

import (
	"errors"
	"fmt"
	"time"
)

// Error kinds, usable with errors.Is against any typed error below
var (
	ErrWeightCount      = errors.New("weight_count")
	ErrWeightSum        = errors.New("weight_sum")
	ErrWeightRange      = errors.New("weight_range")
	ErrSelectionCount   = errors.New("selection_count")
	ErrInsufficientData = errors.New("insufficient_data")
	ErrInvalidPrice     = errors.New("invalid_price")
)

// KindError is implemented by every error of the analysis taxonomy.
// Kind is a stable machine-readable identifier callers can switch on to re-prompt.
type KindError interface {
	error
	Kind() string
}

// Kind returns the taxonomy kind of err, or "" when err is not part of it
func Kind(err error) string {
	var ke KindError
	if errors.As(err, &ke) {
		return ke.Kind()
	}
	return ""
}

// WeightCountError: weight vector length differs from the instrument count
type WeightCountError struct {
	Got  int
	Want int
}

func (e *WeightCountError) Error() string {
	return fmt.Sprintf("got %d weights for %d instruments: enter exactly one weight per instrument", e.Got, e.Want)
}

func (e *WeightCountError) Kind() string { return ErrWeightCount.Error() }
func (e *WeightCountError) Is(target error) bool { return target == ErrWeightCount }

// WeightSumError: weights do not sum to 1 within WeightSumTolerance
type WeightSumError struct {
	Sum float64
}

func (e *WeightSumError) Error() string {
	return fmt.Sprintf("weights sum to %.10g: the weights must sum up to 1", e.Sum)
}

func (e *WeightSumError) Kind() string { return ErrWeightSum.Error() }
func (e *WeightSumError) Is(target error) bool { return target == ErrWeightSum }

// WeightRangeError: a single weight is outside [0, 1] or not finite
type WeightRangeError struct {
	Index  int
	Symbol string
	Weight float64
}

func (e *WeightRangeError) Error() string {
	name := e.Symbol
	if name == "" {
		name = fmt.Sprintf("#%d", e.Index+1)
	}
	return fmt.Sprintf("weight %v for instrument %s is outside [0, 1]", e.Weight, name)
}

func (e *WeightRangeError) Kind() string { return ErrWeightRange.Error() }
func (e *WeightRangeError) Is(target error) bool { return target == ErrWeightRange }

// SelectionCountError: number of selected instruments outside the allowed bounds
type SelectionCountError struct {
	Got int
	Min int
	Max int
}

func (e *SelectionCountError) Error() string {
	return fmt.Sprintf("%d instruments selected: please select between %d and %d", e.Got, e.Min, e.Max)
}

func (e *SelectionCountError) Kind() string { return ErrSelectionCount.Error() }
func (e *SelectionCountError) Is(target error) bool { return target == ErrSelectionCount }

// InsufficientDataError: fewer aligned price rows than required
type InsufficientDataError struct {
	Rows     int
	Required int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("%d aligned price rows, need at least %d to compute returns", e.Rows, e.Required)
}

func (e *InsufficientDataError) Kind() string { return ErrInsufficientData.Error() }
func (e *InsufficientDataError) Is(target error) bool { return target == ErrInsufficientData }

// InvalidPriceError: non-positive or non-finite price, or a pair of
// consecutive prices whose return overflows (Previous is set then)
type InvalidPriceError struct {
	Symbol   string
	Date     time.Time
	Price    float64
	Previous float64
}

func (e *InvalidPriceError) Error() string {
	if e.Previous != 0 {
		return fmt.Sprintf("return from %v to %v for %s on %s is not finite: prices are out of range",
			e.Previous, e.Price, e.Symbol, e.Date.Format("2006-01-02"))
	}
	return fmt.Sprintf("invalid price %v for %s on %s: prices must be positive and finite",
		e.Price, e.Symbol, e.Date.Format("2006-01-02"))
}

func (e *InvalidPriceError) Kind() string { return ErrInvalidPrice.Error() }
func (e *InvalidPriceError) Is(target error) bool { return target == ErrInvalidPrice }
