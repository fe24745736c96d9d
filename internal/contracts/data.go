package contracts

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrEmptyTable      = errors.New("price table has no instruments")
	ErrUnorderedDates  = errors.New("dates must be strictly increasing")
	ErrMisalignedTable = errors.New("instrument series are not aligned on a common date index")
	ErrDuplicateSymbol = errors.New("duplicate instrument symbol")
)

// PricePoint is one (date, price) observation
type PricePoint struct {
	Date  time.Time `json:"date"`
	Price float64   `json:"price"`
}

// InstrumentSeries is the ordered daily price history of one instrument
// ⭐ Contract: dates strictly increasing, one price per date
// Price validity (positive, finite) is checked by the return calculator
type InstrumentSeries struct {
	Symbol string       `json:"symbol"`
	Label  string       `json:"label"`
	Points []PricePoint `json:"points"`
}

// NewInstrumentSeries builds a series and checks its date ordering
func NewInstrumentSeries(symbol, label string, points []PricePoint) (InstrumentSeries, error) {
	s := InstrumentSeries{
		Symbol: symbol,
		Label:  label,
		Points: append([]PricePoint(nil), points...),
	}
	if err := s.Validate(); err != nil {
		return InstrumentSeries{}, err
	}
	return s, nil
}

// Validate checks that dates are strictly increasing
func (s InstrumentSeries) Validate() error {
	for i := 1; i < len(s.Points); i++ {
		if !s.Points[i].Date.After(s.Points[i-1].Date) {
			return fmt.Errorf("%w: %s at %s follows %s", ErrUnorderedDates, s.Symbol,
				s.Points[i].Date.Format("2006-01-02"), s.Points[i-1].Date.Format("2006-01-02"))
		}
	}
	return nil
}

// DisplayName returns the label, falling back to the symbol
func (s InstrumentSeries) DisplayName() string {
	if s.Label != "" {
		return s.Label
	}
	return s.Symbol
}

// Len returns the number of observations
func (s InstrumentSeries) Len() int {
	return len(s.Points)
}

// PriceTable is a rectangular date x instrument price matrix
// ⭐ SSOT: every instrument has exactly one price per date in the shared index
// Immutable after construction; accessors return copies
type PriceTable struct {
	dates   []time.Time
	symbols []string
	labels  []string
	prices  [][]float64 // prices[row][col]
}

// NewPriceTable builds a table from series already aligned on the same dates.
// Column order follows argument order (the selection order).
func NewPriceTable(series ...InstrumentSeries) (*PriceTable, error) {
	if len(series) == 0 {
		return nil, ErrEmptyTable
	}

	seen := make(map[string]bool, len(series))
	for _, s := range series {
		if seen[s.Symbol] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateSymbol, s.Symbol)
		}
		seen[s.Symbol] = true
		if err := s.Validate(); err != nil {
			return nil, err
		}
	}

	ref := series[0]
	dates := make([]time.Time, ref.Len())
	for i, p := range ref.Points {
		dates[i] = p.Date
	}

	for _, s := range series[1:] {
		if s.Len() != len(dates) {
			return nil, fmt.Errorf("%w: %s has %d rows, %s has %d",
				ErrMisalignedTable, s.Symbol, s.Len(), ref.Symbol, len(dates))
		}
		for i, p := range s.Points {
			if !p.Date.Equal(dates[i]) {
				return nil, fmt.Errorf("%w: %s row %d is %s, expected %s", ErrMisalignedTable,
					s.Symbol, i, p.Date.Format("2006-01-02"), dates[i].Format("2006-01-02"))
			}
		}
	}

	t := &PriceTable{
		dates:   dates,
		symbols: make([]string, len(series)),
		labels:  make([]string, len(series)),
		prices:  make([][]float64, len(dates)),
	}
	for col, s := range series {
		t.symbols[col] = s.Symbol
		t.labels[col] = s.DisplayName()
	}
	for row := range dates {
		t.prices[row] = make([]float64, len(series))
		for col, s := range series {
			t.prices[row][col] = s.Points[row].Price
		}
	}

	return t, nil
}

// Rows returns the number of dates (N)
func (t *PriceTable) Rows() int {
	return len(t.dates)
}

// Cols returns the number of instruments (M)
func (t *PriceTable) Cols() int {
	return len(t.symbols)
}

// At returns the price at (row, col)
func (t *PriceTable) At(row, col int) float64 {
	return t.prices[row][col]
}

// Dates returns a copy of the shared date index
func (t *PriceTable) Dates() []time.Time {
	return append([]time.Time(nil), t.dates...)
}

// Symbols returns a copy of the instrument symbols in column order
func (t *PriceTable) Symbols() []string {
	return append([]string(nil), t.symbols...)
}

// Labels returns a copy of the instrument display labels in column order
func (t *PriceTable) Labels() []string {
	return append([]string(nil), t.labels...)
}

// Column returns a copy of one instrument's prices
func (t *PriceTable) Column(col int) []float64 {
	out := make([]float64, len(t.dates))
	for row := range t.dates {
		out[row] = t.prices[row][col]
	}
	return out
}
