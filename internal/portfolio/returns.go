package portfolio

import (
	"math"

	"github.com/jaudi/Portfolio-analysis/internal/contracts"
)

// MinPriceRows is the number of aligned rows needed for one return
const MinPriceRows = 2

// CalculateReturns converts a price table into simple daily returns
// r[t][i] = p[t][i] / p[t-1][i] - 1, the undefined first row is dropped
// ⭐ SSOT: return calculation lives here only
func CalculateReturns(table *contracts.PriceTable) (*contracts.ReturnTable, error) {
	rows := table.Rows()
	if rows < MinPriceRows {
		return nil, &InsufficientDataError{Rows: rows, Required: MinPriceRows}
	}

	dates := table.Dates()
	symbols := table.Symbols()

	// Fail before computing anything: one bad price invalidates the table
	for row := 0; row < rows; row++ {
		for col := range symbols {
			if p := table.At(row, col); !validPrice(p) {
				return nil, &InvalidPriceError{Symbol: symbols[col], Date: dates[row], Price: p}
			}
		}
	}

	returns := make([][]float64, rows-1)
	for row := 1; row < rows; row++ {
		r := make([]float64, len(symbols))
		for col := range symbols {
			prev, cur := table.At(row-1, col), table.At(row, col)
			r[col] = cur/prev - 1
			if !finite(r[col]) {
				return nil, &InvalidPriceError{Symbol: symbols[col], Date: dates[row], Price: cur, Previous: prev}
			}
		}
		returns[row-1] = r
	}

	return &contracts.ReturnTable{
		Dates:   dates[1:],
		Symbols: symbols,
		Returns: returns,
	}, nil
}

// SeriesReturns computes simple returns of a single price series
func SeriesReturns(series contracts.InstrumentSeries) ([]float64, error) {
	n := series.Len()
	if n < MinPriceRows {
		return nil, &InsufficientDataError{Rows: n, Required: MinPriceRows}
	}

	for _, p := range series.Points {
		if !validPrice(p.Price) {
			return nil, &InvalidPriceError{Symbol: series.Symbol, Date: p.Date, Price: p.Price}
		}
	}

	out := make([]float64, n-1)
	for i := 1; i < n; i++ {
		prev, cur := series.Points[i-1], series.Points[i]
		out[i-1] = cur.Price/prev.Price - 1
		if !finite(out[i-1]) {
			return nil, &InvalidPriceError{Symbol: series.Symbol, Date: cur.Date, Price: cur.Price, Previous: prev.Price}
		}
	}
	return out, nil
}

func validPrice(p float64) bool {
	return p > 0 && finite(p)
}

func finite(v float64) bool {
	return !math.IsInf(v, 0) && !math.IsNaN(v)
}
