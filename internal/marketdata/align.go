package marketdata

import (
	"fmt"
	"sort"
	"time"

	"github.com/jaudi/Portfolio-analysis/internal/contracts"
)

// DateKey normalizes an observation time to its calendar date (UTC midnight)
// Quotes of different exchanges carry different intraday timestamps for the same session
func DateKey(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Align keeps only the dates every series has a price for (inner join)
// and returns the series re-indexed on that shared calendar, input order preserved.
// Multiple observations on one calendar date keep the last one.
func Align(series []contracts.InstrumentSeries) []contracts.InstrumentSeries {
	if len(series) == 0 {
		return nil
	}

	byDate := make([]map[time.Time]float64, len(series))
	for i, s := range series {
		m := make(map[time.Time]float64, len(s.Points))
		for _, p := range s.Points {
			m[DateKey(p.Date)] = p.Price
		}
		byDate[i] = m
	}

	var common []time.Time
	for d := range byDate[0] {
		shared := true
		for _, m := range byDate[1:] {
			if _, ok := m[d]; !ok {
				shared = false
				break
			}
		}
		if shared {
			common = append(common, d)
		}
	}
	sort.Slice(common, func(i, j int) bool { return common[i].Before(common[j]) })

	out := make([]contracts.InstrumentSeries, len(series))
	for i, s := range series {
		points := make([]contracts.PricePoint, len(common))
		for j, d := range common {
			points[j] = contracts.PricePoint{Date: d, Price: byDate[i][d]}
		}
		out[i] = contracts.InstrumentSeries{Symbol: s.Symbol, Label: s.Label, Points: points}
	}
	return out
}

// BuildTable aligns the series and assembles the price table
func BuildTable(series []contracts.InstrumentSeries) (*contracts.PriceTable, error) {
	table, err := contracts.NewPriceTable(Align(series)...)
	if err != nil {
		return nil, fmt.Errorf("build price table: %w", err)
	}
	return table, nil
}
