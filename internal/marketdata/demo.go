package marketdata

import (
	"context"
	"hash/fnv"
	"math"
	"math/rand/v2"
	"time"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/jaudi/Portfolio-analysis/internal/contracts"
)

// SourceDemo is the name of the synthetic price source
const SourceDemo = "demo"

// DemoSource generates reproducible synthetic daily closes (geometric random walk)
// Used by --demo runs and tests; needs no network or database
type DemoSource struct {
	StartPrice float64
}

// NewDemoSource creates a demo source starting every series at 100
func NewDemoSource() *DemoSource {
	return &DemoSource{StartPrice: 100}
}

// Name implements contracts.PriceSource
func (d *DemoSource) Name() string {
	return SourceDemo
}

// FetchSeries returns one close per weekday in [from, to]
// The same symbol and range always yield the same series
func (d *DemoSource) FetchSeries(ctx context.Context, symbol string, from, to time.Time) (contracts.InstrumentSeries, error) {
	if err := ctx.Err(); err != nil {
		return contracts.InstrumentSeries{}, err
	}

	h := fnv.New64a()
	_, _ = h.Write([]byte(symbol))
	seed := h.Sum64()

	// Per-symbol drift and volatility so instruments are not perfectly correlated
	step := distuv.Normal{
		Mu:    0.0001 + float64(seed%7)*0.00005,
		Sigma: 0.008 + float64(seed%11)*0.001,
		Src:   rand.NewPCG(seed, uint64(DateKey(from).Unix())),
	}

	price := d.StartPrice
	var points []contracts.PricePoint
	for day := DateKey(from); !day.After(DateKey(to)); day = day.AddDate(0, 0, 1) {
		if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		points = append(points, contracts.PricePoint{Date: day, Price: price})
		price *= math.Exp(step.Rand())
	}

	return contracts.InstrumentSeries{Symbol: symbol, Label: symbol, Points: points}, nil
}
