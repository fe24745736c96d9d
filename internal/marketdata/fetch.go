package marketdata

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jaudi/Portfolio-analysis/internal/contracts"
	"github.com/jaudi/Portfolio-analysis/pkg/logger"
)

// ErrNoData is returned when a source has no observations for a symbol in the range
var ErrNoData = errors.New("no price data")

// FetchError names the symbol whose retrieval failed
type FetchError struct {
	Source string
	Symbol string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s: fetch %s: %v", e.Source, e.Symbol, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// FetchAll retrieves every symbol concurrently and returns the series in symbol order.
// The first failure cancels the remaining fetches.
func FetchAll(ctx context.Context, src contracts.PriceSource, symbols []string, from, to time.Time) ([]contracts.InstrumentSeries, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	out := make([]contracts.InstrumentSeries, len(symbols))
	errs := make([]error, len(symbols))

	var wg sync.WaitGroup
	for i, sym := range symbols {
		wg.Add(1)
		go func(i int, sym string) {
			defer wg.Done()

			s, err := src.FetchSeries(ctx, sym, from, to)
			if err == nil && s.Len() == 0 {
				err = ErrNoData
			}
			if err != nil {
				errs[i] = &FetchError{Source: src.Name(), Symbol: sym, Err: err}
				cancel()
				return
			}
			out[i] = s
		}(i, sym)
	}
	wg.Wait()

	// Report the root failure, not the cancellations it caused
	var first error
	for _, err := range errs {
		if err == nil {
			continue
		}
		if first == nil || (errors.Is(first, context.Canceled) && !errors.Is(err, context.Canceled)) {
			first = err
		}
	}
	if first != nil {
		return nil, first
	}

	return out, nil
}

// Loader turns a selection (symbols + period) into an aligned PriceTable
type Loader struct {
	source contracts.PriceSource
	label  func(symbol string) string
	logger *logger.Logger
	now    func() time.Time
}

// NewLoader creates a loader over src; label supplies display names (may be nil)
func NewLoader(src contracts.PriceSource, label func(string) string, log *logger.Logger) *Loader {
	return &Loader{
		source: src,
		label:  label,
		logger: log,
		now:    time.Now,
	}
}

// Source returns the underlying price source
func (l *Loader) Source() contracts.PriceSource {
	return l.source
}

// Load resolves period, fetches every symbol and aligns them
func (l *Loader) Load(ctx context.Context, symbols []string, period string) (*contracts.PriceTable, DateRange, error) {
	r, err := ResolvePeriod(period, l.now())
	if err != nil {
		return nil, DateRange{}, err
	}

	start := time.Now()
	series, err := FetchAll(ctx, l.source, symbols, r.From, r.To)
	if err != nil {
		return nil, r, err
	}

	if l.label != nil {
		for i := range series {
			if name := l.label(series[i].Symbol); name != "" && name != series[i].Symbol {
				series[i].Label = name
			}
		}
	}

	table, err := BuildTable(series)
	if err != nil {
		return nil, r, err
	}

	l.logger.WithFields(map[string]interface{}{
		"source":   l.source.Name(),
		"symbols":  symbols,
		"period":   period,
		"rows":     table.Rows(),
		"duration": time.Since(start).String(),
	}).Info("Price table loaded")

	if table.Rows() < 2 {
		l.logger.WithFields(map[string]interface{}{
			"symbols": symbols,
			"period":  period,
		}).Warn("Fewer than two common trading dates")
	}

	return table, r, nil
}
