package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jaudi/Portfolio-analysis/internal/contracts"
	"github.com/jaudi/Portfolio-analysis/internal/marketdata"
	"github.com/jaudi/Portfolio-analysis/pkg/logger"
)

// SeriesStore is the write side of the price store
type SeriesStore interface {
	LatestDate(ctx context.Context, symbol string) (time.Time, bool, error)
	SaveSeries(ctx context.Context, series contracts.InstrumentSeries, source string) (int, error)
}

// PriceRefreshJob copies the catalog's daily closes from a remote provider into the price store
// ⭐ SSOT: the price store is written by this job only
type PriceRefreshJob struct {
	source   contracts.PriceSource
	store    SeriesStore
	symbols  []string
	period   string
	schedule string
	logger   *logger.Logger
	now      func() time.Time
}

// NewPriceRefreshJob creates a refresh job over symbols
// period bounds the first backfill; later runs resume from the latest stored date
func NewPriceRefreshJob(
	src contracts.PriceSource,
	store SeriesStore,
	symbols []string,
	period string,
	schedule string,
	log *logger.Logger,
) *PriceRefreshJob {
	return &PriceRefreshJob{
		source:   src,
		store:    store,
		symbols:  symbols,
		period:   period,
		schedule: schedule,
		logger:   log,
		now:      time.Now,
	}
}

// Name returns the job name
func (j *PriceRefreshJob) Name() string {
	return "price_refresh"
}

// Schedule returns the cron schedule
func (j *PriceRefreshJob) Schedule() string {
	return j.schedule
}

// RefreshStats summarizes one run
type RefreshStats struct {
	Symbols  int
	Updated  int
	Rows     int
	Failures map[string]error
}

// Run executes the price refresh
// A symbol that fails does not stop the others; the run fails when any symbol failed
func (j *PriceRefreshJob) Run(ctx context.Context) error {
	stats, err := j.Refresh(ctx)
	if err != nil {
		return err
	}
	if len(stats.Failures) > 0 {
		errs := make([]error, 0, len(stats.Failures))
		for _, sym := range j.symbols {
			if ferr, ok := stats.Failures[sym]; ok {
				errs = append(errs, fmt.Errorf("%s: %w", sym, ferr))
			}
		}
		return fmt.Errorf("price refresh: %d of %d symbols failed: %w",
			len(stats.Failures), stats.Symbols, errors.Join(errs...))
	}
	return nil
}

// Refresh fetches and stores every symbol and reports per-symbol outcomes
func (j *PriceRefreshJob) Refresh(ctx context.Context) (*RefreshStats, error) {
	window, err := marketdata.ResolvePeriod(j.period, j.now())
	if err != nil {
		return nil, err
	}

	j.logger.WithFields(map[string]interface{}{
		"source":  j.source.Name(),
		"symbols": len(j.symbols),
		"from":    window.From.Format("2006-01-02"),
		"to":      window.To.Format("2006-01-02"),
	}).Info("Starting price refresh")

	stats := &RefreshStats{
		Symbols:  len(j.symbols),
		Failures: make(map[string]error),
	}

	for _, sym := range j.symbols {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		rows, err := j.refreshSymbol(ctx, sym, window)
		if err != nil {
			stats.Failures[sym] = err
			j.logger.WithError(err).WithField("symbol", sym).Warn("Price refresh failed for symbol")
			continue
		}
		if rows > 0 {
			stats.Updated++
			stats.Rows += rows
		}
	}

	j.logger.WithFields(map[string]interface{}{
		"source":   j.source.Name(),
		"updated":  stats.Updated,
		"rows":     stats.Rows,
		"failures": len(stats.Failures),
	}).Info("Price refresh completed")

	return stats, nil
}

func (j *PriceRefreshJob) refreshSymbol(ctx context.Context, symbol string, window marketdata.DateRange) (int, error) {
	from := window.From

	latest, ok, err := j.store.LatestDate(ctx, symbol)
	if err != nil {
		return 0, fmt.Errorf("latest date: %w", err)
	}
	// Re-fetch the latest stored day: providers revise the most recent close
	if ok && latest.After(from) {
		from = latest
	}
	if from.After(window.To) {
		return 0, nil
	}

	series, err := j.source.FetchSeries(ctx, symbol, from, window.To)
	if err != nil {
		return 0, fmt.Errorf("fetch: %w", err)
	}
	if series.Len() == 0 {
		return 0, nil
	}

	n, err := j.store.SaveSeries(ctx, series, j.source.Name())
	if err != nil {
		return 0, fmt.Errorf("save: %w", err)
	}
	return n, nil
}
