package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/jaudi/Portfolio-analysis/internal/contracts"
	"github.com/jaudi/Portfolio-analysis/internal/marketdata"
	"github.com/jaudi/Portfolio-analysis/pkg/logger"
)

// CacheWarmJob pre-loads the default-period series of every catalog symbol
// through the cached source, so the first analysis of the day hits Redis
type CacheWarmJob struct {
	source   contracts.PriceSource
	symbols  []string
	period   string
	schedule string
	logger   *logger.Logger
	now      func() time.Time
}

// NewCacheWarmJob creates a new cache warm job
func NewCacheWarmJob(cached contracts.PriceSource, symbols []string, period, schedule string, log *logger.Logger) *CacheWarmJob {
	return &CacheWarmJob{
		source:   cached,
		symbols:  symbols,
		period:   period,
		schedule: schedule,
		logger:   log,
		now:      time.Now,
	}
}

// Name returns the job name
func (j *CacheWarmJob) Name() string {
	return "cache_warm"
}

// Schedule returns the cron schedule
func (j *CacheWarmJob) Schedule() string {
	return j.schedule
}

// Run executes the cache warm-up
func (j *CacheWarmJob) Run(ctx context.Context) error {
	window, err := marketdata.ResolvePeriod(j.period, j.now())
	if err != nil {
		return err
	}

	j.logger.Debug("Starting scheduled cache warm-up")

	warmed := 0
	var failed []string
	for _, sym := range j.symbols {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := j.source.FetchSeries(ctx, sym, window.From, window.To); err != nil {
			j.logger.WithError(err).WithField("symbol", sym).Warn("Cache warm-up failed for symbol")
			failed = append(failed, sym)
			continue
		}
		warmed++
	}

	j.logger.WithFields(map[string]interface{}{
		"period": j.period,
		"warmed": warmed,
		"failed": len(failed),
	}).Info("Cache warm-up completed")

	if warmed == 0 && len(failed) > 0 {
		return fmt.Errorf("cache warm-up: every symbol failed (%v)", failed)
	}
	return nil
}
