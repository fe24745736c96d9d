package marketdata

import (
	"context"
	"time"

	"github.com/jaudi/Portfolio-analysis/internal/contracts"
	"github.com/jaudi/Portfolio-analysis/pkg/logger"
	"github.com/jaudi/Portfolio-analysis/pkg/redis"
)

// CachedSource is a read-through Redis cache in front of another source
// Cache failures degrade to a direct fetch; they never fail the request
type CachedSource struct {
	inner  contracts.PriceSource
	cache  *redis.Cache
	ttl    time.Duration
	logger *logger.Logger
}

// NewCachedSource wraps inner; a disabled cache passes every call through
func NewCachedSource(inner contracts.PriceSource, cache *redis.Cache, ttl time.Duration, log *logger.Logger) *CachedSource {
	if ttl <= 0 {
		ttl = redis.TTLDaily
	}
	return &CachedSource{
		inner:  inner,
		cache:  cache,
		ttl:    ttl,
		logger: log,
	}
}

// Name implements contracts.PriceSource and reports the wrapped source
func (c *CachedSource) Name() string {
	return c.inner.Name()
}

// FetchSeries implements contracts.PriceSource
func (c *CachedSource) FetchSeries(ctx context.Context, symbol string, from, to time.Time) (contracts.InstrumentSeries, error) {
	key := redis.SeriesKey(c.inner.Name(), symbol, from, to)

	var cached contracts.InstrumentSeries
	found, err := c.cache.Get(ctx, key, &cached)
	if err != nil {
		c.logger.WithError(err).WithField("key", key).Warn("Price cache read failed")
	}
	if found && cached.Len() > 0 {
		c.logger.WithField("key", key).Debug("Price cache hit")
		return cached, nil
	}

	series, err := c.inner.FetchSeries(ctx, symbol, from, to)
	if err != nil {
		return contracts.InstrumentSeries{}, err
	}

	if series.Len() > 0 {
		if err := c.cache.Set(ctx, key, series, c.ttl); err != nil {
			c.logger.WithError(err).WithField("key", key).Warn("Price cache write failed")
		}
	}

	return series, nil
}
