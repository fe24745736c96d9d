package contracts

import (
	"context"
	"time"
)

// PriceSource retrieves the daily price history of one instrument
// ⭐ SSOT: every market data collaborator (remote API, store, cache, demo) implements this
type PriceSource interface {
	Name() string
	FetchSeries(ctx context.Context, symbol string, from, to time.Time) (InstrumentSeries, error)
}
