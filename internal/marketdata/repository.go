package marketdata

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jaudi/Portfolio-analysis/internal/contracts"
)

// SourceDB is the name of the Postgres-backed price source
const SourceDB = "db"

// PriceRepository reads and writes daily closes in data.daily_prices
// ⭐ SSOT: the price store is only accessed here
type PriceRepository struct {
	pool *pgxpool.Pool
}

// NewPriceRepository creates a new price repository
func NewPriceRepository(pool *pgxpool.Pool) *PriceRepository {
	return &PriceRepository{pool: pool}
}

// Name implements contracts.PriceSource
func (r *PriceRepository) Name() string {
	return SourceDB
}

// FetchSeries implements contracts.PriceSource over stored closes
func (r *PriceRepository) FetchSeries(ctx context.Context, symbol string, from, to time.Time) (contracts.InstrumentSeries, error) {
	query := `
		SELECT trade_date, close_price
		FROM data.daily_prices
		WHERE symbol = $1 AND trade_date BETWEEN $2 AND $3
		ORDER BY trade_date ASC
	`

	rows, err := r.pool.Query(ctx, query, symbol, from, to)
	if err != nil {
		return contracts.InstrumentSeries{}, fmt.Errorf("query prices %s: %w", symbol, err)
	}
	defer rows.Close()

	var points []contracts.PricePoint
	for rows.Next() {
		var p contracts.PricePoint
		if err := rows.Scan(&p.Date, &p.Price); err != nil {
			return contracts.InstrumentSeries{}, fmt.Errorf("scan price %s: %w", symbol, err)
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return contracts.InstrumentSeries{}, err
	}

	return contracts.InstrumentSeries{Symbol: symbol, Label: symbol, Points: points}, nil
}

// LatestDate returns the most recent stored date for symbol
func (r *PriceRepository) LatestDate(ctx context.Context, symbol string) (time.Time, bool, error) {
	query := `SELECT max(trade_date) FROM data.daily_prices WHERE symbol = $1`

	var latest *time.Time
	if err := r.pool.QueryRow(ctx, query, symbol).Scan(&latest); err != nil {
		return time.Time{}, false, err
	}
	if latest == nil {
		return time.Time{}, false, nil
	}
	return *latest, true, nil
}

// SaveSeries upserts every point of series in a single batch
func (r *PriceRepository) SaveSeries(ctx context.Context, series contracts.InstrumentSeries, source string) (int, error) {
	if series.Len() == 0 {
		return 0, nil
	}

	query := `
		INSERT INTO data.daily_prices (symbol, trade_date, close_price, source, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (symbol, trade_date) DO UPDATE SET
			close_price = EXCLUDED.close_price,
			source = EXCLUDED.source,
			updated_at = now()
	`

	batch := &pgx.Batch{}
	for _, p := range series.Points {
		batch.Queue(query, series.Symbol, DateKey(p.Date), p.Price, source)
	}

	br := r.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range series.Points {
		if _, err := br.Exec(); err != nil {
			return 0, fmt.Errorf("upsert prices %s: %w", series.Symbol, err)
		}
	}

	return series.Len(), nil
}
