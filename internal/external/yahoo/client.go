package yahoo

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/jaudi/Portfolio-analysis/internal/contracts"
	"github.com/jaudi/Portfolio-analysis/pkg/httputil"
	"github.com/jaudi/Portfolio-analysis/pkg/logger"
)

// SourceName identifies this source in logs, cache keys and the --source flag
const SourceName = "yahoo"

// DefaultBaseURL is the public chart API host
const DefaultBaseURL = "https://query1.finance.yahoo.com"

// ErrNoChartData is returned when the API answers without bars
var ErrNoChartData = errors.New("yahoo: no chart data")

// Client fetches daily history from the Yahoo Finance v8 chart API
// ⭐ SSOT: Yahoo Finance calls live in this package only
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
}

// NewClient creates a new Yahoo Finance client; empty baseURL uses DefaultBaseURL
func NewClient(httpClient *httputil.Client, log *logger.Logger, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: httpClient,
		logger:     log,
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// Name implements contracts.PriceSource
func (c *Client) Name() string {
	return SourceName
}

// FetchSeries implements contracts.PriceSource
// Prices are dividend/split adjusted closes, falling back to raw closes when
// the adjusted series is absent (indices have no corporate actions)
func (c *Client) FetchSeries(ctx context.Context, symbol string, from, to time.Time) (contracts.InstrumentSeries, error) {
	params := url.Values{}
	params.Set("period1", fmt.Sprintf("%d", from.Unix()))
	// period2 is exclusive
	params.Set("period2", fmt.Sprintf("%d", to.AddDate(0, 0, 1).Unix()))
	params.Set("interval", "1d")
	params.Set("events", "div,split")
	params.Set("includeAdjustedClose", "true")

	fullURL := fmt.Sprintf("%s/v8/finance/chart/%s?%s", c.baseURL, url.PathEscape(symbol), params.Encode())

	var resp chartResponse
	if err := c.httpClient.GetJSON(ctx, fullURL, &resp); err != nil {
		return contracts.InstrumentSeries{}, fmt.Errorf("yahoo chart %s: %w", symbol, err)
	}

	series, err := parseChart(symbol, &resp)
	if err != nil {
		return contracts.InstrumentSeries{}, err
	}

	c.logger.WithFields(map[string]interface{}{
		"symbol": symbol,
		"count":  series.Len(),
	}).Debug("Fetched prices")

	return series, nil
}

// parseChart converts the first chart result into a series
// Bars with a null or non-positive price are skipped
func parseChart(symbol string, resp *chartResponse) (contracts.InstrumentSeries, error) {
	if e := resp.Chart.Error; e != nil {
		return contracts.InstrumentSeries{}, fmt.Errorf("yahoo chart %s: %s: %s", symbol, e.Code, e.Description)
	}
	if len(resp.Chart.Result) == 0 {
		return contracts.InstrumentSeries{}, fmt.Errorf("%w for %s", ErrNoChartData, symbol)
	}

	r := resp.Chart.Result[0]

	var prices []*float64
	if len(r.Indicators.AdjClose) > 0 && len(r.Indicators.AdjClose[0].AdjClose) > 0 {
		prices = r.Indicators.AdjClose[0].AdjClose
	} else if len(r.Indicators.Quote) > 0 {
		prices = r.Indicators.Quote[0].Close
	}
	if len(r.Timestamp) == 0 || len(prices) == 0 {
		return contracts.InstrumentSeries{}, fmt.Errorf("%w for %s", ErrNoChartData, symbol)
	}

	// Bars are stamped at the session open; shifting by the exchange offset
	// yields the local trading date
	offset := time.Duration(r.Meta.GMTOffset) * time.Second

	points := make([]contracts.PricePoint, 0, len(r.Timestamp))
	var last time.Time
	for i, ts := range r.Timestamp {
		if i >= len(prices) || prices[i] == nil || *prices[i] <= 0 {
			continue
		}
		local := time.Unix(ts, 0).UTC().Add(offset)
		date := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)

		// The live bar can repeat the last session's date
		if !last.IsZero() && !date.After(last) {
			points[len(points)-1].Price = *prices[i]
			continue
		}
		points = append(points, contracts.PricePoint{Date: date, Price: *prices[i]})
		last = date
	}

	label := r.Meta.LongName
	if label == "" {
		label = r.Meta.ShortName
	}
	if label == "" {
		label = symbol
	}

	return contracts.InstrumentSeries{Symbol: symbol, Label: label, Points: points}, nil
}
