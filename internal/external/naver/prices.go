package naver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/jaudi/Portfolio-analysis/internal/contracts"
)

var priceRowRe = regexp.MustCompile(`\["(\d{8})",\s*([\d.]+),\s*([\d.]+),\s*([\d.]+),\s*([\d.]+),\s*([\d.]+)`)

// FetchPrices fetches daily closes for a stock or index code
// ⭐ SSOT: the Naver chart API is only called here
func (c *Client) FetchPrices(ctx context.Context, code string, from, to time.Time) ([]PriceData, error) {
	params := url.Values{}
	params.Set("symbol", code)
	params.Set("requestType", "1")
	params.Set("startTime", from.Format("20060102"))
	params.Set("endTime", to.Format("20060102"))
	params.Set("timeframe", "day")

	body, err := c.fetch(ctx, fmt.Sprintf("%s/siseJson.naver?%s", c.chartURL, params.Encode()))
	if err != nil {
		return nil, err
	}

	prices, err := parsePriceResponse(body)
	if err != nil {
		return nil, fmt.Errorf("parse response failed: %w", err)
	}
	for i := range prices {
		prices[i].Code = code
	}

	c.logger.WithFields(map[string]interface{}{
		"code":  code,
		"count": len(prices),
	}).Debug("Fetched prices")
	return prices, nil
}

// FetchSeries implements contracts.PriceSource
// The display name is looked up best-effort; the code is used when it fails
func (c *Client) FetchSeries(ctx context.Context, symbol string, from, to time.Time) (contracts.InstrumentSeries, error) {
	prices, err := c.FetchPrices(ctx, symbol, from, to)
	if err != nil {
		return contracts.InstrumentSeries{}, fmt.Errorf("naver prices %s: %w", symbol, err)
	}

	points := make([]contracts.PricePoint, 0, len(prices))
	for _, p := range prices {
		if p.ClosePrice <= 0 {
			continue
		}
		if n := len(points); n > 0 && !p.TradeDate.After(points[n-1].Date) {
			continue
		}
		points = append(points, contracts.PricePoint{Date: p.TradeDate, Price: p.ClosePrice})
	}

	label := symbol
	if name, err := c.FetchName(ctx, symbol); err == nil && name != "" {
		label = name
	} else if err != nil {
		c.logger.WithError(err).WithField("code", symbol).Debug("Name lookup failed")
	}

	return contracts.InstrumentSeries{Symbol: symbol, Label: label, Points: points}, nil
}

// parsePriceResponse parses the siseJson body (single-quoted JS array)
func parsePriceResponse(body string) ([]PriceData, error) {
	body = strings.TrimSpace(body)
	body = strings.ReplaceAll(body, "'", "\"")

	var rawData [][]interface{}
	if err := json.Unmarshal([]byte(body), &rawData); err == nil {
		return parsePriceJSON(rawData), nil
	}

	return parsePriceRegex(body), nil
}

// parsePriceJSON parses [date, open, high, low, close, volume, ...] rows after the header
func parsePriceJSON(rawData [][]interface{}) []PriceData {
	var prices []PriceData
	for i, row := range rawData {
		if i == 0 || len(row) < 6 {
			continue
		}

		dateStr, ok := row[0].(string)
		if !ok {
			continue
		}
		tradeDate, err := time.Parse("20060102", strings.TrimSpace(dateStr))
		if err != nil {
			continue
		}

		prices = append(prices, PriceData{
			TradeDate:  tradeDate,
			ClosePrice: toFloat64(row[4]),
			Volume:     int64(toFloat64(row[5])),
		})
	}
	return prices
}

// parsePriceRegex is the fallback for bodies that are not valid JSON
func parsePriceRegex(body string) []PriceData {
	var prices []PriceData
	for _, match := range priceRowRe.FindAllStringSubmatch(body, -1) {
		tradeDate, err := time.Parse("20060102", match[1])
		if err != nil {
			continue
		}

		closePrice, _ := strconv.ParseFloat(match[5], 64)
		volume, _ := strconv.ParseFloat(match[6], 64)

		prices = append(prices, PriceData{
			TradeDate:  tradeDate,
			ClosePrice: closePrice,
			Volume:     int64(volume),
		})
	}
	return prices
}

// toFloat64 converts JSON numbers and numeric strings
func toFloat64(v interface{}) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case int64:
		return float64(val)
	case int:
		return float64(val)
	case string:
		f, _ := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(val), ",", ""), 64)
		return f
	default:
		return 0
	}
}
