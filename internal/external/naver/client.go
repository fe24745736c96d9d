package naver

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html/charset"

	"github.com/jaudi/Portfolio-analysis/pkg/httputil"
	"github.com/jaudi/Portfolio-analysis/pkg/logger"
)

// SourceName identifies this source in logs, cache keys and the --source flag
const SourceName = "naver"

// Default endpoints
const (
	DefaultBaseURL  = "https://finance.naver.com"
	DefaultChartURL = "https://fchart.stock.naver.com"
)

// Client handles communication with Naver Finance
// ⭐ SSOT: Naver Finance calls live in this package only
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
	chartURL   string
}

// NewClient creates a new Naver Finance client; empty URLs use the defaults
func NewClient(httpClient *httputil.Client, log *logger.Logger, baseURL, chartURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if chartURL == "" {
		chartURL = DefaultChartURL
	}
	return &Client{
		httpClient: httpClient,
		logger:     log,
		baseURL:    strings.TrimRight(baseURL, "/"),
		chartURL:   strings.TrimRight(chartURL, "/"),
	}
}

// Name implements contracts.PriceSource
func (c *Client) Name() string {
	return SourceName
}

// fetch performs a GET with the Referer Naver expects and returns the UTF-8 body
// Legacy pages are EUC-KR; the declared charset is converted
func (c *Client) fetch(ctx context.Context, fullURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request failed: %w", err)
	}
	req.Header.Set("Referer", DefaultBaseURL+"/")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	r, err := charset.NewReader(bytes.NewReader(body), resp.Header.Get("Content-Type"))
	if err != nil {
		return string(body), nil
	}
	decoded, err := io.ReadAll(r)
	if err != nil {
		return string(body), nil
	}

	return string(decoded), nil
}

// fetchHTML fetches a Naver Finance page
func (c *Client) fetchHTML(ctx context.Context, path string, params url.Values) (string, error) {
	fullURL := fmt.Sprintf("%s%s", c.baseURL, path)
	if len(params) > 0 {
		fullURL = fmt.Sprintf("%s?%s", fullURL, params.Encode())
	}
	return c.fetch(ctx, fullURL)
}

// PriceData is one daily close from the chart API
type PriceData struct {
	Code       string
	TradeDate  time.Time
	ClosePrice float64
	Volume     int64
}
