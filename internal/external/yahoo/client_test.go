package yahoo

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaudi/Portfolio-analysis/pkg/config"
	"github.com/jaudi/Portfolio-analysis/pkg/httputil"
	"github.com/jaudi/Portfolio-analysis/pkg/logger"
)

// 2024-01-02 / 03 / 04 14:30 UTC (NYSE open), gmtoffset -18000
const chartJSON = `{
  "chart": {
    "result": [{
      "meta": {"symbol": "^GSPC", "currency": "USD", "longName": "S&P 500", "gmtoffset": -18000},
      "timestamp": [1704205800, 1704292200, 1704378600],
      "indicators": {
        "quote": [{"close": [4742.83, null, 4688.68]}],
        "adjclose": [{"adjclose": [4742.83, null, 4688.68]}]
      }
    }],
    "error": null
  }
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := &config.Config{HTTPClient: config.HTTPClientConfig{Timeout: 5 * time.Second}}
	return NewClient(httputil.New(cfg, logger.Nop()), logger.Nop(), server.URL)
}

func TestFetchSeries(t *testing.T) {
	var gotPath, gotQuery string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		gotQuery = r.URL.RawQuery
		w.Write([]byte(chartJSON))
	})

	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)

	s, err := c.FetchSeries(context.Background(), "^GSPC", from, to)
	require.NoError(t, err)

	assert.Equal(t, "/v8/finance/chart/%5EGSPC", gotPath)
	assert.Contains(t, gotQuery, "interval=1d")
	assert.Contains(t, gotQuery, "period1=1704067200")
	assert.Contains(t, gotQuery, "period2=1704499200")

	assert.Equal(t, "^GSPC", s.Symbol)
	assert.Equal(t, "S&P 500", s.Label)
	require.Len(t, s.Points, 2)
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), s.Points[0].Date)
	assert.Equal(t, 4742.83, s.Points[0].Price)
	assert.Equal(t, time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC), s.Points[1].Date)
	assert.Equal(t, "yahoo", c.Name())
}

func TestFetchSeries_NotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`))
	})

	_, err := c.FetchSeries(context.Background(), "NOPE", time.Now().AddDate(-1, 0, 0), time.Now())

	var se *httputil.StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusNotFound, se.StatusCode)
}

func TestParseChart(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantErr   error
		wantCount int
		wantFirst float64
	}{
		{
			name:    "api error",
			body:    `{"chart":{"result":null,"error":{"code":"Bad Request","description":"Invalid input"}}}`,
			wantErr: errors.New("Bad Request"),
		},
		{
			name:    "empty result",
			body:    `{"chart":{"result":[],"error":null}}`,
			wantErr: ErrNoChartData,
		},
		{
			name:      "close fallback without adjclose",
			body:      `{"chart":{"result":[{"meta":{},"timestamp":[1704205800,1704292200],"indicators":{"quote":[{"close":[10.5,11]}]}}]}}`,
			wantCount: 2,
			wantFirst: 10.5,
		},
		{
			name:      "adjclose preferred",
			body:      `{"chart":{"result":[{"meta":{},"timestamp":[1704205800],"indicators":{"quote":[{"close":[10.5]}],"adjclose":[{"adjclose":[9.8]}]}}]}}`,
			wantCount: 1,
			wantFirst: 9.8,
		},
		{
			name:      "duplicate live bar keeps last",
			body:      `{"chart":{"result":[{"meta":{},"timestamp":[1704205800,1704220000],"indicators":{"quote":[{"close":[10,10.2]}]}}]}}`,
			wantCount: 1,
			wantFirst: 10.2,
		},
		{
			name:      "non-positive skipped",
			body:      `{"chart":{"result":[{"meta":{},"timestamp":[1704205800,1704292200],"indicators":{"quote":[{"close":[0,11]}]}}]}}`,
			wantCount: 1,
			wantFirst: 11,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			})

			s, err := c.FetchSeries(context.Background(), "SYM", time.Now().AddDate(0, -1, 0), time.Now())
			if tt.wantErr != nil {
				require.Error(t, err)
				if errors.Is(tt.wantErr, ErrNoChartData) {
					assert.ErrorIs(t, err, ErrNoChartData)
				} else {
					assert.True(t, strings.Contains(err.Error(), tt.wantErr.Error()), err.Error())
				}
				return
			}

			require.NoError(t, err)
			require.Len(t, s.Points, tt.wantCount)
			assert.Equal(t, tt.wantFirst, s.Points[0].Price)
			assert.Equal(t, "SYM", s.Label)
		})
	}
}
