package naver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jaudi/Portfolio-analysis/pkg/config"
	"github.com/jaudi/Portfolio-analysis/pkg/httputil"
	"github.com/jaudi/Portfolio-analysis/pkg/logger"
)

const siseBody = `[['날짜', '시가', '고가', '저가', '종가', '거래량', '외국인소진율'],
["20240115", 72300, 73000, 72000, 72500, 1000000, 55.1],
["20240116", 72500, 73500, 72300, 73000, 1200000, 55.2]
]`

const itemPage = `<html><body>
<div class="wrap_company"><h2><a href="#">삼성전자</a></h2></div>
</body></html>`

func TestParsePriceJSON(t *testing.T) {
	tests := []struct {
		name    string
		rawData [][]interface{}
		want    int
	}{
		{
			name: "valid data with header",
			rawData: [][]interface{}{
				{"날짜", "시가", "고가", "저가", "종가", "거래량"},
				{"20240115", 72300.0, 73000.0, 72000.0, 72500.0, 1000000.0},
				{"20240116", 72500.0, 73500.0, 72300.0, 73000.0, 1200000.0},
			},
			want: 2,
		},
		{
			name: "valid data with string numbers",
			rawData: [][]interface{}{
				{"날짜", "시가", "고가", "저가", "종가", "거래량"},
				{"20240115", "72300", "73000", "72000", "2,572.5", "1000000"},
			},
			want: 1,
		},
		{
			name:    "empty data",
			rawData: [][]interface{}{},
			want:    0,
		},
		{
			name: "data with insufficient columns",
			rawData: [][]interface{}{
				{"날짜", "시가"},
				{"20240115", 72300.0, 73000.0},
			},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parsePriceJSON(tt.rawData)
			if len(got) != tt.want {
				t.Errorf("parsePriceJSON() got %d prices, want %d", len(got), tt.want)
			}

			for _, price := range got {
				if price.TradeDate.IsZero() {
					t.Error("parsePriceJSON() TradeDate is zero")
				}
				if price.ClosePrice <= 0 {
					t.Error("parsePriceJSON() ClosePrice is not positive")
				}
			}
		})
	}
}

func TestParsePriceRegex(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{
			name: "valid regex format",
			body: `[["20240115", 72300, 73000, 72000, 72500, 1000000], ["20240116", 2500.5, 2510.1, 2490.0, 2505.3, 1200000]`,
			want: 2,
		},
		{
			name: "invalid format",
			body: `{"invalid": "json"}`,
			want: 0,
		},
		{
			name: "empty string",
			body: "",
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parsePriceRegex(tt.body); len(got) != tt.want {
				t.Errorf("parsePriceRegex() got %d prices, want %d", len(got), tt.want)
			}
		})
	}
}

func TestParsePriceResponse_SingleQuotedHeader(t *testing.T) {
	prices, err := parsePriceResponse(siseBody)
	if err != nil {
		t.Fatalf("parsePriceResponse() error = %v", err)
	}
	if len(prices) != 2 {
		t.Fatalf("got %d prices, want 2", len(prices))
	}
	if prices[1].ClosePrice != 73000 {
		t.Errorf("close = %v, want 73000", prices[1].ClosePrice)
	}
}

func TestToFloat64(t *testing.T) {
	tests := []struct {
		name  string
		input interface{}
		want  float64
	}{
		{"float64", 123.45, 123.45},
		{"int64", int64(123), 123},
		{"int", int(123), 123},
		{"string", "123.5", 123.5},
		{"thousands separator", "1,234", 1234},
		{"invalid string", "abc", 0},
		{"nil", nil, 0},
		{"empty string", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := toFloat64(tt.input); got != tt.want {
				t.Errorf("toFloat64() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseNameHTML(t *testing.T) {
	name, err := parseNameHTML(itemPage)
	if err != nil {
		t.Fatalf("parseNameHTML() error = %v", err)
	}
	if name != "삼성전자" {
		t.Errorf("name = %q, want 삼성전자", name)
	}

	if _, err := parseNameHTML(`<html><body><p>nothing</p></body></html>`); err != ErrNameNotFound {
		t.Errorf("expected ErrNameNotFound, got %v", err)
	}
}

func TestFetchSeries(t *testing.T) {
	var gotReferer string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/siseJson.naver":
			gotReferer = r.Header.Get("Referer")
			if r.URL.Query().Get("symbol") != "005930" || r.URL.Query().Get("startTime") != "20240101" {
				t.Errorf("unexpected query %s", r.URL.RawQuery)
			}
			w.Write([]byte(siseBody))
		case "/item/main.naver":
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.Write([]byte(itemPage))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	cfg := &config.Config{HTTPClient: config.HTTPClientConfig{Timeout: 5 * time.Second}}
	c := NewClient(httputil.New(cfg, logger.Nop()), logger.Nop(), server.URL, server.URL)

	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	s, err := c.FetchSeries(context.Background(), "005930", from, to)
	if err != nil {
		t.Fatalf("FetchSeries() error = %v", err)
	}

	if s.Label != "삼성전자" {
		t.Errorf("label = %q", s.Label)
	}
	if len(s.Points) != 2 || s.Points[0].Price != 72500 {
		t.Errorf("unexpected points %+v", s.Points)
	}
	if gotReferer != DefaultBaseURL+"/" {
		t.Errorf("referer = %q", gotReferer)
	}
	if c.Name() != "naver" {
		t.Errorf("name = %q", c.Name())
	}
}
