package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaudi/Portfolio-analysis/internal/contracts"
	"github.com/jaudi/Portfolio-analysis/internal/marketdata"
	"github.com/jaudi/Portfolio-analysis/internal/profile"
	"github.com/jaudi/Portfolio-analysis/pkg/logger"
)

// brokenSource fails every fetch
type brokenSource struct{}

func (brokenSource) Name() string { return "broken" }

func (brokenSource) FetchSeries(ctx context.Context, symbol string, from, to time.Time) (contracts.InstrumentSeries, error) {
	return contracts.InstrumentSeries{}, errors.New("connection refused")
}

func newTestHandler(t *testing.T) *AnalysisHandler {
	t.Helper()
	p := profile.Default()
	hash, err := profile.Hash(p)
	require.NoError(t, err)

	reg := marketdata.NewRegistry(marketdata.NewDemoSource(), brokenSource{})
	return NewAnalysisHandler(p, hash, reg, marketdata.SourceDemo, logger.Nop())
}

func post(t *testing.T, h http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestListInstruments(t *testing.T) {
	h := newTestHandler(t)
	rec := httptest.NewRecorder()
	h.ListInstruments(rec, httptest.NewRequest(http.MethodGet, "/api/instruments", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, float64(9), body["count"])
	sel := body["selection"].(map[string]interface{})
	assert.Equal(t, float64(1), sel["min"])
	assert.Equal(t, float64(4), sel["max"])
}

func TestListPeriods(t *testing.T) {
	h := newTestHandler(t)
	rec := httptest.NewRecorder()
	h.ListPeriods(rec, httptest.NewRequest(http.MethodGet, "/api/periods", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Len(t, body["data"], 5)
	assert.NotEmpty(t, body["default"])
}

func TestListSources(t *testing.T) {
	h := newTestHandler(t)
	rec := httptest.NewRecorder()
	h.ListSources(rec, httptest.NewRequest(http.MethodGet, "/api/sources", nil))

	body := decode(t, rec)
	assert.Equal(t, []interface{}{"broken", "demo"}, body["data"])
	assert.Equal(t, "demo", body["default"])
}

func TestAnalyze_Success(t *testing.T) {
	h := newTestHandler(t)
	rec := post(t, h.Analyze, `{"symbols":["^GSPC","^FTSE"],"weights":[0.6,0.4],"period":"1y"}`)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.Equal(t, true, body["success"])

	data := body["data"].(map[string]interface{})
	assert.Equal(t, "demo", data["source"])
	assert.Equal(t, "1y", data["period"])

	result := data["result"].(map[string]interface{})
	metrics := result["metrics"].(map[string]interface{})
	assert.Equal(t, 0.95, metrics["confidence"])
	assert.Greater(t, metrics["std_dev_annual"].(float64), 0.0)
	assert.Less(t, metrics["var_daily"].(float64), 0.0)

	alloc := result["allocation"].([]interface{})
	require.Len(t, alloc, 2)
	first := alloc[0].(map[string]interface{})
	assert.Equal(t, "S&P 500", first["label"])
	assert.Equal(t, 0.6, first["weight"])
}

func TestAnalyze_ParamOverrides(t *testing.T) {
	h := newTestHandler(t)
	rec := post(t, h.Analyze, `{"symbols":["^GSPC"],"weights":[1],"period":"1y","confidence":0.99,"risk_free":0}`)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	data := decode(t, rec)["data"].(map[string]interface{})
	metrics := data["result"].(map[string]interface{})["metrics"].(map[string]interface{})
	assert.Equal(t, 0.99, metrics["confidence"])
	assert.Equal(t, 0.0, metrics["risk_free_annual"])
}

func TestAnalyze_Errors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
		kind   string
	}{
		{
			name:   "weights do not sum to one",
			body:   `{"symbols":["^GSPC","^FTSE"],"weights":[0.5,0.4],"period":"1y"}`,
			status: http.StatusBadRequest,
			kind:   "weight_sum",
		},
		{
			name:   "weight count mismatch",
			body:   `{"symbols":["^GSPC","^FTSE"],"weights":[1],"period":"1y"}`,
			status: http.StatusBadRequest,
			kind:   "weight_count",
		},
		{
			name:   "too many instruments",
			body:   `{"symbols":["^GSPC","^FTSE","^N225","^HSI","^VIX"],"weights":[0.2,0.2,0.2,0.2,0.2],"period":"1y"}`,
			status: http.StatusBadRequest,
			kind:   "selection_count",
		},
		{
			name:   "no instruments",
			body:   `{"symbols":[],"weights":[],"period":"1y"}`,
			status: http.StatusBadRequest,
			kind:   "selection_count",
		},
		{
			name:   "period not offered",
			body:   `{"symbols":["^GSPC"],"weights":[1],"period":"3y"}`,
			status: http.StatusBadRequest,
			kind:   KindInvalidPeriod,
		},
		{
			name:   "unknown source",
			body:   `{"symbols":["^GSPC"],"weights":[1],"period":"1y","source":"bloomberg"}`,
			status: http.StatusBadRequest,
			kind:   KindUnknownSource,
		},
		{
			name:   "bad confidence",
			body:   `{"symbols":["^GSPC"],"weights":[1],"period":"1y","confidence":1.5}`,
			status: http.StatusBadRequest,
			kind:   "invalid_params",
		},
		{
			name:   "duplicate symbol",
			body:   `{"symbols":["^GSPC","^GSPC"],"weights":[0.5,0.5],"period":"1y"}`,
			status: http.StatusBadRequest,
			kind:   "duplicate_symbol",
		},
		{
			name:   "unknown field",
			body:   `{"symbols":["^GSPC"],"weights":[1],"lookback":"1y"}`,
			status: http.StatusBadRequest,
			kind:   KindInvalidRequest,
		},
		{
			name:   "malformed JSON",
			body:   `{"symbols":`,
			status: http.StatusBadRequest,
			kind:   KindInvalidRequest,
		},
	}

	h := newTestHandler(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(t, h.Analyze, tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			body := decode(t, rec)
			assert.Equal(t, tt.kind, body["kind"])
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestAnalyze_ProviderFailure(t *testing.T) {
	h := newTestHandler(t)
	rec := post(t, h.Analyze, `{"symbols":["^GSPC"],"weights":[1],"period":"1y","source":"broken"}`)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	body := decode(t, rec)
	assert.Contains(t, body["error"], "^GSPC")
	assert.Nil(t, body["kind"])
}

func TestAllocationChart(t *testing.T) {
	h := newTestHandler(t)
	rec := post(t, h.AllocationChart, `{"symbols":["^GSPC","^FTSE"],"weights":[0.6,0.4]}`)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")))
}

func TestAllocationChart_InvalidWeights(t *testing.T) {
	h := newTestHandler(t)
	rec := post(t, h.AllocationChart, `{"symbols":["^GSPC","^FTSE"],"weights":[0.6,0.6]}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "weight_sum", decode(t, rec)["kind"])
}
