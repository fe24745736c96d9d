package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/jaudi/Portfolio-analysis/internal/analyzer"
	"github.com/jaudi/Portfolio-analysis/internal/contracts"
	"github.com/jaudi/Portfolio-analysis/internal/marketdata"
	"github.com/jaudi/Portfolio-analysis/internal/portfolio"
	"github.com/jaudi/Portfolio-analysis/internal/profile"
	"github.com/jaudi/Portfolio-analysis/internal/render"
	"github.com/jaudi/Portfolio-analysis/internal/risk"
	"github.com/jaudi/Portfolio-analysis/pkg/logger"
)

// Kinds reported by the HTTP surface on top of analyzer.Kind
const (
	KindInvalidRequest = "invalid_request"
	KindInvalidPeriod  = "invalid_period"
	KindUnknownSource  = "unknown_source"
	KindNoData         = "no_data"
)

// AnalysisHandler serves the catalog, analysis and chart endpoints
// ⭐ SSOT: analysis API handlers live in this struct only
type AnalysisHandler struct {
	profile       *profile.Profile
	profileHash   string
	sources       *marketdata.Registry
	defaultSource string
	logger        *logger.Logger
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(
	p *profile.Profile,
	profileHash string,
	sources *marketdata.Registry,
	defaultSource string,
	log *logger.Logger,
) *AnalysisHandler {
	render.RegisterChartStyle(p.ChartStyle())
	return &AnalysisHandler{
		profile:       p,
		profileHash:   profileHash,
		sources:       sources,
		defaultSource: defaultSource,
		logger:        log,
	}
}

// AnalyzeRequest is the body of POST /api/analyze
// Omitted numeric fields fall back to the profile values.
type AnalyzeRequest struct {
	Symbols        []string  `json:"symbols"`
	Weights        []float64 `json:"weights"`
	Period         string    `json:"period"`
	Source         string    `json:"source"`
	Confidence     *float64  `json:"confidence,omitempty"`
	RiskFree       *float64  `json:"risk_free,omitempty"`
	PeriodsPerYear *int      `json:"periods_per_year,omitempty"`
}

// ChartRequest is the body of POST /api/allocation/chart
type ChartRequest struct {
	Symbols []string  `json:"symbols"`
	Weights []float64 `json:"weights"`
}

// GetProfile returns the active analysis profile
// GET /api/profile
func (h *AnalysisHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    h.profile,
		"hash":    h.profileHash,
	})
}

// ListInstruments returns the selectable instruments
// GET /api/instruments
func (h *AnalysisHandler) ListInstruments(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    h.profile.Instruments,
		"count":   len(h.profile.Instruments),
		"selection": map[string]int{
			"min": h.profile.Selection.MinInstruments,
			"max": h.profile.Selection.MaxInstruments,
		},
	})
}

// ListPeriods returns the lookback options
// GET /api/periods
func (h *AnalysisHandler) ListPeriods(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    h.profile.Periods.Options,
		"default": h.profile.Periods.Default,
	})
}

// ListSources returns the registered price sources
// GET /api/sources
func (h *AnalysisHandler) ListSources(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    h.sources.Names(),
		"default": h.defaultSource,
	})
}

// Analyze runs one portfolio analysis
// POST /api/analyze
func (h *AnalysisHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := decodeBody(w, r, &req); err != nil {
		respondKindError(w, http.StatusBadRequest, KindInvalidRequest, err.Error())
		return
	}

	period := req.Period
	if period == "" {
		period = h.profile.Periods.Default
	}
	if !h.profile.HasPeriod(period) {
		respondKindError(w, http.StatusBadRequest, KindInvalidPeriod,
			fmt.Sprintf("period %q is not offered (options: %v)", period, h.profile.Periods.Options))
		return
	}

	sourceName := req.Source
	if sourceName == "" {
		sourceName = h.defaultSource
	}
	src, err := h.sources.Get(sourceName)
	if err != nil {
		respondKindError(w, http.StatusBadRequest, KindUnknownSource, err.Error())
		return
	}

	params := h.profile.Params()
	if req.Confidence != nil {
		params.Confidence = *req.Confidence
	}
	if req.RiskFree != nil {
		params.RiskFreeAnnual = *req.RiskFree
	}
	if req.PeriodsPerYear != nil {
		params.PeriodsPerYear = *req.PeriodsPerYear
	}

	loader := marketdata.NewLoader(src, h.profile.Label, h.logger)
	a := analyzer.New(loader, h.profile.Bounds(), h.profile.Limits, h.logger)

	result, err := a.Run(r.Context(), analyzer.Request{
		Symbols: req.Symbols,
		Weights: contracts.WeightVector(req.Weights),
		Period:  period,
		Params:  params,
	})
	if err != nil {
		h.respondAnalysisError(w, err)
		return
	}

	report := render.NewReport(result, h.profile.Meta.ProfileID, h.profileHash, src.Name(), req.Symbols)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    report,
	})
}

// AllocationChart renders the allocation pie as PNG
// POST /api/allocation/chart
func (h *AnalysisHandler) AllocationChart(w http.ResponseWriter, r *http.Request) {
	var req ChartRequest
	if err := decodeBody(w, r, &req); err != nil {
		respondKindError(w, http.StatusBadRequest, KindInvalidRequest, err.Error())
		return
	}

	if err := h.profile.Bounds().Check(len(req.Symbols)); err != nil {
		h.respondAnalysisError(w, err)
		return
	}
	weights := contracts.WeightVector(req.Weights)
	if err := portfolio.ValidateWeightsFor(weights, req.Symbols); err != nil {
		h.respondAnalysisError(w, err)
		return
	}

	labels := make([]string, len(req.Symbols))
	for i, sym := range req.Symbols {
		labels[i] = h.profile.Label(sym)
	}
	alloc, err := portfolio.Summarize(req.Symbols, labels, weights)
	if err != nil {
		h.respondAnalysisError(w, err)
		return
	}

	png, err := render.AllocationPie(alloc, h.profile.ChartStyle())
	if err != nil {
		h.logger.WithError(err).Error("Failed to render allocation chart")
		respondError(w, http.StatusInternalServerError, "Failed to render chart")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

// respondAnalysisError maps the error taxonomy onto HTTP statuses:
// request problems → 400, data problems → 422, provider failures → 502
func (h *AnalysisHandler) respondAnalysisError(w http.ResponseWriter, err error) {
	kind := analyzer.Kind(err)
	switch kind {
	case "":
	case portfolio.ErrInsufficientData.Error(), portfolio.ErrInvalidPrice.Error(), risk.ErrDegenerateVariance.Error():
		respondKindError(w, http.StatusUnprocessableEntity, kind, err.Error())
		return
	default:
		respondKindError(w, http.StatusBadRequest, kind, err.Error())
		return
	}

	var fetchErr *marketdata.FetchError
	switch {
	case errors.Is(err, marketdata.ErrInvalidPeriod):
		respondKindError(w, http.StatusBadRequest, KindInvalidPeriod, err.Error())
	case errors.Is(err, marketdata.ErrNoData):
		respondKindError(w, http.StatusUnprocessableEntity, KindNoData, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		h.logger.WithError(err).Warn("Analysis timed out")
		respondError(w, http.StatusGatewayTimeout, "Price source timed out")
	case errors.As(err, &fetchErr):
		h.logger.WithError(err).WithField("symbol", fetchErr.Symbol).Error("Price fetch failed")
		respondError(w, http.StatusBadGateway, fmt.Sprintf("Failed to fetch prices for %s", fetchErr.Symbol))
	default:
		h.logger.WithError(err).Error("Analysis failed")
		respondError(w, http.StatusInternalServerError, "Analysis failed")
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dest interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dest); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}
