package profile

import (
	"github.com/jaudi/Portfolio-analysis/internal/contracts"
	"github.com/jaudi/Portfolio-analysis/internal/portfolio"
	"github.com/jaudi/Portfolio-analysis/internal/render"
	"github.com/jaudi/Portfolio-analysis/internal/risk"
)

// Profile is one analysis setup: which instruments can be picked, how many,
// over which lookbacks, and with which risk constants
// ⭐ SSOT: the shipped variants differ only by profile, never by code
type Profile struct {
	Meta        Meta            `yaml:"meta" json:"meta"`
	Instruments []Instrument    `yaml:"instruments" json:"instruments"`
	Selection   Selection       `yaml:"selection" json:"selection"`
	Periods     Periods         `yaml:"periods" json:"periods"`
	Analysis    Analysis        `yaml:"analysis" json:"analysis"`
	Limits      risk.RiskLimits `yaml:"limits" json:"limits"`
	Chart       Chart           `yaml:"chart" json:"chart"`
}

// Meta identifies the profile
type Meta struct {
	ProfileID   string `yaml:"profile_id" json:"profile_id"`
	Version     string `yaml:"version" json:"version"`
	Description string `yaml:"description" json:"description"`
}

// Instrument is one selectable catalog entry
type Instrument struct {
	Symbol string `yaml:"symbol" json:"symbol"`
	Name   string `yaml:"name" json:"name"`
}

// Selection bounds the number of instruments in one analysis
type Selection struct {
	MinInstruments int `yaml:"min_instruments" json:"min_instruments"`
	MaxInstruments int `yaml:"max_instruments" json:"max_instruments"`
}

// Periods lists the lookback options
type Periods struct {
	Options []string `yaml:"options" json:"options"`
	Default string   `yaml:"default" json:"default"`
}

// Analysis holds the risk engine constants
type Analysis struct {
	PeriodsPerYear int     `yaml:"periods_per_year" json:"periods_per_year"`
	RiskFreeAnnual float64 `yaml:"risk_free_annual" json:"risk_free_annual"`
	Confidence     float64 `yaml:"confidence" json:"confidence"`
}

// Chart styles the allocation pie
type Chart struct {
	Title  string   `yaml:"title" json:"title"`
	Colors []string `yaml:"colors" json:"colors"` // #rrggbb, one per slice
	Width  int      `yaml:"width" json:"width"`
	Height int      `yaml:"height" json:"height"`
}

// Bounds returns the selection bounds for the weight validator
func (p *Profile) Bounds() portfolio.SelectionBounds {
	return portfolio.SelectionBounds{Min: p.Selection.MinInstruments, Max: p.Selection.MaxInstruments}
}

// Params returns the engine parameters
func (p *Profile) Params() contracts.AnalysisParams {
	return contracts.AnalysisParams{
		PeriodsPerYear: p.Analysis.PeriodsPerYear,
		RiskFreeAnnual: p.Analysis.RiskFreeAnnual,
		Confidence:     p.Analysis.Confidence,
	}
}

// Lookup finds a catalog entry by symbol
func (p *Profile) Lookup(symbol string) (Instrument, bool) {
	for _, inst := range p.Instruments {
		if inst.Symbol == symbol {
			return inst, true
		}
	}
	return Instrument{}, false
}

// Label returns the display name of symbol, or symbol itself when it is not in the catalog
func (p *Profile) Label(symbol string) string {
	if inst, ok := p.Lookup(symbol); ok && inst.Name != "" {
		return inst.Name
	}
	return symbol
}

// Symbols returns the catalog symbols in declaration order
func (p *Profile) Symbols() []string {
	out := make([]string, len(p.Instruments))
	for i, inst := range p.Instruments {
		out[i] = inst.Symbol
	}
	return out
}

// HasPeriod reports whether period is one of the profile's options
func (p *Profile) HasPeriod(period string) bool {
	for _, opt := range p.Periods.Options {
		if opt == period {
			return true
		}
	}
	return false
}

// Default returns the built-in global indices profile
// Kept identical to config/profiles/global_indices.yaml
func Default() *Profile {
	return &Profile{
		Meta: Meta{
			ProfileID:   "global_indices",
			Version:     "1.0",
			Description: "Major world equity indices and the VIX",
		},
		Instruments: []Instrument{
			{Symbol: "^GSPC", Name: "S&P 500"},
			{Symbol: "^STOXX50E", Name: "EURO STOXX 50"},
			{Symbol: "^FTSE", Name: "FTSE 100"},
			{Symbol: "^N225", Name: "Nikkei 225"},
			{Symbol: "^HSI", Name: "Hang Seng Index"},
			{Symbol: "^DJI", Name: "Dow Jones Industrial Average"},
			{Symbol: "^IXIC", Name: "NASDAQ Composite"},
			{Symbol: "^RUT", Name: "Russell 2000"},
			{Symbol: "^VIX", Name: "CBOE Volatility Index"},
		},
		Selection: Selection{MinInstruments: 1, MaxInstruments: 4},
		Periods: Periods{
			Options: []string{"1y", "2y", "5y", "10y", "ytd"},
			Default: "1y",
		},
		Analysis: Analysis{
			PeriodsPerYear: contracts.DefaultPeriodsPerYear,
			RiskFreeAnnual: contracts.DefaultRiskFreeAnnual,
			Confidence:     contracts.DefaultConfidence,
		},
		Chart: Chart{
			Title:  "Portfolio Allocation",
			Colors: []string{"#ff9999", "#66b3ff", "#99ff99", "#ffcc99"},
			Width:  600,
			Height: 400,
		},
	}
}

// ChartStyle returns the pie chart styling of the profile
func (p *Profile) ChartStyle() render.ChartStyle {
	return render.ChartStyle{
		Title:  p.Chart.Title,
		Colors: p.Chart.Colors,
		Width:  p.Chart.Width,
		Height: p.Chart.Height,
	}
}
