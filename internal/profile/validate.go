package profile

import (
	"fmt"
	"regexp"

	"github.com/jaudi/Portfolio-analysis/internal/marketdata"
)

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// ValidationError names the offending profile field
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks all required constraints
func Validate(p *Profile) error {
	// === Meta ===
	if p.Meta.ProfileID == "" {
		return ValidationError{"meta.profile_id", "required"}
	}

	// === Instruments ===
	if len(p.Instruments) == 0 {
		return ValidationError{"instruments", "at least one instrument required"}
	}
	seen := make(map[string]bool, len(p.Instruments))
	for i, inst := range p.Instruments {
		field := fmt.Sprintf("instruments[%d]", i)
		if inst.Symbol == "" {
			return ValidationError{field + ".symbol", "required"}
		}
		if inst.Name == "" {
			return ValidationError{field + ".name", "required"}
		}
		if seen[inst.Symbol] {
			return ValidationError{field + ".symbol", fmt.Sprintf("duplicate symbol %s", inst.Symbol)}
		}
		seen[inst.Symbol] = true
	}

	// === Selection ===
	s := p.Selection
	if s.MinInstruments < 1 {
		return ValidationError{"selection.min_instruments", "must be >= 1"}
	}
	if s.MinInstruments > s.MaxInstruments {
		return ValidationError{"selection", "min_instruments must be <= max_instruments"}
	}
	if s.MaxInstruments > len(p.Instruments) {
		return ValidationError{"selection.max_instruments",
			fmt.Sprintf("must be <= catalog size %d, got %d", len(p.Instruments), s.MaxInstruments)}
	}

	// === Periods ===
	if len(p.Periods.Options) == 0 {
		return ValidationError{"periods.options", "at least one period required"}
	}
	for i, opt := range p.Periods.Options {
		if !marketdata.ValidPeriod(opt) {
			return ValidationError{fmt.Sprintf("periods.options[%d]", i), fmt.Sprintf("unsupported period %q", opt)}
		}
	}
	if !p.HasPeriod(p.Periods.Default) {
		return ValidationError{"periods.default", fmt.Sprintf("%q is not one of the options", p.Periods.Default)}
	}

	// === Analysis ===
	if err := p.Params().Validate(); err != nil {
		return ValidationError{"analysis", err.Error()}
	}
	if p.Analysis.RiskFreeAnnual < 0 {
		return ValidationError{"analysis.risk_free_annual", "must be >= 0"}
	}

	// === Limits ===
	if p.Limits.MaxVolatilityAnnual < 0 {
		return ValidationError{"limits.max_volatility_annual", "must be >= 0"}
	}
	if p.Limits.MaxDailyLoss < 0 {
		return ValidationError{"limits.max_daily_loss", "must be >= 0"}
	}

	// === Chart ===
	if len(p.Chart.Colors) < s.MaxInstruments {
		return ValidationError{"chart.colors",
			fmt.Sprintf("need one color per selectable instrument (%d), got %d", s.MaxInstruments, len(p.Chart.Colors))}
	}
	for i, c := range p.Chart.Colors {
		if !hexColor.MatchString(c) {
			return ValidationError{fmt.Sprintf("chart.colors[%d]", i), fmt.Sprintf("%q is not #rrggbb", c)}
		}
	}
	if p.Chart.Width < 0 || p.Chart.Height < 0 {
		return ValidationError{"chart", "width and height must be >= 0"}
	}

	return nil
}
