package render

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/vicanso/go-charts/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/jaudi/Portfolio-analysis/internal/contracts"
)

// ErrEmptyAllocation is returned when there is nothing to draw
var ErrEmptyAllocation = errors.New("allocation is empty")

// go-charts keeps themes in a package map without a lock.
// Registration takes themeMu for writing, rendering holds it for reading.
var (
	themeMu    sync.RWMutex
	registered = make(map[string]struct{})
)

// ChartStyle controls the allocation pie
type ChartStyle struct {
	Title  string
	Colors []string // #rrggbb, applied in slice order
	Width  int
	Height int
}

// DefaultChartStyle mirrors the built-in profile
func DefaultChartStyle() ChartStyle {
	return ChartStyle{
		Title:  "Portfolio Allocation",
		Colors: []string{"#ff9999", "#66b3ff", "#99ff99", "#ffcc99"},
		Width:  600,
		Height: 400,
	}
}

// AllocationPie renders the allocation as a PNG pie chart
// Legend entries carry the share, one decimal ("S&P 500 60.0%")
func AllocationPie(alloc contracts.Allocation, style ChartStyle) ([]byte, error) {
	if len(alloc) == 0 {
		return nil, ErrEmptyAllocation
	}
	if style.Width <= 0 {
		style.Width = 600
	}
	if style.Height <= 0 {
		style.Height = 400
	}

	legend := make([]string, len(alloc))
	for i, s := range alloc {
		legend[i] = fmt.Sprintf("%s %.1f%%", s.Label, s.Weight*100)
	}

	theme := paletteTheme(style.Colors)

	themeMu.RLock()
	p, err := charts.PieRender(
		alloc.Values(),
		charts.TitleTextOptionFunc(style.Title),
		charts.LegendOptionFunc(charts.LegendOption{
			Data: legend,
			Top:  charts.PositionTop,
		}),
		charts.ThemeOptionFunc(theme),
		charts.WidthOptionFunc(style.Width),
		charts.HeightOptionFunc(style.Height),
	)
	themeMu.RUnlock()
	if err != nil {
		return nil, fmt.Errorf("render allocation pie: %w", err)
	}

	return p.Bytes()
}

// RegisterChartStyle registers the style's palette ahead of the first render
func RegisterChartStyle(style ChartStyle) {
	paletteTheme(style.Colors)
}

// paletteTheme returns the theme name for colors, registering it on first use
// No colors means the stock light theme
func paletteTheme(colors []string) string {
	if len(colors) == 0 {
		return charts.ThemeLight
	}

	name := "portfolio:" + strings.Join(colors, ",")

	themeMu.RLock()
	_, ok := registered[name]
	themeMu.RUnlock()
	if ok {
		return name
	}

	series := make([]drawing.Color, len(colors))
	for i, c := range colors {
		series[i] = drawing.ColorFromHex(strings.TrimPrefix(c, "#"))
	}

	themeMu.Lock()
	defer themeMu.Unlock()
	if _, ok := registered[name]; !ok {
		charts.AddTheme(name, charts.ThemeOption{
			IsDarkMode:         false,
			AxisStrokeColor:    drawing.Color{R: 110, G: 112, B: 121, A: 255},
			AxisSplitLineColor: drawing.Color{R: 224, G: 230, B: 242, A: 255},
			BackgroundColor:    drawing.ColorWhite,
			TextColor:          drawing.Color{R: 70, G: 70, B: 70, A: 255},
			SeriesColors:       series,
		})
		registered[name] = struct{}{}
	}
	return name
}
