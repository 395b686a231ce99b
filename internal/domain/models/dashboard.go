package models

import (
	"strconv"
	"time"
)

// WindowBounds holds the allowed range for the dashboard display window.
type WindowBounds struct {
	Min     int
	Max     int
	Default int
}

// DefaultWindowBounds returns the standard [10, 500] range with a 40-day default.
func DefaultWindowBounds() WindowBounds {
	return WindowBounds{Min: 10, Max: 500, Default: 40}
}

// Window is a normalized display window. Days is always inside the bounds;
// the flags record how the raw input was corrected.
type Window struct {
	Days      int  `json:"days"`
	Clamped   bool `json:"clamped,omitempty"`
	Defaulted bool `json:"defaulted,omitempty"`
}

// Parse normalizes a raw query value into a valid window. Empty or
// non-numeric input falls back to the default; out-of-range input clamps
// to the nearest bound.
func (b WindowBounds) Parse(raw string) Window {
	if raw == "" {
		return Window{Days: b.Default, Defaulted: true}
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return Window{Days: b.Default, Defaulted: true}
	}
	if n < b.Min {
		return Window{Days: b.Min, Clamped: true}
	}
	if n > b.Max {
		return Window{Days: b.Max, Clamped: true}
	}
	return Window{Days: n}
}

// Performance is the backtest score over a display window.
type Performance struct {
	Days        int     `json:"days"`
	Within1     int     `json:"within_1s"`
	Outside1    int     `json:"outside_1s"`
	Outside2    int     `json:"outside_2s"`
	PctWithin1  float64 `json:"pct_within_1s"`
	PctOutside1 float64 `json:"pct_outside_1s"`
	PctOutside2 float64 `json:"pct_outside_2s"`
}

// MarkerSeries is a set of (date, close) points for chart outlier markers.
type MarkerSeries struct {
	Dates  []string  `json:"dates"`
	Closes []float64 `json:"closes"`
}

// ChartPayload is the series bundle the page's chart bootstrap consumes.
// Band series carry one extra trailing point anchored on the prediction
// date, so the shaded bands extend into tomorrow.
type ChartPayload struct {
	Dates  []string  `json:"dates"`
	Closes []float64 `json:"closes"`

	BandDates []string  `json:"band_dates"`
	Upper1    []float64 `json:"upper_1s"`
	Lower1    []float64 `json:"lower_1s"`
	Upper2    []float64 `json:"upper_2s"`
	Lower2    []float64 `json:"lower_2s"`

	Outside1   MarkerSeries `json:"outside_1s"`
	Outside2   MarkerSeries `json:"outside_2s"`
	Prediction Prediction   `json:"prediction"`
}

// DashboardView is everything a single page render needs.
type DashboardView struct {
	Window      Window          `json:"window"`
	GeneratedAt time.Time       `json:"generated_at"`
	IndexSymbol string          `json:"index_symbol"`
	VolSymbol   string          `json:"vol_symbol"`
	Performance Performance     `json:"performance"`
	Display     *DisplaySummary `json:"display"`
	Chart       ChartPayload    `json:"chart"`
}
