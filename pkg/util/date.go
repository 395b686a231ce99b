package util

import "time"

// DateLayout is the sortable day form used across snapshots and queries.
const DateLayout = "2006-01-02"

// HumanDateLayout is the display form used on the dashboard cards.
const HumanDateLayout = "Mon, Jan 2 2006"

// ParseDate parses a YYYY-MM-DD string. Returns (t, true) on success.
func ParseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// FormatHuman renders a day in the dashboard's card form.
func FormatHuman(t time.Time) string {
	return t.Format(HumanDateLayout)
}

// NextTradingDay returns the next weekday after t. Exchange holidays are
// not modeled; a holiday anchor only shifts the chart's prediction box by
// a day, it never affects scoring.
func NextTradingDay(t time.Time) time.Time {
	d := t.AddDate(0, 0, 1)
	for d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
		d = d.AddDate(0, 0, 1)
	}
	return d
}
