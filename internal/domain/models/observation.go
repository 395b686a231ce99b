package models

import "time"

// DateLayout is the sortable string form used for trading days everywhere
// in the snapshot and on the wire.
const DateLayout = "2006-01-02"

// Quote is one daily close for a single ticker.
type Quote struct {
	Date  time.Time
	Close float64
}

// Observation is one trading day scored against the previous trading day's
// prediction. Exactly one of Within1, Outside1, Outside2 is true.
type Observation struct {
	Date       string  `json:"date"` // YYYY-MM-DD
	IndexClose float64 `json:"index_close"`
	VolClose   float64 `json:"vol_close"`   // forward-filled onto the index calendar
	DailySigma float64 `json:"daily_sigma"` // percent of close

	// Bounds derived from this row's close; they predict the next trading day.
	PredUpper1 float64 `json:"pred_upper_1s"`
	PredLower1 float64 `json:"pred_lower_1s"`
	PredUpper2 float64 `json:"pred_upper_2s"`
	PredLower2 float64 `json:"pred_lower_2s"`

	// The previous row's predicted bounds: what this row's close is tested against.
	TestUpper1 float64 `json:"test_upper_1s"`
	TestLower1 float64 `json:"test_lower_1s"`
	TestUpper2 float64 `json:"test_upper_2s"`
	TestLower2 float64 `json:"test_lower_2s"`

	Within1  bool `json:"within_1s"`
	Outside1 bool `json:"outside_1s"`
	Outside2 bool `json:"outside_2s"`
}

// Time parses the observation date. The zero time is returned for a
// malformed date, which cannot happen for calculator output.
func (o Observation) Time() time.Time {
	t, _ := time.Parse(DateLayout, o.Date)
	return t
}

// Result returns the classification label for this observation.
func (o Observation) Result() string {
	switch {
	case o.Within1:
		return ResultWithin1
	case o.Outside1:
		return ResultOutside1
	default:
		return ResultOutside2
	}
}

// Classification labels as they appear in the display summary.
const (
	ResultWithin1  = "within_1σ"
	ResultOutside1 = "outside_1σ"
	ResultOutside2 = "outside_2σ"
)

// Snapshot is the wholesale output of one fetch cycle. It is replaced
// atomically on every refresh, never appended to.
type Snapshot struct {
	GeneratedAt  time.Time     `json:"generated_at"`
	IndexSymbol  string        `json:"index_symbol"`
	VolSymbol    string        `json:"vol_symbol"`
	Observations []Observation `json:"observations"` // oldest first
}

// Latest returns the most recent observation, or false for an empty snapshot.
func (s *Snapshot) Latest() (Observation, bool) {
	if len(s.Observations) == 0 {
		return Observation{}, false
	}
	return s.Observations[len(s.Observations)-1], true
}

// Prediction is a fresh, not yet validated band forecast anchored on the
// next trading-adjacent day after the close it was derived from.
type Prediction struct {
	Date   string  `json:"date"` // YYYY-MM-DD of the day being predicted
	Upper1 float64 `json:"upper_1s"`
	Lower1 float64 `json:"lower_1s"`
	Upper2 float64 `json:"upper_2s"`
	Lower2 float64 `json:"lower_2s"`
}

// DisplaySummary is the pre-digested companion file feeding the summary
// cards, so the page never recomputes headline numbers.
type DisplaySummary struct {
	LatestDate    string  `json:"latest_date"`     // YYYY-MM-DD
	LatestDateStr string  `json:"latest_date_str"` // human form, e.g. "Mon, Aug 24 2026"
	PrevDate      string  `json:"prev_date"`
	PrevDateStr   string  `json:"prev_date_str"`
	LatestClose   float64 `json:"latest_close"`
	PrevClose     float64 `json:"prev_close"`
	DailySigma    float64 `json:"daily_sigma"`

	// Yesterday's prediction for the latest day, and how it scored.
	TestUpper1 float64 `json:"test_1s_upper"`
	TestLower1 float64 `json:"test_1s_lower"`
	TestUpper2 float64 `json:"test_2s_upper"`
	TestLower2 float64 `json:"test_2s_lower"`
	Result     string  `json:"result"`

	// The latest day's own forecast for tomorrow.
	PredUpper1 float64 `json:"pred_1s_upper"`
	PredLower1 float64 `json:"pred_1s_lower"`
	PredUpper2 float64 `json:"pred_2s_upper"`
	PredLower2 float64 `json:"pred_2s_lower"`
	PredDate   string  `json:"pred_date"` // YYYY-MM-DD the forecast applies to
}
