package bands

import (
	"fmt"

	"sigmaband/internal/domain/models"
	domrepo "sigmaband/internal/domain/repository"
	"sigmaband/pkg/util"
)

// SigmaDivisor de-annualizes the volatility index close into a one-day
// standard deviation, assuming a 252-trading-day year: sqrt(252) ≈ 15.87.
const SigmaDivisor = 15.87

// DailySigma converts an annualized volatility close into a one-day
// standard deviation, expressed as a percentage of the close.
func DailySigma(volClose float64) float64 {
	return volClose / SigmaDivisor
}

// Compute merges an index close series with its volatility series and
// scores every day against the previous day's prediction.
//
// The volatility series is forward-filled by date onto the index series'
// trading calendar, so a volatility gap around an exchange holiday carries
// the last known close instead of shifting rows. Row 0 of the merge has no
// prior prediction and is dropped; every returned observation carries
// valid test bounds. Both inputs must be ordered oldest first.
func Compute(index, vol []models.Quote) ([]models.Observation, error) {
	if len(index) < 2 {
		return nil, fmt.Errorf("%w: %d index rows, need at least 2", domrepo.ErrInsufficientData, len(index))
	}

	filled, err := forwardFill(index, vol)
	if err != nil {
		return nil, err
	}

	rows := make([]models.Observation, len(index))
	for i, q := range index {
		sigma := DailySigma(filled[i])
		rows[i] = models.Observation{
			Date:       q.Date.Format(models.DateLayout),
			IndexClose: q.Close,
			VolClose:   filled[i],
			DailySigma: sigma,
			PredUpper1: q.Close * (1 + sigma/100),
			PredLower1: q.Close * (1 - sigma/100),
			PredUpper2: q.Close * (1 + 2*sigma/100),
			PredLower2: q.Close * (1 - 2*sigma/100),
		}
	}

	// Explicit one-row lookback: day i is tested against day i-1's
	// prediction. Row 0 has nothing to test against and is excluded.
	out := make([]models.Observation, 0, len(rows)-1)
	for i := 1; i < len(rows); i++ {
		o := rows[i]
		prev := rows[i-1]
		o.TestUpper1 = prev.PredUpper1
		o.TestLower1 = prev.PredLower1
		o.TestUpper2 = prev.PredUpper2
		o.TestLower2 = prev.PredLower2
		classify(&o)
		out = append(out, o)
	}
	return out, nil
}

// classify sets exactly one of the three outcome flags.
func classify(o *models.Observation) {
	c := o.IndexClose
	within1 := c >= o.TestLower1 && c <= o.TestUpper1
	within2 := c >= o.TestLower2 && c <= o.TestUpper2
	o.Within1 = within1
	o.Outside1 = !within1 && within2
	o.Outside2 = !within2
}

// forwardFill resolves one volatility close per index date, carrying the
// last known value across dates the volatility source is missing.
func forwardFill(index, vol []models.Quote) ([]float64, error) {
	vals := make([]float64, len(index))
	var (
		last float64
		have bool
		j    int
	)
	for i, q := range index {
		for j < len(vol) && !vol[j].Date.After(q.Date) {
			last = vol[j].Close
			have = true
			j++
		}
		if !have {
			return nil, fmt.Errorf("%w: no volatility close on or before %s",
				domrepo.ErrInsufficientData, q.Date.Format(models.DateLayout))
		}
		vals[i] = last
	}
	return vals, nil
}

// LatestPrediction returns the most recent observation's own forecast,
// anchored on the next trading-adjacent day (weekends skipped).
func LatestPrediction(obs []models.Observation) (models.Prediction, bool) {
	if len(obs) == 0 {
		return models.Prediction{}, false
	}
	last := obs[len(obs)-1]
	anchor := util.NextTradingDay(last.Time())
	return models.Prediction{
		Date:   anchor.Format(models.DateLayout),
		Upper1: last.PredUpper1,
		Lower1: last.PredLower1,
		Upper2: last.PredUpper2,
		Lower2: last.PredLower2,
	}, true
}
