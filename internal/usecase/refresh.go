package usecase

import (
	"context"
	"fmt"
	"time"

	"sigmaband/internal/domain/models"
	domrepo "sigmaband/internal/domain/repository"
	"sigmaband/internal/service/bands"
	"sigmaband/pkg/logger"
	"sigmaband/pkg/util"
)

// Refresher runs one fetch cycle: pull both daily series, derive the
// band observations, and replace the snapshot and display files.
type Refresher struct {
	source  domrepo.PriceSource
	store   domrepo.SnapshotStore
	metrics domrepo.Metrics
	log     *logger.Logger

	indexSymbol  string
	volSymbol    string
	lookbackDays int

	now func() time.Time
}

// NewRefresher creates a refresher. lookbackDays is the trailing calendar
// window requested from the source.
func NewRefresher(
	source domrepo.PriceSource,
	store domrepo.SnapshotStore,
	metrics domrepo.Metrics,
	log *logger.Logger,
	indexSymbol, volSymbol string,
	lookbackDays int,
) *Refresher {
	return &Refresher{
		source:       source,
		store:        store,
		metrics:      metrics,
		log:          log,
		indexSymbol:  indexSymbol,
		volSymbol:    volSymbol,
		lookbackDays: lookbackDays,
		now:          time.Now,
	}
}

// WithClock overrides the clock. For tests.
func (r *Refresher) WithClock(now func() time.Time) *Refresher {
	r.now = now
	return r
}

// Run executes one refresh. Upstream failures are reported to the caller,
// never retried; the previous snapshot stays in place untouched.
func (r *Refresher) Run(ctx context.Context) (*models.Snapshot, error) {
	start := r.now()
	to := start
	from := to.AddDate(0, 0, -r.lookbackDays)

	index, err := r.source.DailyCloses(ctx, r.indexSymbol, from, to)
	if err != nil {
		r.metrics.RecordError("fetch_index")
		return nil, fmt.Errorf("fetch %s: %w", r.indexSymbol, err)
	}

	vol, err := r.source.DailyCloses(ctx, r.volSymbol, from, to)
	if err != nil {
		r.metrics.RecordError("fetch_vol")
		return nil, fmt.Errorf("fetch %s: %w", r.volSymbol, err)
	}

	obs, err := bands.Compute(index, vol)
	if err != nil {
		r.metrics.RecordError("compute")
		return nil, fmt.Errorf("compute bands: %w", err)
	}

	snap := &models.Snapshot{
		GeneratedAt:  r.now().UTC(),
		IndexSymbol:  r.indexSymbol,
		VolSymbol:    r.volSymbol,
		Observations: obs,
	}

	if err := r.store.SaveSnapshot(ctx, snap); err != nil {
		r.metrics.RecordError("persist")
		return nil, err
	}
	if err := r.store.SaveDisplay(ctx, BuildDisplay(obs)); err != nil {
		r.metrics.RecordError("persist")
		return nil, err
	}

	elapsed := r.now().Sub(start)
	r.metrics.RecordFetchDuration(elapsed.Seconds())
	r.metrics.RecordSnapshotRows(len(obs))
	last := obs[len(obs)-1]
	r.metrics.RecordLastClose(r.indexSymbol, last.IndexClose)
	r.metrics.RecordLastClose(r.volSymbol, last.VolClose)

	r.log.Info("snapshot refreshed",
		logger.Int("rows", len(obs)),
		logger.String("latest", last.Date),
		logger.Duration("elapsed", elapsed),
	)

	return snap, nil
}

// BuildDisplay digests the observation sequence into the flat summary the
// cards render. Callers must pass a non-empty sequence.
func BuildDisplay(obs []models.Observation) *models.DisplaySummary {
	last := obs[len(obs)-1]
	lastTime := last.Time()

	d := &models.DisplaySummary{
		LatestDate:    last.Date,
		LatestDateStr: util.FormatHuman(lastTime),
		LatestClose:   last.IndexClose,
		DailySigma:    last.DailySigma,

		TestUpper1: last.TestUpper1,
		TestLower1: last.TestLower1,
		TestUpper2: last.TestUpper2,
		TestLower2: last.TestLower2,
		Result:     last.Result(),

		PredUpper1: last.PredUpper1,
		PredLower1: last.PredLower1,
		PredUpper2: last.PredUpper2,
		PredLower2: last.PredLower2,
		PredDate:   util.NextTradingDay(lastTime).Format(models.DateLayout),
	}

	if len(obs) >= 2 {
		prev := obs[len(obs)-2]
		d.PrevDate = prev.Date
		d.PrevDateStr = util.FormatHuman(prev.Time())
		d.PrevClose = prev.IndexClose
	}

	return d
}
