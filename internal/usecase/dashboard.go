package usecase

import (
	"context"
	"fmt"
	"time"

	"sigmaband/internal/domain/models"
	domrepo "sigmaband/internal/domain/repository"
	"sigmaband/internal/service/bands"
	"sigmaband/pkg/cache"
	"sigmaband/pkg/logger"
)

// Dashboard assembles a page view from the latest snapshot: normalize the
// requested window, slice, score, and build the chart payload. Views are
// cached per window, keyed with the snapshot's generation time so a fresh
// fetch invalidates naturally.
type Dashboard struct {
	store   domrepo.SnapshotStore
	cache   cache.Service
	metrics domrepo.Metrics
	log     *logger.Logger

	bounds   models.WindowBounds
	cacheTTL time.Duration
	now      func() time.Time
}

// NewDashboard creates the dashboard usecase. c may be nil to disable caching.
func NewDashboard(
	store domrepo.SnapshotStore,
	c cache.Service,
	metrics domrepo.Metrics,
	log *logger.Logger,
	bounds models.WindowBounds,
	cacheTTL time.Duration,
) *Dashboard {
	return &Dashboard{
		store:    store,
		cache:    c,
		metrics:  metrics,
		log:      log,
		bounds:   bounds,
		cacheTTL: cacheTTL,
		now:      time.Now,
	}
}

// WithClock overrides the clock. For tests.
func (d *Dashboard) WithClock(now func() time.Time) *Dashboard {
	d.now = now
	return d
}

// Bounds returns the configured window bounds.
func (d *Dashboard) Bounds() models.WindowBounds { return d.bounds }

// View builds the dashboard view for a raw `days` query value.
func (d *Dashboard) View(ctx context.Context, rawDays string) (*models.DashboardView, error) {
	win := d.bounds.Parse(rawDays)

	snap, err := d.store.LoadSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	if len(snap.Observations) < 2 {
		return nil, fmt.Errorf("%w: snapshot holds %d observations, need at least 2",
			domrepo.ErrInsufficientData, len(snap.Observations))
	}

	key := cache.GenerateKeyWithParams("dashboard", win.Days, snap.GeneratedAt.Unix())
	if d.cache != nil {
		var cached models.DashboardView
		if err := d.cache.Get(ctx, key, &cached); err == nil {
			d.log.Debug("dashboard view cache hit", logger.Int("days", win.Days))
			return &cached, nil
		}
	}

	window := bands.Tail(snap.Observations, win.Days)
	perf := bands.Aggregate(window)
	pred, _ := bands.LatestPrediction(window)

	display, err := d.store.LoadDisplay(ctx)
	if err != nil {
		// The display file is an optional companion; rebuild it from the
		// snapshot when absent or unreadable.
		display = BuildDisplay(snap.Observations)
	}

	view := &models.DashboardView{
		Window:      win,
		GeneratedAt: snap.GeneratedAt,
		IndexSymbol: snap.IndexSymbol,
		VolSymbol:   snap.VolSymbol,
		Performance: perf,
		Display:     display,
		Chart:       buildChart(window, pred),
	}

	d.metrics.RecordSnapshotAge(d.now().Sub(snap.GeneratedAt).Seconds())
	d.metrics.RecordHitRates(perf.PctWithin1, perf.PctOutside2)

	if d.cache != nil {
		if err := d.cache.Set(ctx, key, view, d.cacheTTL); err != nil {
			d.log.Warn("dashboard view cache set failed", logger.Error(err))
		}
	}

	return view, nil
}

// Status reports snapshot presence and freshness for the health endpoint.
func (d *Dashboard) Status(ctx context.Context) (map[string]interface{}, error) {
	snap, err := d.store.LoadSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"generated_at": snap.GeneratedAt,
		"rows":         len(snap.Observations),
		"age_seconds":  int(d.now().Sub(snap.GeneratedAt).Seconds()),
	}, nil
}

// buildChart assembles the series bundle for the page. Band series get one
// extra trailing point on the prediction date so the shading reaches into
// tomorrow.
func buildChart(window []models.Observation, pred models.Prediction) models.ChartPayload {
	n := len(window)
	p := models.ChartPayload{
		Dates:      make([]string, n),
		Closes:     make([]float64, n),
		BandDates:  make([]string, n, n+1),
		Upper1:     make([]float64, n, n+1),
		Lower1:     make([]float64, n, n+1),
		Upper2:     make([]float64, n, n+1),
		Lower2:     make([]float64, n, n+1),
		Prediction: pred,
	}

	for i, o := range window {
		p.Dates[i] = o.Date
		p.Closes[i] = o.IndexClose
		p.BandDates[i] = o.Date
		p.Upper1[i] = o.TestUpper1
		p.Lower1[i] = o.TestLower1
		p.Upper2[i] = o.TestUpper2
		p.Lower2[i] = o.TestLower2

		if o.Outside1 {
			p.Outside1.Dates = append(p.Outside1.Dates, o.Date)
			p.Outside1.Closes = append(p.Outside1.Closes, o.IndexClose)
		}
		if o.Outside2 {
			p.Outside2.Dates = append(p.Outside2.Dates, o.Date)
			p.Outside2.Closes = append(p.Outside2.Closes, o.IndexClose)
		}
	}

	if pred.Date != "" {
		p.BandDates = append(p.BandDates, pred.Date)
		p.Upper1 = append(p.Upper1, pred.Upper1)
		p.Lower1 = append(p.Lower1, pred.Lower1)
		p.Upper2 = append(p.Upper2, pred.Upper2)
		p.Lower2 = append(p.Lower2, pred.Lower2)
	}

	return p
}
