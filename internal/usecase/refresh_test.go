package usecase

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"sigmaband/internal/domain/models"
	domrepo "sigmaband/internal/domain/repository"
	"sigmaband/internal/repository"
	"sigmaband/pkg/logger"
)

// fakeSource serves canned daily closes per symbol.
type fakeSource struct {
	series map[string][]models.Quote
	errs   map[string]error
}

func (f *fakeSource) DailyCloses(_ context.Context, symbol string, _, _ time.Time) ([]models.Quote, error) {
	if err := f.errs[symbol]; err != nil {
		return nil, err
	}
	return f.series[symbol], nil
}

// spyMetrics counts recorder calls.
type spyMetrics struct {
	mu         sync.Mutex
	errs       map[string]int
	rows       int
	lastCloses map[string]float64
	ageSeconds float64
	hitCalls   int
}

func newSpyMetrics() *spyMetrics {
	return &spyMetrics{errs: map[string]int{}, lastCloses: map[string]float64{}}
}

func (s *spyMetrics) RecordFetchDuration(float64) {}
func (s *spyMetrics) RecordSnapshotRows(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = n
}
func (s *spyMetrics) RecordSnapshotAge(sec float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ageSeconds = sec
}
func (s *spyMetrics) RecordLastClose(symbol string, close float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastCloses[symbol] = close
}
func (s *spyMetrics) RecordHitRates(float64, float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hitCalls++
}
func (s *spyMetrics) RecordError(kind string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errs[kind]++
}

func tradingDays(start time.Time, closes []float64) []models.Quote {
	out := make([]models.Quote, len(closes))
	d := start
	for i, c := range closes {
		for d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			d = d.AddDate(0, 0, 1)
		}
		out[i] = models.Quote{Date: d, Close: c}
		d = d.AddDate(0, 0, 1)
	}
	return out
}

func newTestStore(t *testing.T) *repository.FileStore {
	t.Helper()
	dir := t.TempDir()
	return repository.NewFileStore(
		filepath.Join(dir, "spx_data.json"),
		filepath.Join(dir, "display_data.json"),
	)
}

func TestRefresherRun(t *testing.T) {
	start := time.Date(2026, 8, 17, 0, 0, 0, 0, time.UTC) // Monday
	source := &fakeSource{series: map[string][]models.Quote{
		"^GSPC": tradingDays(start, []float64{5000, 5030, 5010}),
		"^VIX":  tradingDays(start, []float64{18.0, 19.5, 17.2}),
	}}
	store := newTestStore(t)
	metrics := newSpyMetrics()

	fixed := time.Date(2026, 8, 19, 22, 0, 0, 0, time.UTC)
	r := NewRefresher(source, store, metrics, logger.Nop(), "^GSPC", "^VIX", 500).
		WithClock(func() time.Time { return fixed })

	snap, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(snap.Observations) != 2 {
		t.Fatalf("expected 2 observations from 3 input rows, got %d", len(snap.Observations))
	}
	if !snap.GeneratedAt.Equal(fixed) {
		t.Fatalf("generated_at = %v, want %v", snap.GeneratedAt, fixed)
	}

	ctx := context.Background()
	persisted, err := store.LoadSnapshot(ctx)
	if err != nil {
		t.Fatalf("snapshot not persisted: %v", err)
	}
	if persisted.IndexSymbol != "^GSPC" || persisted.VolSymbol != "^VIX" {
		t.Fatalf("symbols = %s/%s", persisted.IndexSymbol, persisted.VolSymbol)
	}

	display, err := store.LoadDisplay(ctx)
	if err != nil {
		t.Fatalf("display summary not persisted: %v", err)
	}
	if display.LatestDate != "2026-08-19" || display.LatestClose != 5010 {
		t.Fatalf("display summary = %+v", display)
	}

	if metrics.rows != 2 {
		t.Fatalf("recorded rows = %d, want 2", metrics.rows)
	}
	if metrics.lastCloses["^GSPC"] != 5010 || metrics.lastCloses["^VIX"] != 17.2 {
		t.Fatalf("recorded closes = %v", metrics.lastCloses)
	}
	if len(metrics.errs) != 0 {
		t.Fatalf("unexpected error metrics: %v", metrics.errs)
	}
}

func TestRefresherUpstreamFailure(t *testing.T) {
	source := &fakeSource{
		series: map[string][]models.Quote{},
		errs:   map[string]error{"^GSPC": domrepo.ErrSourceUnavailable},
	}
	store := newTestStore(t)
	metrics := newSpyMetrics()

	r := NewRefresher(source, store, metrics, logger.Nop(), "^GSPC", "^VIX", 500)

	_, err := r.Run(context.Background())
	if !errors.Is(err, domrepo.ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable, got %v", err)
	}
	if metrics.errs["fetch_index"] != 1 {
		t.Fatalf("expected one fetch_index error, got %v", metrics.errs)
	}

	// The failed run must not leave a partial snapshot behind.
	if _, err := store.LoadSnapshot(context.Background()); !errors.Is(err, domrepo.ErrNoSnapshot) {
		t.Fatalf("expected no snapshot after failed run, got %v", err)
	}
}

func TestRefresherInsufficientRows(t *testing.T) {
	start := time.Date(2026, 8, 17, 0, 0, 0, 0, time.UTC)
	source := &fakeSource{series: map[string][]models.Quote{
		"^GSPC": tradingDays(start, []float64{5000}),
		"^VIX":  tradingDays(start, []float64{18.0}),
	}}
	store := newTestStore(t)
	metrics := newSpyMetrics()

	r := NewRefresher(source, store, metrics, logger.Nop(), "^GSPC", "^VIX", 500)

	_, err := r.Run(context.Background())
	if !errors.Is(err, domrepo.ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData, got %v", err)
	}
	if metrics.errs["compute"] != 1 {
		t.Fatalf("expected one compute error, got %v", metrics.errs)
	}
}

func TestBuildDisplay(t *testing.T) {
	obs := []models.Observation{
		{
			Date:       "2026-08-20", // Thursday
			IndexClose: 5000,
		},
		{
			Date:       "2026-08-21", // Friday
			IndexClose: 5030,
			DailySigma: 1.1,
			TestUpper1: 5055,
			TestLower1: 4945,
			PredUpper1: 5085,
			PredLower1: 4975,
			Within1:    true,
		},
	}

	d := BuildDisplay(obs)
	if d.LatestDate != "2026-08-21" || d.LatestClose != 5030 {
		t.Fatalf("latest = %s/%v", d.LatestDate, d.LatestClose)
	}
	if d.PrevDate != "2026-08-20" || d.PrevClose != 5000 {
		t.Fatalf("prev = %s/%v", d.PrevDate, d.PrevClose)
	}
	if d.Result != models.ResultWithin1 {
		t.Fatalf("result = %s", d.Result)
	}
	if d.PredDate != "2026-08-24" {
		t.Fatalf("prediction date %s should skip the weekend to Monday", d.PredDate)
	}
	if d.LatestDateStr != "Fri, Aug 21 2026" {
		t.Fatalf("human date = %q", d.LatestDateStr)
	}
}

func TestBuildDisplaySingleObservation(t *testing.T) {
	d := BuildDisplay([]models.Observation{{Date: "2026-08-21", IndexClose: 5030, Within1: true}})
	if d.PrevDate != "" || d.PrevClose != 0 {
		t.Fatalf("single observation should leave prev fields empty, got %+v", d)
	}
}
