package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"sigmaband/internal/domain/models"
	"sigmaband/internal/repository"
	"sigmaband/internal/service/bands"
	"sigmaband/internal/usecase"
	"sigmaband/pkg/logger"
)

func seededServer(t *testing.T, rows int) *echo.Echo {
	return seededServerWithLimit(t, rows, 10, 5)
}

func seededServerWithLimit(t *testing.T, rows int, rateBurst, ratePerSec float64) *echo.Echo {
	t.Helper()
	dir := t.TempDir()
	store := repository.NewFileStore(
		filepath.Join(dir, "spx_data.json"),
		filepath.Join(dir, "display_data.json"),
	)

	if rows > 0 {
		start := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
		closes := make([]models.Quote, 0, rows+1)
		vols := make([]models.Quote, 0, rows+1)
		d := start
		for i := 0; i <= rows; i++ {
			for d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
				d = d.AddDate(0, 0, 1)
			}
			closes = append(closes, models.Quote{Date: d, Close: 5000 + float64(i*2)})
			vols = append(vols, models.Quote{Date: d, Close: 18 + float64(i%4)})
			d = d.AddDate(0, 0, 1)
		}
		obs, err := bands.Compute(closes, vols)
		if err != nil {
			t.Fatalf("seed compute failed: %v", err)
		}
		snap := &models.Snapshot{
			GeneratedAt:  time.Now().UTC(),
			IndexSymbol:  "^GSPC",
			VolSymbol:    "^VIX",
			Observations: obs,
		}
		if err := store.SaveSnapshot(context.Background(), snap); err != nil {
			t.Fatalf("seed save failed: %v", err)
		}
		if err := store.SaveDisplay(context.Background(), usecase.BuildDisplay(obs)); err != nil {
			t.Fatalf("seed display save failed: %v", err)
		}
	}

	dash := usecase.NewDashboard(store, nil, noopMetrics{}, logger.Nop(),
		models.DefaultWindowBounds(), time.Minute)

	e := echo.New()
	NewDashboardHandler(logger.Nop(), dash, rateBurst, ratePerSec).RegisterRoutes(e)
	return e
}

type noopMetrics struct{}

func (noopMetrics) RecordFetchDuration(float64)    {}
func (noopMetrics) RecordSnapshotRows(int)         {}
func (noopMetrics) RecordSnapshotAge(float64)      {}
func (noopMetrics) RecordLastClose(string, float64) {}
func (noopMetrics) RecordHitRates(float64, float64) {}
func (noopMetrics) RecordError(string)             {}

func get(e *echo.Echo, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestIndexRendersPage(t *testing.T) {
	e := seededServer(t, 30)

	rec := get(e, "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Plotly.newPlot") {
		t.Fatalf("page is missing the chart bootstrap")
	}
	if !strings.Contains(body, "^GSPC") {
		t.Fatalf("page is missing the index symbol")
	}
}

func TestIndexNormalizesDays(t *testing.T) {
	e := seededServer(t, 30)

	for _, raw := range []string{"abc", "5", "10000"} {
		rec := get(e, "/?days="+raw)
		if rec.Code != http.StatusOK {
			t.Fatalf("days=%s: status = %d, want 200 after normalization", raw, rec.Code)
		}
	}
}

func TestIndexNoSnapshot(t *testing.T) {
	e := seededServer(t, 0)

	rec := get(e, "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want a friendly 200 page", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Data file not found") {
		t.Fatalf("missing-snapshot page not rendered: %s", rec.Body.String())
	}
}

func TestAPIClampsWindow(t *testing.T) {
	e := seededServer(t, 30)

	rec := get(e, "/api/dashboard?days=10000")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var envelope struct {
		Status int                  `json:"status"`
		Data   models.DashboardView `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("bad JSON: %v", err)
	}
	if envelope.Data.Window.Days != 500 || !envelope.Data.Window.Clamped {
		t.Fatalf("window = %+v, want clamped 500", envelope.Data.Window)
	}
}

func TestAPIRejectsOversizedInput(t *testing.T) {
	e := seededServer(t, 30)

	rec := get(e, "/api/dashboard?days="+strings.Repeat("9", 40))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 for an oversized query value", rec.Code)
	}
}

func TestAPINoSnapshot(t *testing.T) {
	e := seededServer(t, 0)

	rec := get(e, "/api/dashboard")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestHealth(t *testing.T) {
	e := seededServer(t, 10)

	rec := get(e, "/healthz")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var envelope struct {
		Data map[string]interface{} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("bad JSON: %v", err)
	}
	if envelope.Data["rows"] != float64(10) {
		t.Fatalf("rows = %v, want 10", envelope.Data["rows"])
	}
}

func TestConfiguredRateLimit(t *testing.T) {
	// A burst of 1 with no refill: the second hit on any limited route 429s.
	e := seededServerWithLimit(t, 30, 1, 0)

	if rec := get(e, "/"); rec.Code != http.StatusOK {
		t.Fatalf("first request = %d, want 200", rec.Code)
	}
	if rec := get(e, "/api/dashboard"); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second request = %d, want 429", rec.Code)
	}
	// The health route is not rate limited.
	if rec := get(e, "/healthz"); rec.Code != http.StatusOK {
		t.Fatalf("health = %d, want 200", rec.Code)
	}
}

func TestHealthNoSnapshot(t *testing.T) {
	e := seededServer(t, 0)

	rec := get(e, "/healthz")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}
