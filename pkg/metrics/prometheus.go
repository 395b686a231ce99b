package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain/repository.Metrics using Prometheus.
type Recorder struct {
	fetchDuration prometheus.Histogram
	snapshotRows  prometheus.Gauge
	snapshotAge   prometheus.Gauge
	lastClose     *prometheus.GaugeVec
	hitRate       *prometheus.GaugeVec
	errorsTotal   *prometheus.CounterVec
}

// New creates a Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		fetchDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "sigmaband_fetch_duration_seconds",
				Help:    "Duration of one full snapshot refresh",
				Buckets: prometheus.DefBuckets,
			},
		),
		snapshotRows: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "sigmaband_snapshot_rows",
				Help: "Number of observations in the last written snapshot",
			},
		),
		snapshotAge: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "sigmaband_snapshot_age_seconds",
				Help: "Age of the snapshot at the last dashboard render",
			},
		),
		lastClose: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "sigmaband_last_close",
				Help: "Most recent close per symbol",
			},
			[]string{"symbol"},
		),
		hitRate: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "sigmaband_band_hit_rate_pct",
				Help: "Backtest hit rate over the last rendered window",
			},
			[]string{"band"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sigmaband_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
	}
}

// RecordFetchDuration records one refresh cycle duration in seconds.
func (r *Recorder) RecordFetchDuration(seconds float64) {
	r.fetchDuration.Observe(seconds)
}

// RecordSnapshotRows records the observation count of the last snapshot.
func (r *Recorder) RecordSnapshotRows(n int) {
	r.snapshotRows.Set(float64(n))
}

// RecordSnapshotAge records snapshot age at render time in seconds.
func (r *Recorder) RecordSnapshotAge(seconds float64) {
	r.snapshotAge.Set(seconds)
}

// RecordLastClose records the most recent close for a symbol.
func (r *Recorder) RecordLastClose(symbol string, price float64) {
	r.lastClose.WithLabelValues(symbol).Set(price)
}

// RecordHitRates records backtest percentages for the rendered window.
func (r *Recorder) RecordHitRates(pctWithin1, pctOutside2 float64) {
	r.hitRate.WithLabelValues("within_1s").Set(pctWithin1)
	r.hitRate.WithLabelValues("outside_2s").Set(pctOutside2)
}

// RecordError records an error occurrence by kind.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}
