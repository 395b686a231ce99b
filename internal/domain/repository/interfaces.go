package repository

import (
	"context"
	"errors"
	"time"

	"sigmaband/internal/domain/models"
)

var (
	// ErrInsufficientData means the merged series is too short to score:
	// fewer than two aligned trading days, or no volatility close exists
	// on or before the first index date.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrNoSnapshot means the fetch job has not produced a snapshot yet.
	ErrNoSnapshot = errors.New("snapshot not found")

	// ErrSourceUnavailable means the upstream price source failed or
	// returned an empty series. Fetches are reported, not retried.
	ErrSourceUnavailable = errors.New("price source unavailable")
)

// PriceSource returns daily closes for a ticker over [from, to], oldest first.
type PriceSource interface {
	DailyCloses(ctx context.Context, symbol string, from, to time.Time) ([]models.Quote, error)
}

// SnapshotStore persists the fetch job's output and serves it to the
// dashboard. Saves replace the previous contents wholesale.
type SnapshotStore interface {
	SaveSnapshot(ctx context.Context, snap *models.Snapshot) error
	LoadSnapshot(ctx context.Context) (*models.Snapshot, error)
	SaveDisplay(ctx context.Context, d *models.DisplaySummary) error
	LoadDisplay(ctx context.Context) (*models.DisplaySummary, error)
}

// Metrics records operational measurements from both binaries.
type Metrics interface {
	RecordFetchDuration(seconds float64)
	RecordSnapshotRows(n int)
	RecordSnapshotAge(seconds float64)
	RecordLastClose(symbol string, price float64)
	RecordHitRates(pctWithin1, pctOutside2 float64)
	RecordError(kind string)
}
