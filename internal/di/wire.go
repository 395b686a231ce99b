//go:build wireinject
// +build wireinject

package di

import (
	"sigmaband/internal/usecase"
	"sigmaband/pkg/config"
	"sigmaband/pkg/server"

	"github.com/google/wire"
)

// InitializeServer wires the presentation server. Wire generates the
// implementation in wire_gen.go.
func InitializeServer(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,
		ProvideCache,
		ProvideSnapshotStore,
		ProvideDashboard,
		ProvideWebHandler,
		ProvideApp,
	)
	return &server.App{}, nil
}

// InitializeRefresher wires the fetch job.
func InitializeRefresher(cfg *config.Config) (*usecase.Refresher, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,
		ProvideSnapshotStore,
		ProvidePriceSource,
		ProvideRefresher,
	)
	return &usecase.Refresher{}, nil
}
