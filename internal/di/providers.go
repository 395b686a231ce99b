package di

import (
	"sigmaband/internal/domain/models"
	domrepo "sigmaband/internal/domain/repository"
	"sigmaband/internal/handler/web"
	internalrepo "sigmaband/internal/repository"
	"sigmaband/internal/service/yahoo"
	"sigmaband/internal/usecase"
	"sigmaband/pkg/cache"
	"sigmaband/pkg/config"
	xhttp "sigmaband/pkg/http"
	"sigmaband/pkg/logger"
	"sigmaband/pkg/metrics"
	"sigmaband/pkg/server"
)

// ProvideLogger creates the application logger from config.
func ProvideLogger(cfg *config.Config) (*logger.Logger, error) {
	return logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() domrepo.Metrics {
	return metrics.New()
}

// ProvideCache creates the layered view cache. When Redis is enabled but
// unreachable, the cache degrades to memory-only with a warning; the
// dashboard must render either way.
func ProvideCache(cfg *config.Config, log *logger.Logger) cache.Service {
	var redisCache *cache.RedisCache
	if cfg.Cache.Redis.Enabled {
		rc, err := cache.NewRedisCache(
			cache.WithRedisAddr(cfg.Cache.Redis.Addr),
			cache.WithRedisPassword(cfg.Cache.Redis.Password),
			cache.WithRedisDB(cfg.Cache.Redis.DB),
			cache.WithRedisPrefix("sigmaband"),
		)
		if err != nil {
			log.Warn("redis cache unavailable, using memory only", logger.Error(err))
		} else {
			redisCache = rc
		}
	}
	return cache.NewLayeredCache(redisCache, cache.WithMemoryMaxSize(64))
}

// ProvideSnapshotStore creates the file-backed snapshot store.
func ProvideSnapshotStore(cfg *config.Config) domrepo.SnapshotStore {
	return internalrepo.NewFileStore(cfg.Data.SnapshotPath, cfg.Data.DisplayPath)
}

// ProvidePriceSource creates the Yahoo chart API client.
func ProvidePriceSource(cfg *config.Config) domrepo.PriceSource {
	return yahoo.New(cfg.Data.BaseURL, cfg.Data.FetchTimeout)
}

// ProvideRefresher creates the fetch job usecase.
func ProvideRefresher(
	cfg *config.Config,
	source domrepo.PriceSource,
	store domrepo.SnapshotStore,
	m domrepo.Metrics,
	log *logger.Logger,
) *usecase.Refresher {
	return usecase.NewRefresher(
		source,
		store,
		m,
		log,
		cfg.Data.IndexSymbol,
		cfg.Data.VolSymbol,
		cfg.Data.LookbackDays,
	)
}

// ProvideDashboard creates the dashboard usecase.
func ProvideDashboard(
	cfg *config.Config,
	store domrepo.SnapshotStore,
	c cache.Service,
	m domrepo.Metrics,
	log *logger.Logger,
) *usecase.Dashboard {
	bounds := models.WindowBounds{
		Min:     cfg.Dashboard.MinWindow,
		Max:     cfg.Dashboard.MaxWindow,
		Default: cfg.Dashboard.DefaultWindow,
	}
	return usecase.NewDashboard(store, c, m, log, bounds, cfg.Dashboard.CacheTTL)
}

// ProvideWebHandler creates the echo route handler.
func ProvideWebHandler(cfg *config.Config, log *logger.Logger, dash *usecase.Dashboard) xhttp.Handler {
	return web.NewDashboardHandler(log, dash, cfg.Server.RateLimitBurst, cfg.Server.RateLimitPerSec)
}

// ProvideApp creates the application server.
func ProvideApp(cfg *config.Config, log *logger.Logger, handler xhttp.Handler, c cache.Service) *server.App {
	return server.New(cfg, log, handler, c)
}
