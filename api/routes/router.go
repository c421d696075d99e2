package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/spendwise-backend/api/controllers"
	efficiencycontrollers "github.com/angelmondragon/spendwise-backend/api/controllers/efficiency"
	"github.com/angelmondragon/spendwise-backend/api/middleware"
	"github.com/angelmondragon/spendwise-backend/internal/efficiency"
	"github.com/angelmondragon/spendwise-backend/pkg/config"
	"github.com/angelmondragon/spendwise-backend/pkg/db"
	"github.com/angelmondragon/spendwise-backend/pkg/logger"
	"github.com/angelmondragon/spendwise-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	gatherer prometheus.Gatherer,
	efficiencyService efficiency.Service,
	resultCache efficiency.ResultCache,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	readiness := map[string]controllers.Pinger{}
	if dbP != nil {
		readiness["db"] = dbP
	}
	if redisClient != nil {
		readiness["redis"] = redisClient
	}

	var limiter rateLimiter
	if redisClient != nil {
		limiter = redisClient
	}
	exportLimit, invalidateLimit := efficiencyRateLimits(cfg.Efficiency, limiter, logg)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readiness))
	})

	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/efficiency", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Get("/", efficiencycontrollers.Metrics(efficiencyService, logg))
		r.Post("/query", efficiencycontrollers.Query(efficiencyService, logg))
		r.Get("/inefficient", efficiencycontrollers.Inefficient(efficiencyService, cfg.Efficiency.RankingLimit, logg))
		r.Get("/products/{productCode}/chart", efficiencycontrollers.Chart(efficiencyService, logg))
		r.With(exportLimit).Get("/export", efficiencycontrollers.Export(efficiencyService, logg))
		if resultCache != nil {
			r.With(invalidateLimit).Post("/cache/invalidate", efficiencycontrollers.Invalidate(resultCache, logg))
		}
	})

	return r
}

const (
	exportRatePolicy     = "efficiency_export"
	invalidateRatePolicy = "efficiency_invalidate"
)

type rateLimiter interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

// efficiencyRateLimits gives export and invalidate separate per-organization windows.
// Without a limiter both pass through.
func efficiencyRateLimits(cfg config.EfficiencyConfig, limiter rateLimiter, logg *logger.Logger) (export, invalidate func(http.Handler) http.Handler) {
	if limiter == nil {
		return passthrough, passthrough
	}
	export = middleware.RateLimit(
		middleware.NewRateLimitPolicy(exportRatePolicy, cfg.ExportRateWindow, cfg.ExportRateLimit),
		limiter,
		logg,
	)
	invalidate = middleware.RateLimit(
		middleware.NewRateLimitPolicy(invalidateRatePolicy, cfg.InvalidateRateWindow, cfg.InvalidateRateLimit),
		limiter,
		logg,
	)
	return export, invalidate
}

func passthrough(next http.Handler) http.Handler {
	return next
}
