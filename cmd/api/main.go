package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/angelmondragon/spendwise-backend/api/routes"
	"github.com/angelmondragon/spendwise-backend/internal/efficiency"
	"github.com/angelmondragon/spendwise-backend/internal/procurement"
	"github.com/angelmondragon/spendwise-backend/pkg/config"
	"github.com/angelmondragon/spendwise-backend/pkg/db"
	"github.com/angelmondragon/spendwise-backend/pkg/logger"
	"github.com/angelmondragon/spendwise-backend/pkg/metrics"
	"github.com/angelmondragon/spendwise-backend/pkg/migrate"
	"github.com/angelmondragon/spendwise-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.AutoRun(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	var (
		redisClient *redis.Client
		resultCache efficiency.ResultCache
	)
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(context.Background(), cfg.Redis, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
		if cfg.FeatureFlags.ResultCache {
			cache, err := efficiency.NewRedisCache(redisClient, cfg.Efficiency.CacheTTL)
			if err != nil {
				logg.Error(context.Background(), "failed to create result cache", err)
				os.Exit(1)
			}
			resultCache = cache
		}
	} else {
		logg.Warn(context.Background(), "redis not configured, result cache and rate limits disabled")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	calendar, err := cfg.Efficiency.Location()
	if err != nil {
		logg.Error(context.Background(), "invalid efficiency timezone", err)
		os.Exit(1)
	}
	engine := efficiency.Engine{Location: calendar}
	if cfg.Efficiency.NormalizeDescriptions {
		engine.Normalizer = efficiency.NormalizeWhitespaceFold
	}

	efficiencyService, err := efficiency.NewService(efficiency.ServiceParams{
		Source:       procurement.NewRepository(dbClient.DB()),
		Cache:        resultCache,
		Engine:       engine,
		PageSize:     cfg.Efficiency.PageSize,
		RankingLimit: cfg.Efficiency.RankingLimit,
		Metrics:      metrics.NewEfficiencyMetrics(registry),
		Logger:       logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create efficiency service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(cfg, logg, dbClient, redisClient, registry, efficiencyService, resultCache),
		ReadHeaderTimeout: 10 * time.Second,
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-runCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "api server shutdown failed", err)
		}
	}()

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
	logg.Info(ctx, "api server stopped")
}
