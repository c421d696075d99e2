package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/spendwise-backend/internal/datachanges"
	"github.com/angelmondragon/spendwise-backend/internal/efficiency"
	"github.com/angelmondragon/spendwise-backend/pkg/config"
	"github.com/angelmondragon/spendwise-backend/pkg/logger"
	"github.com/angelmondragon/spendwise-backend/pkg/metrics"
	"github.com/angelmondragon/spendwise-backend/pkg/pubsub"
	"github.com/angelmondragon/spendwise-backend/pkg/redis"
)

const serviceKind = "cache-invalidator"

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: serviceKind})

	_ = godotenv.Load()

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	cfg.Service.Kind = serviceKind

	logg = logger.New(logger.Options{
		ServiceName: serviceKind,
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	requireResource(ctx, logg, "redis", err)
	defer redisClient.Close()

	cache, err := efficiency.NewRedisCache(redisClient, cfg.Efficiency.CacheTTL)
	requireResource(ctx, logg, "result cache", err)

	pubsubClient, err := pubsub.NewClient(ctx, cfg.GCP, cfg.PubSub, logg)
	requireResource(ctx, logg, "pubsub", err)
	defer pubsubClient.Close()

	registry := prometheus.NewRegistry()
	worker, err := datachanges.NewService(
		pubsubClient.DataChangedSubscription(),
		cache,
		metrics.NewEfficiencyMetrics(registry),
		logg,
	)
	requireResource(ctx, logg, "data changed consumer", err)

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	runCtx = logg.WithFields(runCtx, map[string]any{
		"serviceKind": cfg.Service.Kind,
		"env":         cfg.App.Env,
	})
	metricsServer := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(runCtx, "metrics server stopped unexpectedly", err)
		}
	}()
	defer metricsServer.Close()

	logg.Info(runCtx, "cache invalidator ready")

	if err := worker.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(runCtx, "cache invalidator not working", err)
		os.Exit(1)
	}
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
