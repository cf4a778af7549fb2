package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/carlosmendieta/modique-backend/internal/orders/consumer"
	"github.com/carlosmendieta/modique-backend/pkg/config"
	"github.com/carlosmendieta/modique-backend/pkg/instance"
	"github.com/carlosmendieta/modique-backend/pkg/logger"
	"github.com/carlosmendieta/modique-backend/pkg/metrics"
	"github.com/carlosmendieta/modique-backend/pkg/outbox/idempotency"
	"github.com/carlosmendieta/modique-backend/pkg/pubsub"
	"github.com/carlosmendieta/modique-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "orders-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	cfg.Service.Kind = "orders-worker"

	logg = logger.New(logger.Options{
		ServiceName: "orders-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis client", err)
		}
	}()

	pubsubClient, err := pubsub.NewClient(context.Background(), cfg.GCP, cfg.PubSub, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap pubsub", err)
		os.Exit(1)
	}
	defer func() {
		if err := pubsubClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing pubsub client", err)
		}
	}()

	subscription := pubsubClient.OrdersSubscription()
	if subscription == nil {
		logg.Error(context.Background(), "orders subscription not configured", errors.New("missing subscription"))
		os.Exit(1)
	}

	manager, err := idempotency.NewManager(redisClient, cfg.Idempotency.TTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create idempotency manager", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	eventMetrics := metrics.NewOrderEventsMetrics(registry)

	eventsConsumer, err := consumer.NewConsumer(subscription, manager, eventMetrics, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders consumer", err)
		os.Exit(1)
	}

	metricsServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Worker.MetricsPort),
		Handler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logg.Error(context.Background(), "metrics server stopped unexpectedly", err)
		}
	}()
	defer func() {
		_ = metricsServer.Close()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":         cfg.App.Env,
		"serviceKind": "orders-worker",
		"instance":    instance.GetID(),
	})
	logg.Info(ctx, "starting orders worker")

	if err := eventsConsumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "orders worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "orders worker shutting down gracefully")
}
