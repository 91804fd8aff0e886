package main

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/subtrackr/backend/internal/analytics"
	"github.com/subtrackr/backend/internal/cron"
	"github.com/subtrackr/backend/internal/notifications"
	"github.com/subtrackr/backend/internal/subscriptions"
	"github.com/subtrackr/backend/internal/users"
	"github.com/subtrackr/backend/pkg/config"
	"github.com/subtrackr/backend/pkg/db"
	"github.com/subtrackr/backend/pkg/logger"
	"github.com/subtrackr/backend/pkg/metrics"
	"github.com/subtrackr/backend/pkg/migrate"
	"github.com/subtrackr/backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "cron-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	cfg.Service.Kind = "cron-worker"

	logg = logger.New(logger.Options{
		ServiceName: "cron-worker",
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

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	metricsCollector := metrics.NewCronJobMetrics(prometheus.DefaultRegisterer)
	lock, err := cron.NewRedisLock(redisClient, redisClient.CronLockKey(), 0)
	if err != nil {
		logg.Error(context.Background(), "failed to create cron lock", err)
		os.Exit(1)
	}

	userRepo := users.NewRepository(dbClient.DB())
	subscriptionRepo := subscriptions.NewRepository(dbClient.DB())
	notificationRepo := notifications.NewRepository(dbClient.DB())
	snapshotRepo := analytics.NewSnapshotRepository(dbClient.DB())

	sweepJob, err := cron.NewExpirationSweepJob(cron.ExpirationSweepJobParams{
		Logger:        logg,
		Users:         userRepo,
		Subscriptions: subscriptionRepo,
		Notifications: notificationRepo,
		Metrics:       metricsCollector,
		ThresholdDays: cfg.Cron.SweepThresholdDays,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create expiration sweep job", err)
		os.Exit(1)
	}

	snapshotJob, err := cron.NewSpendSnapshotJob(cron.SpendSnapshotJobParams{
		Logger:        logg,
		Users:         userRepo,
		Subscriptions: subscriptionRepo,
		Snapshots:     snapshotRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create spend snapshot job", err)
		os.Exit(1)
	}

	cleanupJob, err := cron.NewNotificationCleanupJob(cron.NotificationCleanupJobParams{
		Logger:     logg,
		Repository: notificationRepo,
		Retention:  cfg.Cron.NotificationRetentionDays,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create notification cleanup job", err)
		os.Exit(1)
	}

	registry := cron.NewRegistry()
	registry.Register(sweepJob)
	registry.Register(snapshotJob)
	registry.Register(cleanupJob)

	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: registry,
		Lock:     lock,
		Metrics:  metricsCollector,
		Interval: cfg.Cron.Interval,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cron service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":         cfg.App.Env,
		"serviceKind": cfg.Service.Kind,
	})
	logg.Info(ctx, "starting cron worker")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "cron worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "cron worker shutting down gracefully")
}
