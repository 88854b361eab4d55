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
	"github.com/robfig/cron/v3"

	"creativestudio/internal/bootstrap"
	"creativestudio/internal/http/handlers"
	"creativestudio/internal/infra"
	"creativestudio/internal/jobs"
	"creativestudio/internal/queue"
)

const sweepSchedule = "@every 1m"

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv, "worker")

	if cfg.StoreDriver == "memory" {
		logger.Fatal().Msg("worker: STORE_DRIVER=memory cannot share jobs with the api")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stores, err := bootstrap.OpenStores(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: failed to open stores")
	}
	defer stores.Close()

	blobs, err := bootstrap.OpenBlobs(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: failed to configure storage")
	}

	registry, metrics := bootstrap.NewMetrics()
	gen, err := bootstrap.NewGeneration(ctx, cfg, stores, metrics, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: failed to configure gemini")
	}
	orchestrator, err := bootstrap.NewOrchestrator(cfg, stores, blobs, gen, nil, metrics, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: failed to build orchestrator")
	}

	sweeper := jobs.NewSweeper(stores.Jobs, cfg.StaleJobAfter, metrics, &logger)
	scheduler := cron.New()
	if _, err := scheduler.AddFunc(sweepSchedule, func() {
		sweepCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		_, _ = sweeper.Sweep(sweepCtx)
	}); err != nil {
		logger.Fatal().Err(err).Msg("worker: failed to schedule stale sweep")
	}
	scheduler.Start()
	defer func() { <-scheduler.Stop().Done() }()

	metricsServer := &http.Server{
		Addr:              cfg.WorkerMetricsAddr,
		Handler:           handlers.MetricsHandler(registry),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("worker: metrics server failed")
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsServer.Shutdown(shutdownCtx)
	}()

	if !cfg.QueueEnabled() {
		logger.Info().Msg("worker: REDIS_ADDR not set, running the stale sweep only")
		<-ctx.Done()
		logger.Info().Msg("worker: stopped")
		return
	}

	rdb, err := infra.NewRedisClient(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: redis connection failed")
	}
	defer rdb.Close()

	consumer := queue.NewConsumer(rdb, queue.ConsumerConfig{
		Stream:   cfg.JobStream,
		Group:    cfg.JobGroup,
		Consumer: consumerName(),
	}, logger, orchestrator)
	if err := consumer.EnsureGroup(ctx); err != nil {
		logger.Fatal().Err(err).Msg("worker: failed to create consumer group")
	}

	logger.Info().Str("stream", cfg.JobStream).Str("group", cfg.JobGroup).Msg("worker: consuming jobs")
	if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error().Err(err).Msg("worker: consumer stopped with error")
	}
	logger.Info().Msg("worker: stopped")
}

func consumerName() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "worker"
	}
	return fmt.Sprintf("%s-%d", host, os.Getpid())
}
