package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"creativestudio/internal/assets"
	"creativestudio/internal/bootstrap"
	"creativestudio/internal/http/handlers"
	httpapi "creativestudio/internal/http/httpapi"
	"creativestudio/internal/infra"
	"creativestudio/internal/jobs"
	"creativestudio/internal/providers/genai"
	"creativestudio/internal/providers/prompt"
	"creativestudio/internal/queue"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv, "api")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stores, err := bootstrap.OpenStores(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("api: failed to open stores")
	}
	defer stores.Close()

	blobs, err := bootstrap.OpenBlobs(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("api: failed to configure storage")
	}

	registry, metrics := bootstrap.NewMetrics()
	gen, err := bootstrap.NewGeneration(ctx, cfg, stores, metrics, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("api: failed to configure gemini")
	}

	var dispatcher jobs.Dispatcher
	if cfg.QueueEnabled() && cfg.StoreDriver != "memory" {
		rdb, err := infra.NewRedisClient(ctx, cfg)
		if err != nil {
			logger.Fatal().Err(err).Msg("api: redis connection failed")
		}
		defer rdb.Close()
		dispatcher = queue.NewStreamDispatcher(rdb, cfg.JobStream)
		logger.Info().Str("stream", cfg.JobStream).Msg("api: dispatching jobs to redis")
	}

	orchestrator, err := bootstrap.NewOrchestrator(cfg, stores, blobs, gen, dispatcher, metrics, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("api: failed to build orchestrator")
	}

	app := &handlers.App{
		Jobs:      stores.Jobs,
		Assets:    stores.Assets,
		Blobs:     blobs.Store,
		Submitter: orchestrator,
		Fetcher:   assets.NewResolver(nil, &logger),
		Validate: func(ctx context.Context, apiKey string) error {
			return genai.Validate(ctx, gen.Factory, apiKey)
		},
		Logger: logger,
	}
	if gen.Shared != nil {
		enhancer, err := prompt.NewEnhancer(prompt.Options{Generator: gen.Shared, Logger: &logger})
		if err != nil {
			logger.Fatal().Err(err).Msg("api: failed to build enhancer")
		}
		app.Enhancer = enhancer
	} else {
		app.Enhancer = unavailableEnhancer{}
	}

	router := httpapi.NewRouter(app, httpapi.Options{
		Logger:          logger,
		AllowedOrigins:  cfg.CORSAllowedOrigins,
		RateLimitPerMin: cfg.RateLimitPerMin,
		Metrics:         handlers.MetricsHandler(registry),
		StaticDir:       blobs.StaticDir,
	})
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Str("addr", server.Addr()).Msg("api: listening")
		if err := server.Start(); err != nil {
			logger.Fatal().Err(err).Msg("api: http server failed")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("api: shutdown failed")
	}
	// In-process generations finish or fail on their own timeout.
	orchestrator.Wait()
	logger.Info().Msg("api: stopped")
}
