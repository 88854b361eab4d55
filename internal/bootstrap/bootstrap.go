// Package bootstrap wires configuration into the runtime components shared
// by the api and worker binaries.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"creativestudio/internal/adapter/repo"
	"creativestudio/internal/assets"
	"creativestudio/internal/domain"
	"creativestudio/internal/infra"
	"creativestudio/internal/infra/credentials"
	"creativestudio/internal/jobs"
	"creativestudio/internal/providers/genai"
	"creativestudio/internal/storage"
)

// Stores groups the persistence adapters selected by STORE_DRIVER.
type Stores struct {
	Jobs        domain.JobRepository
	Assets      domain.AssetRepository
	Credentials *credentials.Store
	pool        *pgxpool.Pool
}

func (s *Stores) Close() {
	if s != nil && s.pool != nil {
		s.pool.Close()
	}
}

func OpenStores(ctx context.Context, cfg *infra.Config, logger infra.Logger) (*Stores, error) {
	if cfg.StoreDriver == "memory" {
		logger.Warn().Msg("bootstrap: using in-memory stores, jobs are lost on restart")
		return &Stores{Jobs: repo.NewMemoryJobStore(), Assets: repo.NewMemoryAssetStore()}, nil
	}
	pool, err := infra.NewDBPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	runner := infra.NewSQLRunner(pool, logger)
	return &Stores{
		Jobs:        repo.NewJobRepository(runner),
		Assets:      repo.NewAssetRepository(runner),
		Credentials: credentials.NewStore(runner),
		pool:        pool,
	}, nil
}

// Blobs is the configured BlobStore plus the local directory to serve under
// /static, empty for object storage.
type Blobs struct {
	Store     domain.BlobStore
	StaticDir string
}

func OpenBlobs(ctx context.Context, cfg *infra.Config) (*Blobs, error) {
	if cfg.StorageDriver == "minio" {
		store, err := storage.NewObjectStore(storage.ObjectStoreConfig{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			Bucket:    cfg.MinioBucket,
			Region:    cfg.MinioRegion,
			UseSSL:    cfg.MinioUseSSL,
			PublicURL: cfg.MinioPublicURL,
		})
		if err != nil {
			return nil, err
		}
		if err := store.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return &Blobs{Store: store}, nil
	}

	path := cfg.StoragePath
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	store, err := storage.NewFileStore(path, cfg.StorageBaseURL)
	if err != nil {
		return nil, err
	}
	return &Blobs{Store: store, StaticDir: store.BasePath()}, nil
}

// Generation holds the model side of the pipeline.
type Generation struct {
	Executor *genai.Executor
	Factory  genai.GeneratorFactory
	// Shared is nil when no service key is configured.
	Shared genai.Generator
}

func NewGeneration(ctx context.Context, cfg *infra.Config, stores *Stores, metrics *jobs.Metrics, logger infra.Logger) (*Generation, error) {
	opts := genai.Options{
		BaseURL:    cfg.GeminiBaseURL,
		HTTPClient: &http.Client{Timeout: 5 * time.Minute},
		Logger:     &logger,
	}
	factory := genai.Factory(opts)

	key, err := credentials.ResolveGeminiKey(ctx, cfg.GeminiAPIKey, stores.Credentials)
	if err != nil {
		logger.Warn().Err(err).Msg("bootstrap: failed to load gemini key from store")
	}
	var shared genai.Generator
	if key != "" {
		shared, err = factory(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("bootstrap: shared gemini client: %w", err)
		}
	} else {
		logger.Warn().Msg("bootstrap: GEMINI_API_KEY missing, only requests with their own key can generate")
	}

	executor := genai.NewExecutor(genai.ExecutorOptions{
		Shared:       shared,
		NewGenerator: factory,
		Logger:       &logger,
		OnFallback:   metrics.Fallback,
		Timeout:      cfg.GenerationTimeout,
	})
	return &Generation{Executor: executor, Factory: factory, Shared: shared}, nil
}

// NewOrchestrator builds the job orchestrator over the given stores.
func NewOrchestrator(cfg *infra.Config, stores *Stores, blobs *Blobs, gen *Generation, dispatcher jobs.Dispatcher, metrics *jobs.Metrics, logger infra.Logger) (*jobs.Orchestrator, error) {
	if stores == nil || blobs == nil || gen == nil {
		return nil, errors.New("bootstrap: stores, blobs and generation are required")
	}
	return jobs.NewOrchestrator(jobs.Options{
		Jobs:       stores.Jobs,
		Assets:     stores.Assets,
		Blobs:      blobs.Store,
		Resolver:   assets.NewResolver(nil, &logger),
		Executor:   gen.Executor,
		Dispatcher: dispatcher,
		Model:      cfg.GeminiImageModel,
		Metrics:    metrics,
		Logger:     &logger,
	})
}

// NewMetrics registers the job metrics plus the Go and process collectors
// on a fresh registry.
func NewMetrics() (*prometheus.Registry, *jobs.Metrics) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg, jobs.NewMetrics(reg)
}
