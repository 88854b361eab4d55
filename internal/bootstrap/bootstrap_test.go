package bootstrap

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"creativestudio/internal/infra"
	"creativestudio/internal/jobs"
	"creativestudio/internal/providers/genai"
	"creativestudio/internal/storage"
)

func TestMemoryWiring(t *testing.T) {
	ctx := context.Background()
	cfg := &infra.Config{
		StoreDriver:      "memory",
		StorageDriver:    "filesystem",
		StoragePath:      t.TempDir(),
		StorageBaseURL:   "http://localhost:8080/static",
		GeminiImageModel: genai.DefaultImageModel,
	}
	logger := zerolog.Nop()

	stores, err := OpenStores(ctx, cfg, logger)
	if err != nil {
		t.Fatalf("OpenStores: %v", err)
	}
	defer stores.Close()
	if stores.Credentials != nil {
		t.Fatal("memory driver should not have a credential store")
	}

	blobs, err := OpenBlobs(ctx, cfg)
	if err != nil {
		t.Fatalf("OpenBlobs: %v", err)
	}
	if _, ok := blobs.Store.(*storage.FileStore); !ok || blobs.StaticDir == "" {
		t.Fatalf("blobs = %+v", blobs)
	}

	_, metrics := NewMetrics()
	gen, err := NewGeneration(ctx, cfg, stores, metrics, logger)
	if err != nil {
		t.Fatalf("NewGeneration: %v", err)
	}
	if gen.Shared != nil {
		t.Fatal("shared generator built without a key")
	}
	_, err = gen.Executor.Execute(ctx, genai.PingRequest(), "", nil)
	if !errors.Is(err, genai.ErrNotConfigured) {
		t.Fatalf("Execute without key = %v", err)
	}

	orch, err := NewOrchestrator(cfg, stores, blobs, gen, nil, metrics, logger)
	if err != nil || orch == nil {
		t.Fatalf("NewOrchestrator = %v, %v", orch, err)
	}
	if _, err := orch.Submit(ctx, jobs.SubmitRequest{}); err == nil {
		t.Fatal("empty submission accepted")
	}
}
