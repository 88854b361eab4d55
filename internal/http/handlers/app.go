package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"creativestudio/internal/domain"
	"creativestudio/internal/jobs"
)

// JobSubmitter creates jobs and schedules their background phase.
type JobSubmitter interface {
	Submit(ctx context.Context, req jobs.SubmitRequest) (*domain.Job, error)
}

type PromptEnhancer interface {
	Enhance(ctx context.Context, prompt string, style domain.Style) (string, error)
}

// ImageFetcher downloads remote images for import and export.
type ImageFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, string, error)
}

// KeyValidator checks a user supplied Gemini key with a minimal call.
type KeyValidator func(ctx context.Context, apiKey string) error

type App struct {
	Jobs      domain.JobRepository
	Assets    domain.AssetRepository
	Blobs     domain.BlobStore
	Submitter JobSubmitter
	Enhancer  PromptEnhancer
	Fetcher   ImageFetcher
	Validate  KeyValidator
	Logger    zerolog.Logger
	NewID     func() string
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, message string) {
	a.json(w, code, map[string]string{"error": message})
}

func (a *App) newID() string {
	if a.NewID != nil {
		return a.NewID()
	}
	return uuid.NewString()
}
