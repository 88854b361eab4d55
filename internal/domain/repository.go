package domain

import (
	"context"
	"time"
)

// JobRepository is the persistence boundary for jobs. After Create only the
// orchestrator writes a given job.
type JobRepository interface {
	Create(ctx context.Context, job *Job) error
	UpdateProgress(ctx context.Context, jobID string, message *string) error
	// Finalize writes every result field in one update. It returns
	// ErrStaleWrite when the job has already left the processing state.
	Finalize(ctx context.Context, jobID string, result JobResult) error
	GetByID(ctx context.Context, jobID string) (*Job, error)
	// ListByDevice returns at most limit jobs, newest first.
	ListByDevice(ctx context.Context, deviceID string, limit int) ([]Job, error)
	// FailStale marks processing jobs not updated since before as failed.
	FailStale(ctx context.Context, before time.Time, message string) (int64, error)
}

// AssetRepository handles persistence for uploaded source images.
type AssetRepository interface {
	Create(ctx context.Context, asset *Asset) error
	GetByID(ctx context.Context, assetID string) (*Asset, error)
}

// BlobStore persists bytes under a path and returns their public URL.
type BlobStore interface {
	Put(ctx context.Context, path string, data []byte, contentType string) (string, error)
}
