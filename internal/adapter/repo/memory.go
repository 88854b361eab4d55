package repo

import (
	"context"
	"sort"
	"sync"
	"time"

	"creativestudio/internal/domain"
)

// MemoryJobStore is an in-memory domain.JobRepository for development and
// tests. Records are copied on the way in and out.
type MemoryJobStore struct {
	mu   sync.RWMutex
	jobs map[string]*domain.Job
	now  func() time.Time
}

func NewMemoryJobStore() *MemoryJobStore {
	return &MemoryJobStore{
		jobs: make(map[string]*domain.Job),
		now:  func() time.Time { return time.Now().UTC() },
	}
}

func (s *MemoryJobStore) Create(ctx context.Context, job *domain.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if job.CreatedAt.IsZero() {
		job.CreatedAt = now
	}
	job.UpdatedAt = job.CreatedAt
	s.jobs[job.ID] = cloneJob(job)
	return nil
}

func (s *MemoryJobStore) UpdateProgress(ctx context.Context, jobID string, message *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[jobID]
	if !ok || job.Status != domain.JobStatusProcessing {
		return nil
	}
	job.ProgressMessage = cloneString(message)
	job.UpdatedAt = s.now()
	return nil
}

func (s *MemoryJobStore) Finalize(ctx context.Context, jobID string, result domain.JobResult) error {
	if err := domain.ValidateTransition(domain.JobStatusProcessing, result.Status); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[jobID]
	if !ok || job.Status != domain.JobStatusProcessing {
		return domain.ErrStaleWrite
	}
	if result.UpdatedAt.IsZero() {
		result.UpdatedAt = s.now()
	}
	result.Apply(job)
	job.PreviewURL = cloneString(job.PreviewURL)
	job.FinalURL = cloneString(job.FinalURL)
	return nil
}

func (s *MemoryJobStore) GetByID(ctx context.Context, jobID string) (*domain.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, ok := s.jobs[jobID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneJob(job), nil
}

func (s *MemoryJobStore) ListByDevice(ctx context.Context, deviceID string, limit int) ([]domain.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.Job
	for _, job := range s.jobs {
		if job.DeviceID == deviceID {
			out = append(out, *cloneJob(job))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryJobStore) FailStale(ctx context.Context, before time.Time, message string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for _, job := range s.jobs {
		if job.Status != domain.JobStatusProcessing || !job.UpdatedAt.Before(before) {
			continue
		}
		job.Status = domain.JobStatusFailed
		job.Error = &message
		job.ProgressMessage = nil
		job.UpdatedAt = s.now()
		n++
	}
	return n, nil
}

// MemoryAssetStore is an in-memory domain.AssetRepository.
type MemoryAssetStore struct {
	mu     sync.RWMutex
	assets map[string]domain.Asset
}

func NewMemoryAssetStore() *MemoryAssetStore {
	return &MemoryAssetStore{assets: make(map[string]domain.Asset)}
}

func (s *MemoryAssetStore) Create(ctx context.Context, asset *domain.Asset) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if asset.CreatedAt.IsZero() {
		asset.CreatedAt = time.Now().UTC()
	}
	s.assets[asset.ID] = *asset
	return nil
}

func (s *MemoryAssetStore) GetByID(ctx context.Context, assetID string) (*domain.Asset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	asset, ok := s.assets[assetID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &asset, nil
}

func cloneJob(job *domain.Job) *domain.Job {
	out := *job
	out.PreviewURL = cloneString(job.PreviewURL)
	out.FinalURL = cloneString(job.FinalURL)
	out.AssetID = cloneString(job.AssetID)
	out.ThoughtSignature = cloneString(job.ThoughtSignature)
	out.ProgressMessage = cloneString(job.ProgressMessage)
	out.Error = cloneString(job.Error)
	out.ConversationHistory = append([]domain.ConversationTurn{}, job.ConversationHistory...)
	if job.Settings.EditTools != nil {
		tools := *job.Settings.EditTools
		if tools.ColorSwap != nil {
			swap := *tools.ColorSwap
			tools.ColorSwap = &swap
		}
		out.Settings.EditTools = &tools
	}
	if job.Settings.Adjustments != nil {
		adj := *job.Settings.Adjustments
		out.Settings.Adjustments = &adj
	}
	return &out
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

var (
	_ domain.JobRepository   = (*MemoryJobStore)(nil)
	_ domain.AssetRepository = (*MemoryAssetStore)(nil)
)
