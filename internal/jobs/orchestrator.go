package jobs

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"creativestudio/internal/assets"
	"creativestudio/internal/domain"
	"creativestudio/internal/infra"
	"creativestudio/internal/providers/genai"
)

// SourceResolver turns a stored asset URL into an inline image, or nil.
type SourceResolver interface {
	Resolve(ctx context.Context, url, mimeHint string) *domain.InlineImage
}

// GenerationExecutor runs one generation request with optional override key.
type GenerationExecutor interface {
	Execute(ctx context.Context, req genai.Request, override string, notify func(error)) (*genai.Response, error)
}

type Options struct {
	Jobs     domain.JobRepository
	Assets   domain.AssetRepository
	Blobs    domain.BlobStore
	Resolver SourceResolver
	Executor GenerationExecutor
	// Dispatcher is optional; without one every task runs in process.
	Dispatcher Dispatcher
	Model      string
	Metrics    *Metrics
	Logger     *infra.Logger
	NewID      func() string
	Now        func() time.Time
}

// Orchestrator creates jobs and drives each through its background phase.
// It is the only writer of a job after creation.
type Orchestrator struct {
	jobs       domain.JobRepository
	assets     domain.AssetRepository
	blobs      domain.BlobStore
	resolver   SourceResolver
	executor   GenerationExecutor
	dispatcher Dispatcher
	model      string
	metrics    *Metrics
	logger     zerolog.Logger
	newID      func() string
	now        func() time.Time

	wg sync.WaitGroup
}

func NewOrchestrator(opts Options) (*Orchestrator, error) {
	if opts.Jobs == nil {
		return nil, errors.New("jobs: job repository is required")
	}
	if opts.Executor == nil {
		return nil, errors.New("jobs: executor is required")
	}
	if opts.Blobs == nil {
		return nil, errors.New("jobs: blob store is required")
	}
	o := &Orchestrator{
		jobs:       opts.Jobs,
		assets:     opts.Assets,
		blobs:      opts.Blobs,
		resolver:   opts.Resolver,
		executor:   opts.Executor,
		dispatcher: opts.Dispatcher,
		model:      opts.Model,
		metrics:    opts.Metrics,
		logger:     zerolog.Nop(),
		newID:      opts.NewID,
		now:        opts.Now,
	}
	if opts.Logger != nil {
		o.logger = *opts.Logger
	}
	if o.newID == nil {
		o.newID = uuid.NewString
	}
	if o.now == nil {
		o.now = func() time.Time { return time.Now().UTC() }
	}
	return o, nil
}

// Submit validates the request, records a processing job and starts its
// background phase. It returns as soon as the job is stored.
func (o *Orchestrator) Submit(ctx context.Context, req SubmitRequest) (*domain.Job, error) {
	if strings.TrimSpace(req.Prompt) == "" || strings.TrimSpace(req.DeviceID) == "" {
		return nil, domain.ErrMissingFields
	}

	settings := domain.GenerationSettings{}
	if req.Settings != nil {
		settings = *req.Settings
	}
	if req.IsHD {
		settings = settings.WithImageSize(domain.ImageSizeHD)
	}
	history := req.ConversationHistory
	if history == nil {
		history = []domain.ConversationTurn{}
	}
	original := req.OriginalPrompt
	if original == "" {
		original = req.Prompt
	}

	job := &domain.Job{
		ID:                  o.newID(),
		DeviceID:            req.DeviceID,
		Status:              domain.JobStatusProcessing,
		OriginalPrompt:      original,
		EnhancedPrompt:      req.Prompt,
		AssetID:             domain.StringPtr(req.AssetID),
		Settings:            settings,
		ThoughtSignature:    domain.StringPtr(req.ThoughtSignature),
		ConversationHistory: history,
		ProgressMessage:     domain.StringPtr(domain.ProgressAnalyzing),
		CreatedAt:           o.now(),
	}
	if err := o.jobs.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}
	o.metrics.Submitted()
	o.logger.Info().
		Str("job_id", job.ID).
		Str("device_id", job.DeviceID).
		Bool("hd", req.IsHD).
		Bool("tool", req.IsToolOperation).
		Msg("jobs: submitted")

	o.dispatch(ctx, Task{
		JobID:              job.ID,
		Prompt:             req.Prompt,
		AssetID:            req.AssetID,
		Settings:           settings,
		History:            history,
		ThoughtSignature:   req.ThoughtSignature,
		IsHD:               req.IsHD,
		CredentialOverride: strings.TrimSpace(req.CredentialOverride),
	})
	return job, nil
}

func (o *Orchestrator) dispatch(ctx context.Context, task Task) {
	if task.CredentialOverride == "" && o.dispatcher != nil {
		err := o.dispatcher.Dispatch(ctx, task)
		if err == nil {
			return
		}
		o.logger.Warn().Err(err).Str("job_id", task.JobID).Msg("jobs: dispatch failed; running in process")
	}

	bg := context.WithoutCancel(ctx)
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		o.Process(bg, task)
	}()
}

// Wait blocks until every in-process background phase has returned.
func (o *Orchestrator) Wait() {
	o.wg.Wait()
}

type generation struct {
	sourceURL        string
	imageURL         string
	text             string
	thoughtSignature string
}

// Process runs the background phase of one job and writes its terminal
// state. Failures end up on the job record, never in the return path.
func (o *Orchestrator) Process(ctx context.Context, task Task) {
	start := time.Now()
	logger := o.logger.With().Str("job_id", task.JobID).Logger()

	// Redelivered tasks must not regenerate or overwrite a finished image.
	current, err := o.jobs.GetByID(ctx, task.JobID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		logger.Warn().Msg("jobs: task for unknown job; skipped")
		return
	case err != nil:
		logger.Warn().Err(err).Msg("jobs: job lookup failed; processing anyway")
	case current.Status.IsTerminal():
		logger.Info().Str("status", string(current.Status)).Msg("jobs: job already terminal; task skipped")
		return
	}

	gen := &generation{thoughtSignature: task.ThoughtSignature}
	err = o.generate(ctx, task, gen, logger)
	history := domain.AppendTurn(task.History, domain.ConversationTurn{
		Role:     domain.RoleUser,
		Content:  task.Prompt,
		ImageURL: gen.sourceURL,
	})

	result := domain.JobResult{
		ThoughtSignature: domain.StringPtr(gen.thoughtSignature),
		UpdatedAt:        o.now(),
	}
	switch {
	case err != nil:
		msg := genai.ErrorMessage(err)
		if errors.Is(err, context.DeadlineExceeded) {
			msg = domain.ErrMsgTimedOut
		}
		logger.Error().Err(err).Msg("jobs: generation failed")
		result.Status = domain.JobStatusFailed
		result.Error = &msg
	case gen.imageURL != "":
		if gen.text != "" {
			history = domain.AppendTurn(history, domain.ConversationTurn{
				Role:     domain.RoleModel,
				Content:  gen.text,
				ImageURL: gen.imageURL,
			})
		}
		result.Status = domain.JobStatusDone
		result.ImageURL = domain.StringPtr(gen.imageURL)
		result.ProgressMessage = domain.StringPtr(domain.ProgressComplete)
	default:
		logger.Warn().Msg("jobs: provider returned no image")
		result.Status = domain.JobStatusFailed
		result.Error = domain.StringPtr(domain.ErrMsgGenerationFailed)
	}
	result.ConversationHistory = history

	if err := o.jobs.Finalize(ctx, task.JobID, result); err != nil {
		if errors.Is(err, domain.ErrStaleWrite) {
			logger.Warn().Msg("jobs: job already terminal; result dropped")
		} else {
			logger.Error().Err(err).Msg("jobs: finalize failed")
		}
		return
	}
	o.metrics.Completed(result.Status, time.Since(start))
	logger.Info().Str("status", string(result.Status)).Dur("elapsed", time.Since(start)).Msg("jobs: finished")
}

func (o *Orchestrator) generate(ctx context.Context, task Task, gen *generation, logger zerolog.Logger) error {
	o.progress(ctx, task.JobID, domain.ProgressEnhancing, logger)

	var image *domain.InlineImage
	if task.AssetID != "" {
		o.progress(ctx, task.JobID, domain.ProgressLoadingSource, logger)
		image = o.loadSource(ctx, task.AssetID, gen, logger)
	}

	req := genai.Build(o.model, task.Prompt, image, task.Settings, task.IsHD)
	o.progress(ctx, task.JobID, domain.ProgressGenerating, logger)

	resp, err := o.executor.Execute(ctx, req, task.CredentialOverride, func(err error) {
		logger.Warn().Err(err).Msg("jobs: override credential failed; using shared credential")
		o.progress(ctx, task.JobID, domain.ProgressFallback, logger)
	})
	if err != nil {
		return err
	}

	// Text parts overwrite each other; the first uploaded image is kept.
	for _, part := range resp.Parts {
		switch part.Kind {
		case genai.PartText:
			gen.text = strings.TrimSpace(part.Text)
		case genai.PartInlineImage:
			if gen.imageURL != "" || part.Image == nil {
				continue
			}
			o.progress(ctx, task.JobID, domain.ProgressFinishing, logger)
			url, err := o.upload(ctx, task.JobID, part.Image)
			if err != nil {
				logger.Error().Err(err).Msg("jobs: upload generated image failed")
				continue
			}
			gen.imageURL = url
		case genai.PartContinuityToken:
			gen.thoughtSignature = part.Text
		}
	}
	if gen.text == "" {
		gen.text = strings.TrimSpace(resp.Text)
	}
	return nil
}

func (o *Orchestrator) loadSource(ctx context.Context, assetID string, gen *generation, logger zerolog.Logger) *domain.InlineImage {
	if o.assets == nil {
		return nil
	}
	asset, err := o.assets.GetByID(ctx, assetID)
	if err != nil {
		logger.Warn().Err(err).Str("asset_id", assetID).Msg("jobs: source asset lookup failed; continuing text-only")
		return nil
	}
	if asset.URL == "" {
		return nil
	}
	gen.sourceURL = asset.URL
	if o.resolver == nil {
		return nil
	}
	image := o.resolver.Resolve(ctx, asset.URL, asset.MimeType)
	if image == nil {
		logger.Warn().Str("asset_id", assetID).Msg("jobs: source image unavailable; continuing text-only")
	}
	return image
}

func (o *Orchestrator) upload(ctx context.Context, jobID string, image *domain.InlineImage) (string, error) {
	data, err := base64.StdEncoding.DecodeString(image.Data)
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}
	mime := image.MimeType
	if mime == "" {
		mime = "image/png"
	}
	key := fmt.Sprintf("generated/%s.%s", jobID, assets.ExtensionForMime(mime))
	return o.blobs.Put(ctx, key, data, mime)
}

// progress is best effort; a failed write never fails the job.
func (o *Orchestrator) progress(ctx context.Context, jobID, message string, logger zerolog.Logger) {
	if err := o.jobs.UpdateProgress(ctx, jobID, &message); err != nil {
		logger.Warn().Err(err).Str("progress", message).Msg("jobs: progress update failed")
	}
}
