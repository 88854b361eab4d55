package studio

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"creativestudio/internal/domain"
	"creativestudio/internal/infra"
	"creativestudio/internal/poller"
)

// ErrNothingToRepeat is returned by GenerateHD and Retry before any
// generation has happened.
var ErrNothingToRepeat = errors.New("studio: no previous generation")

// API is the subset of the HTTP API a session drives.
type API interface {
	Submit(ctx context.Context, in SubmitInput) (*domain.Job, error)
	Enhance(ctx context.Context, prompt string, style domain.Style) (string, error)
}

// JobTracker follows one job at a time until it is terminal.
type JobTracker interface {
	Track(ctx context.Context, jobID string, onUpdate func(*domain.Job)) (poller.Outcome, error)
}

type SessionOptions struct {
	API      API
	Tracker  JobTracker
	DeviceID string
	// APIKeyOverride is sent with every submission when set.
	APIKeyOverride string
	// OnUpdate sees every job snapshot, including the submitted one.
	OnUpdate func(*domain.Job)
	Logger   *infra.Logger
}

// GenerateInput is one user generation request.
type GenerateInput struct {
	Prompt          string
	Settings        domain.GenerationSettings
	AssetID         string
	IsHD            bool
	IsToolOperation bool
}

// Session mirrors the interactive studio flow: it carries the current job's
// conversation context into the next submission, keeps an undo stack of
// finished jobs and remembers the last inputs for HD regeneration and retry.
type Session struct {
	api      API
	tracker  JobTracker
	deviceID string
	override string
	onUpdate func(*domain.Job)
	logger   zerolog.Logger

	mu      sync.Mutex
	current *domain.Job
	last    *GenerateInput
	// done holds finished jobs in completion order; cursor indexes the one
	// being shown, or -1.
	done   []*domain.Job
	cursor int
}

func NewSession(opts SessionOptions) (*Session, error) {
	if opts.API == nil || opts.Tracker == nil {
		return nil, errors.New("studio: api and tracker are required")
	}
	if strings.TrimSpace(opts.DeviceID) == "" {
		return nil, errors.New("studio: device id is required")
	}
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	return &Session{
		api:      opts.API,
		tracker:  opts.Tracker,
		deviceID: opts.DeviceID,
		override: strings.TrimSpace(opts.APIKeyOverride),
		onUpdate: opts.OnUpdate,
		logger:   logger,
		cursor:   -1,
	}, nil
}

// Current returns the job currently shown, if any.
func (s *Session) Current() *domain.Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Select makes job the current one, so the next submission continues its
// conversation.
func (s *Session) Select(job *domain.Job) {
	s.mu.Lock()
	s.current = job
	s.mu.Unlock()
}

// Generate submits a job and polls it to completion.
func (s *Session) Generate(ctx context.Context, in GenerateInput) (poller.Outcome, error) {
	s.mu.Lock()
	remembered := in
	s.last = &remembered
	current := s.current
	s.mu.Unlock()

	finalPrompt := in.Prompt
	if !in.IsToolOperation && in.AssetID == "" {
		enhanced, err := s.api.Enhance(ctx, in.Prompt, in.Settings.Style)
		switch {
		case err != nil:
			s.logger.Warn().Err(err).Msg("studio: enhancement failed, using prompt as is")
		case strings.TrimSpace(enhanced) != "":
			finalPrompt = enhanced
		}
	}

	settings := in.Settings
	submit := SubmitInput{
		Prompt:          finalPrompt,
		OriginalPrompt:  in.Prompt,
		AssetID:         in.AssetID,
		Settings:        &settings,
		DeviceID:        s.deviceID,
		IsHD:            in.IsHD,
		IsToolOperation: in.IsToolOperation,
		APIKeyOverride:  s.override,
	}
	if current != nil {
		submit.ConversationHistory = current.ConversationHistory
		submit.ThoughtSignature = domain.Deref(current.ThoughtSignature)
	}

	job, err := s.api.Submit(ctx, submit)
	if err != nil {
		return poller.Outcome{}, fmt.Errorf("studio: submit: %w", err)
	}
	s.setCurrent(job)

	outcome, err := s.tracker.Track(ctx, job.ID, s.setCurrent)
	if err != nil {
		return poller.Outcome{}, err
	}
	return outcome, nil
}

// GenerateHD repeats the last generation, or the current job's inputs, at
// the HD tier.
func (s *Session) GenerateHD(ctx context.Context) (poller.Outcome, error) {
	s.mu.Lock()
	var in GenerateInput
	switch {
	case s.last != nil:
		in = *s.last
	case s.current != nil && s.current.OriginalPrompt != "":
		in = GenerateInput{
			Prompt:   s.current.OriginalPrompt,
			Settings: s.current.Settings,
			AssetID:  domain.Deref(s.current.AssetID),
		}
	default:
		s.mu.Unlock()
		return poller.Outcome{}, ErrNothingToRepeat
	}
	s.mu.Unlock()

	in.Settings = in.Settings.WithImageSize(domain.ImageSizeHD)
	in.IsHD = true
	in.IsToolOperation = false
	return s.Generate(ctx, in)
}

// Retry repeats the last generation at the 1K tier.
func (s *Session) Retry(ctx context.Context) (poller.Outcome, error) {
	s.mu.Lock()
	if s.last == nil {
		s.mu.Unlock()
		return poller.Outcome{}, ErrNothingToRepeat
	}
	in := *s.last
	s.mu.Unlock()

	in.Settings = in.Settings.WithImageSize(domain.ImageSize1K)
	in.IsHD = false
	in.IsToolOperation = false
	return s.Generate(ctx, in)
}

// Undo steps back to the previously finished job. The next Generate
// continues from that job's conversation.
func (s *Session) Undo() (*domain.Job, bool) {
	return s.step(-1)
}

// Redo moves forward again after Undo.
func (s *Session) Redo() (*domain.Job, bool) {
	return s.step(1)
}

func (s *Session) CanUndo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor > 0
}

func (s *Session) CanRedo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor >= 0 && s.cursor < len(s.done)-1
}

func (s *Session) step(delta int) (*domain.Job, bool) {
	s.mu.Lock()
	next := s.cursor + delta
	if s.cursor < 0 || next < 0 || next >= len(s.done) {
		s.mu.Unlock()
		return nil, false
	}
	s.cursor = next
	job := s.done[next]
	s.current = job
	s.mu.Unlock()
	if s.onUpdate != nil {
		s.onUpdate(job)
	}
	return job, true
}

// setCurrent records a job snapshot. A newly finished job is pushed onto
// the undo stack and drops anything that was undone before it.
func (s *Session) setCurrent(job *domain.Job) {
	s.mu.Lock()
	s.current = job
	if job != nil && job.Status == domain.JobStatusDone &&
		(s.cursor < 0 || s.done[s.cursor].ID != job.ID) {
		s.done = append(s.done[:s.cursor+1], job)
		s.cursor = len(s.done) - 1
	}
	s.mu.Unlock()
	if s.onUpdate != nil {
		s.onUpdate(job)
	}
}
