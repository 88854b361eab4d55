package poller

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"creativestudio/internal/domain"
)

const (
	DefaultInterval = 2 * time.Second

	MessageSuccess = "Image generated successfully!"
	MessageFailure = "Generation failed. Please try again."
)

// ErrPollCeiling is returned when MaxAttempts fetches did not reach a
// terminal status.
var ErrPollCeiling = errors.New("poller: attempt ceiling reached")

// Fetcher reads the current snapshot of a job.
type Fetcher interface {
	FetchJob(ctx context.Context, jobID string) (*domain.Job, error)
}

// Clock schedules the delay between fetches.
type Clock interface {
	After(d time.Duration) <-chan time.Time
}

type realClock struct{}

func (realClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// Outcome is the terminal result of a polling loop.
type Outcome struct {
	Job     *domain.Job
	Success bool
	Message string
}

// Poller repeatedly fetches a job until it is done or failed.
type Poller struct {
	Fetcher Fetcher
	// Interval defaults to DefaultInterval.
	Interval time.Duration
	// MaxAttempts of zero polls until the context ends.
	MaxAttempts int
	Clock       Clock
	// OnError sees fetch errors; they count as attempts and polling goes on.
	OnError func(error)
}

// Poll fetches jobID, reports every snapshot to onUpdate and stops on a
// terminal status, context cancellation or the attempt ceiling.
func (p *Poller) Poll(ctx context.Context, jobID string, onUpdate func(*domain.Job)) (Outcome, error) {
	interval := p.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	clock := p.Clock
	if clock == nil {
		clock = realClock{}
	}

	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return Outcome{}, err
		}
		job, err := p.Fetcher.FetchJob(ctx, jobID)
		switch {
		case err != nil:
			if ctx.Err() != nil {
				return Outcome{}, ctx.Err()
			}
			if p.OnError != nil {
				p.OnError(err)
			}
		default:
			if onUpdate != nil {
				onUpdate(job)
			}
			if job.Status.IsTerminal() {
				return outcomeFor(job), nil
			}
		}

		if p.MaxAttempts > 0 && attempt >= p.MaxAttempts {
			return Outcome{}, fmt.Errorf("%w: job %s after %d attempts", ErrPollCeiling, jobID, attempt)
		}
		select {
		case <-ctx.Done():
			return Outcome{}, ctx.Err()
		case <-clock.After(interval):
		}
	}
}

func outcomeFor(job *domain.Job) Outcome {
	if job.Status == domain.JobStatusDone {
		return Outcome{Job: job, Success: true, Message: MessageSuccess}
	}
	return Outcome{Job: job, Message: MessageFailure}
}

// Tracker keeps at most one polling loop alive. Starting a new loop cancels
// the previous one and silences its updates.
type Tracker struct {
	poller *Poller

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
}

func NewTracker(p *Poller) *Tracker {
	return &Tracker{poller: p}
}

// Track polls jobID, superseding any loop started earlier.
func (t *Tracker) Track(ctx context.Context, jobID string, onUpdate func(*domain.Job)) (Outcome, error) {
	ctx, cancel := context.WithCancel(ctx)
	t.mu.Lock()
	if t.cancel != nil {
		t.cancel()
	}
	t.gen++
	gen := t.gen
	t.cancel = cancel
	t.mu.Unlock()

	defer func() {
		t.mu.Lock()
		if t.gen == gen {
			t.cancel = nil
		}
		t.mu.Unlock()
		cancel()
	}()

	return t.poller.Poll(ctx, jobID, func(job *domain.Job) {
		t.mu.Lock()
		current := t.gen == gen
		t.mu.Unlock()
		if current && onUpdate != nil {
			onUpdate(job)
		}
	})
}

// Stop cancels the active loop, if any.
func (t *Tracker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
}
