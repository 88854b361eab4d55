package jobs

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"creativestudio/internal/domain"
	"creativestudio/internal/infra"
)

// DefaultStaleAfter matches STALE_JOB_AFTER_MINUTES.
const DefaultStaleAfter = 15 * time.Minute

// Sweeper fails jobs left in processing after their worker disappeared.
type Sweeper struct {
	jobs    domain.JobRepository
	after   time.Duration
	metrics *Metrics
	logger  zerolog.Logger
	now     func() time.Time
}

func NewSweeper(jobs domain.JobRepository, after time.Duration, metrics *Metrics, logger *infra.Logger) *Sweeper {
	if after <= 0 {
		after = DefaultStaleAfter
	}
	s := &Sweeper{
		jobs:    jobs,
		after:   after,
		metrics: metrics,
		logger:  zerolog.Nop(),
		now:     func() time.Time { return time.Now().UTC() },
	}
	if logger != nil {
		s.logger = *logger
	}
	return s
}

// Sweep marks stale processing jobs as timed out and returns how many.
func (s *Sweeper) Sweep(ctx context.Context) (int64, error) {
	n, err := s.jobs.FailStale(ctx, s.now().Add(-s.after), domain.ErrMsgTimedOut)
	if err != nil {
		s.logger.Error().Err(err).Msg("jobs: stale sweep failed")
		return 0, err
	}
	if n > 0 {
		s.metrics.Swept(n)
		s.logger.Warn().Int64("jobs", n).Msg("jobs: failed stale jobs")
	}
	return n, nil
}
