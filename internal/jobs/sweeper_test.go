package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"creativestudio/internal/adapter/repo"
	"creativestudio/internal/domain"
)

func TestSweeperFailsStaleJobs(t *testing.T) {
	store := repo.NewMemoryJobStore()
	ctx := context.Background()
	_ = store.Create(ctx, &domain.Job{ID: "old", Status: domain.JobStatusProcessing, CreatedAt: time.Now().Add(-time.Hour)})
	_ = store.Create(ctx, &domain.Job{ID: "new", Status: domain.JobStatusProcessing})

	metrics := NewMetrics(prometheus.NewRegistry())
	sweeper := NewSweeper(store, 15*time.Minute, metrics, nil)

	n, err := sweeper.Sweep(ctx)
	if err != nil {
		t.Fatalf("Sweep returned error: %v", err)
	}
	if n != 1 {
		t.Fatalf("Sweep = %d, want 1", n)
	}
	old, _ := store.GetByID(ctx, "old")
	if old.Status != domain.JobStatusFailed || domain.Deref(old.Error) != domain.ErrMsgTimedOut {
		t.Fatalf("old job = %+v", old)
	}
	if got := testutil.ToFloat64(metrics.swept); got != 1 {
		t.Fatalf("swept metric = %v, want 1", got)
	}
}

func TestMetricsNilSafe(t *testing.T) {
	var m *Metrics
	m.Submitted()
	m.Completed(domain.JobStatusDone, time.Second)
	m.Fallback(nil)
	m.Swept(3)
}

func TestMetricsCompleted(t *testing.T) {
	m := NewMetrics(nil)
	m.Completed(domain.JobStatusDone, time.Second)
	m.Completed(domain.JobStatusFailed, time.Second)
	m.Completed(domain.JobStatusDone, 2*time.Second)
	if got := testutil.ToFloat64(m.completed.WithLabelValues("done")); got != 2 {
		t.Fatalf("done = %v, want 2", got)
	}
}
