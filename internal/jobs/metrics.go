package jobs

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"creativestudio/internal/domain"
)

// Metrics records job lifecycle counters. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	submitted prometheus.Counter
	completed *prometheus.CounterVec
	fallbacks prometheus.Counter
	swept     prometheus.Counter
	duration  *prometheus.HistogramVec
}

// NewMetrics creates the job collectors and registers them with reg when
// it is non-nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		submitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "studio",
			Name:      "jobs_submitted_total",
			Help:      "Generation jobs accepted by the API",
		}),
		completed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "studio",
			Name:      "jobs_completed_total",
			Help:      "Generation jobs that reached a terminal status",
		}, []string{"status"}),
		fallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "studio",
			Name:      "credential_fallbacks_total",
			Help:      "Override credentials that failed and were retried with the shared key",
		}),
		swept: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "studio",
			Name:      "jobs_timed_out_total",
			Help:      "Processing jobs failed by the stale job sweep",
		}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "studio",
			Name:      "job_duration_seconds",
			Help:      "Background phase duration by terminal status",
			Buckets:   []float64{1, 2.5, 5, 10, 20, 40, 60, 120, 180, 300},
		}, []string{"status"}),
	}
	if reg != nil {
		reg.MustRegister(m.submitted, m.completed, m.fallbacks, m.swept, m.duration)
	}
	return m
}

func (m *Metrics) Submitted() {
	if m == nil {
		return
	}
	m.submitted.Inc()
}

func (m *Metrics) Completed(status domain.JobStatus, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.completed.WithLabelValues(string(status)).Inc()
	m.duration.WithLabelValues(string(status)).Observe(elapsed.Seconds())
}

// Fallback matches genai.ExecutorOptions.OnFallback.
func (m *Metrics) Fallback(error) {
	if m == nil {
		return
	}
	m.fallbacks.Inc()
}

func (m *Metrics) Swept(n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.swept.Add(float64(n))
}
