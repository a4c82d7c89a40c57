package worker

import (
	"github.com/prometheus/client_golang/prometheus"

	"offersync/internal/pkg/config"
)

// Job label values used by the worker metrics.
const (
	JobSync    = "sync"
	JobCleanup = "cleanup"
)

// WorkerMetrics provides Prometheus metrics for the worker component.
// It embeds the standard ConfigMetrics for configuration monitoring and
// adds job execution metrics shared by the sync and cleanup jobs.
//
// Worker-specific metrics:
//   - worker_job_runs_total: Job runs by job name and status
//   - worker_job_duration_seconds: Duration histogram by job name
//   - worker_job_last_success_timestamp: Last successful run by job name
//   - worker_offers_synced_total: Offers written, by kind (added/updated)
//   - worker_offers_removed_total: Offers deleted by the cleanup job
//
// Metrics are created unregistered; call MustRegister to attach them to
// a registry. This keeps repeated construction in tests panic-free.
type WorkerMetrics struct {
	*config.ConfigMetrics

	JobRunsTotal            *prometheus.CounterVec
	JobDurationSeconds      *prometheus.HistogramVec
	JobLastSuccessTimestamp *prometheus.GaugeVec
	OffersSyncedTotal       *prometheus.CounterVec
	OffersRemovedTotal      prometheus.Counter
}

// NewWorkerMetrics creates a new WorkerMetrics instance with all metrics
// initialized but not yet registered.
func NewWorkerMetrics() *WorkerMetrics {
	return &WorkerMetrics{
		ConfigMetrics: config.NewConfigMetrics("worker"),

		JobRunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "worker_job_runs_total",
			Help: "Total number of job runs by job name and status (success/failure)",
		}, []string{"job", "status"}),

		JobDurationSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "worker_job_duration_seconds",
			Help:    "Duration of job execution in seconds",
			Buckets: []float64{1, 5, 30, 60, 300, 600}, // 1s to 10m
		}, []string{"job"}),

		JobLastSuccessTimestamp: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "worker_job_last_success_timestamp",
			Help: "Unix timestamp of the last successful run by job name",
		}, []string{"job"}),

		OffersSyncedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "worker_offers_synced_total",
			Help: "Total number of offers written by the sync job, by kind (added/updated)",
		}, []string{"kind"}),

		OffersRemovedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "worker_offers_removed_total",
			Help: "Total number of expired offers deleted by the cleanup job",
		}),
	}
}

// MustRegister registers all worker metrics with the given registerer.
// Panics on duplicate registration.
func (m *WorkerMetrics) MustRegister(reg prometheus.Registerer) {
	m.ConfigMetrics.MustRegister(reg)
	reg.MustRegister(
		m.JobRunsTotal,
		m.JobDurationSeconds,
		m.JobLastSuccessTimestamp,
		m.OffersSyncedTotal,
		m.OffersRemovedTotal,
	)
}

// RecordJobRun increments the run counter for the given job and status.
// Status should be either "success" or "failure".
func (m *WorkerMetrics) RecordJobRun(job, status string) {
	m.JobRunsTotal.WithLabelValues(job, status).Inc()
}

// RecordJobDuration observes the duration of one job run in seconds.
func (m *WorkerMetrics) RecordJobDuration(job string, seconds float64) {
	m.JobDurationSeconds.WithLabelValues(job).Observe(seconds)
}

// RecordLastSuccess records the current time as the job's last
// successful completion.
func (m *WorkerMetrics) RecordLastSuccess(job string) {
	m.JobLastSuccessTimestamp.WithLabelValues(job).SetToCurrentTime()
}

// RecordOffersSynced adds the added and updated counts from one sync run.
func (m *WorkerMetrics) RecordOffersSynced(added, updated int) {
	m.OffersSyncedTotal.WithLabelValues("added").Add(float64(added))
	m.OffersSyncedTotal.WithLabelValues("updated").Add(float64(updated))
}

// RecordOffersRemoved adds the deleted count from one cleanup run.
func (m *WorkerMetrics) RecordOffersRemoved(count int) {
	m.OffersRemovedTotal.Add(float64(count))
}
