package worker

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewWorkerMetrics_RegistersCleanly(t *testing.T) {
	metrics := NewWorkerMetrics()

	reg := prometheus.NewRegistry()
	metrics.MustRegister(reg)

	// Construction must stay registry-free so tests can build as many
	// instances as they like.
	again := NewWorkerMetrics()
	again.MustRegister(prometheus.NewRegistry())
}

func TestWorkerMetrics_RecordJobRun(t *testing.T) {
	metrics := NewWorkerMetrics()

	metrics.RecordJobRun(JobSync, "success")
	metrics.RecordJobRun(JobSync, "success")
	metrics.RecordJobRun(JobSync, "failure")
	metrics.RecordJobRun(JobCleanup, "success")

	if got := testutil.ToFloat64(metrics.JobRunsTotal.WithLabelValues(JobSync, "success")); got != 2 {
		t.Errorf("sync success runs = %v, want 2", got)
	}
	if got := testutil.ToFloat64(metrics.JobRunsTotal.WithLabelValues(JobSync, "failure")); got != 1 {
		t.Errorf("sync failure runs = %v, want 1", got)
	}
	if got := testutil.ToFloat64(metrics.JobRunsTotal.WithLabelValues(JobCleanup, "success")); got != 1 {
		t.Errorf("cleanup success runs = %v, want 1", got)
	}
}

func TestWorkerMetrics_RecordOffersSynced(t *testing.T) {
	metrics := NewWorkerMetrics()

	metrics.RecordOffersSynced(5, 3)
	metrics.RecordOffersSynced(2, 0)

	if got := testutil.ToFloat64(metrics.OffersSyncedTotal.WithLabelValues("added")); got != 7 {
		t.Errorf("added total = %v, want 7", got)
	}
	if got := testutil.ToFloat64(metrics.OffersSyncedTotal.WithLabelValues("updated")); got != 3 {
		t.Errorf("updated total = %v, want 3", got)
	}
}

func TestWorkerMetrics_RecordOffersRemoved(t *testing.T) {
	metrics := NewWorkerMetrics()

	metrics.RecordOffersRemoved(4)

	if got := testutil.ToFloat64(metrics.OffersRemovedTotal); got != 4 {
		t.Errorf("removed total = %v, want 4", got)
	}
}
