package listings

import (
	"listing-sync/core/reconcile"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Run results.
const (
	resultSuccess = "success"
	resultAborted = "aborted"
	resultError   = "error"
)

// Metrics are the Prometheus collectors of sync passes.
type Metrics struct {
	runs        *prometheus.CounterVec
	records     *prometheus.CounterVec
	media       *prometheus.CounterVec
	duration    prometheus.Histogram
	lastSuccess prometheus.Gauge
}

// NewMetrics registers the sync collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		runs: f.NewCounterVec(prometheus.CounterOpts{
			Name: "listing_sync_runs_total",
			Help: "Sync passes by result.",
		}, []string{"result", "dry_run"}),
		records: f.NewCounterVec(prometheus.CounterOpts{
			Name: "listing_sync_records_total",
			Help: "CRM records handled by sync passes, by decision and outcome.",
		}, []string{"decision", "outcome"}),
		media: f.NewCounterVec(prometheus.CounterOpts{
			Name: "listing_sync_media_total",
			Help: "Media objects handled by sync passes.",
		}, []string{"kind", "operation"}),
		duration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "listing_sync_run_duration_seconds",
			Help:    "Duration of sync passes.",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600, 1200},
		}),
		lastSuccess: f.NewGauge(prometheus.GaugeOpts{
			Name: "listing_sync_last_success_timestamp_seconds",
			Help: "Finish time of the last sync pass that completed without error.",
		}),
	}
}

// Observe records a finished pass. report is nil when nothing was decided.
func (m *Metrics) Observe(report *reconcile.RunReport, err error) {
	dryRun := "false"
	if report != nil && report.DryRun {
		dryRun = "true"
	}

	result := resultSuccess
	switch {
	case report != nil && report.Aborted:
		result = resultAborted
	case err != nil:
		result = resultError
	}
	m.runs.WithLabelValues(result, dryRun).Inc()

	if report == nil {
		return
	}
	m.duration.Observe(report.Duration().Seconds())
	if err == nil {
		m.lastSuccess.Set(float64(report.FinishedAt.Unix()))
	}

	for _, out := range report.Outcomes {
		outcome := "ok"
		if out.Failed() {
			outcome = "failed"
		}
		m.records.WithLabelValues(string(out.Decision), outcome).Inc()
	}
	m.observeMedia("image", report.Images)
	m.observeMedia("document", report.Documents)
}

func (m *Metrics) observeMedia(kind string, s reconcile.AttachmentStats) {
	m.media.WithLabelValues(kind, "uploaded").Add(float64(s.Uploaded))
	m.media.WithLabelValues(kind, "upload_failed").Add(float64(s.UploadFailed))
	m.media.WithLabelValues(kind, "deleted").Add(float64(s.Deleted))
	m.media.WithLabelValues(kind, "delete_failed").Add(float64(s.DeleteFailed))
}
