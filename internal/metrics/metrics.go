package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"service-order-pipeline/internal/model"
)

// Registry holds the ingestion metrics on a private prometheus registry.
// A nil *Registry is valid and records nothing.
type Registry struct {
	reg            *prometheus.Registry
	Rows           *prometheus.CounterVec
	Rejections     *prometheus.CounterVec
	Reconciled     *prometheus.CounterVec
	Retries        *prometheus.CounterVec
	SideFailures   *prometheus.CounterVec
	Uploads        *prometheus.CounterVec
	RunDurationSec prometheus.Histogram
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()
	rows := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ingest_rows_total",
		Help: "Spreadsheet rows processed, by outcome.",
	}, []string{"outcome"})
	rejections := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ingest_rejections_total",
		Help: "Rejected rows by reason.",
	}, []string{"reason"})
	reconciled := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "reconcile_records_total",
		Help: "Records reconciled against the store, by result.",
	}, []string{"result"})
	retries := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "store_retries_total",
		Help: "Retried store operations.",
	}, []string{"op"})
	side := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "side_channel_failures_total",
		Help: "Swallowed failures of best-effort post-processing.",
	}, []string{"channel"})
	uploads := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "uploads_total",
		Help: "Upload runs by final status.",
	}, []string{"status"})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "ingest_run_duration_seconds",
		Buckets: []float64{0.1, 0.5, 1, 5, 15, 60, 300, 900},
	})

	r.MustRegister(rows, rejections, reconciled, retries, side, uploads, duration)
	return &Registry{
		reg:            r,
		Rows:           rows,
		Rejections:     rejections,
		Reconciled:     reconciled,
		Retries:        retries,
		SideFailures:   side,
		Uploads:        uploads,
		RunDurationSec: duration,
	}
}

func (r *Registry) Handler() http.Handler { return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}) }

// Gatherer exposes the registry for tests.
func (r *Registry) Gatherer() prometheus.Gatherer { return r.reg }

// ObserveSummary records the row tallies of one ingestion.
func (r *Registry) ObserveSummary(s model.IngestionSummary) {
	if r == nil {
		return
	}
	r.Rows.WithLabelValues("accepted").Add(float64(s.ValidRows))
	r.Rows.WithLabelValues("rejected").Add(float64(s.RejectedRows()))
	for _, reason := range model.RejectReasons {
		if n := s.Rejected(reason); n > 0 {
			r.Rejections.WithLabelValues(string(reason)).Add(float64(n))
		}
	}
}

func (r *Registry) ObserveReconciliation(res model.ReconciliationResult) {
	if r == nil {
		return
	}
	r.Reconciled.WithLabelValues("inserted").Add(float64(res.Inserted))
	r.Reconciled.WithLabelValues("skipped").Add(float64(res.Skipped))
	r.Reconciled.WithLabelValues("error").Add(float64(res.Errors))
}

func (r *Registry) ObserveRun(status string, d time.Duration) {
	if r == nil {
		return
	}
	r.Uploads.WithLabelValues(status).Inc()
	r.RunDurationSec.Observe(d.Seconds())
}

func (r *Registry) Retry(op string) {
	if r == nil {
		return
	}
	r.Retries.WithLabelValues(op).Inc()
}

func (r *Registry) SideChannelFailure(channel string) {
	if r == nil {
		return
	}
	r.SideFailures.WithLabelValues(channel).Inc()
}
