// Package metrics holds the Prometheus instrumentation for the review
// pipeline: per-review processing counters, analysis latency, run outcomes
// and report deliveries.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Review outcome statuses used as metric labels.
const (
	StatusAnalyzed = "analyzed"
	StatusSkipped  = "skipped"
	StatusFailed   = "failed"
)

// PipelineMetrics holds all Prometheus metrics for the review pipeline.
type PipelineMetrics struct {
	ReviewsProcessedTotal *prometheus.CounterVec
	AnalysisSeconds       *prometheus.HistogramVec
	RunsTotal             *prometheus.CounterVec
	RunSeconds            *prometheus.HistogramVec
	ReportsSentTotal      *prometheus.CounterVec
	RowsStoredTotal       *prometheus.CounterVec
}

// DefaultPipelineMetrics creates metrics on the default registry.
func DefaultPipelineMetrics() *PipelineMetrics {
	return NewPipelineMetrics(prometheus.DefaultRegisterer)
}

// NewPipelineMetrics creates a new set of pipeline metrics.
func NewPipelineMetrics(reg prometheus.Registerer) *PipelineMetrics {
	factory := promauto.With(reg)

	return &PipelineMetrics{
		ReviewsProcessedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "guestpulse_reviews_processed_total",
				Help: "Total reviews processed per outcome and source",
			},
			[]string{"status", "source"},
		),
		AnalysisSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "guestpulse_analysis_seconds",
				Help:    "Per-review analysis latency",
				Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
			},
			[]string{"source"},
		),
		RunsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "guestpulse_runs_total",
				Help: "Total pipeline runs per kind and outcome",
			},
			[]string{"kind", "status"},
		),
		RunSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "guestpulse_run_seconds",
				Help:    "End-to-end run duration",
				Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 300, 600},
			},
			[]string{"kind"},
		),
		ReportsSentTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "guestpulse_reports_sent_total",
				Help: "Total reports delivered per kind",
			},
			[]string{"kind"},
		),
		RowsStoredTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "guestpulse_rows_stored_total",
				Help: "Total rows written to the history store per table",
			},
			[]string{"table"},
		),
	}
}

// RecordReview records one processed review.
func (m *PipelineMetrics) RecordReview(status, source string) {
	m.ReviewsProcessedTotal.WithLabelValues(status, source).Inc()
}

// ObserveAnalysis records per-review analysis latency.
func (m *PipelineMetrics) ObserveAnalysis(source string, seconds float64) {
	m.AnalysisSeconds.WithLabelValues(source).Observe(seconds)
}

// RecordRun records a completed pipeline run.
func (m *PipelineMetrics) RecordRun(kind, status string, seconds float64) {
	m.RunsTotal.WithLabelValues(kind, status).Inc()
	m.RunSeconds.WithLabelValues(kind).Observe(seconds)
}

// RecordReportSent records a delivered report.
func (m *PipelineMetrics) RecordReportSent(kind string) {
	m.ReportsSentTotal.WithLabelValues(kind).Inc()
}

// RecordRowsStored records rows written to a history table.
func (m *PipelineMetrics) RecordRowsStored(table string, n int) {
	m.RowsStoredTotal.WithLabelValues(table).Add(float64(n))
}
