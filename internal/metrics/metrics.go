// Package metrics expone los collectors Prometheus del servicio.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics agrupa los collectors. Un *Metrics nil ignora todas las llamadas.
type Metrics struct {
	assessments *prometheus.CounterVec
	candidates  *prometheus.HistogramVec
	engine      prometheus.Histogram
	advisory    *prometheus.CounterVec
	diagnostics prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		assessments: f.NewCounterVec(prometheus.CounterOpts{
			Name: "edupath_assessments_evaluated_total",
			Help: "Assessments evaluated, by recommended stream",
		}, []string{"stream"}),
		candidates: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "edupath_recommendation_candidates",
			Help:    "Candidates that passed every filter before truncation",
			Buckets: []float64{0, 1, 2, 5, 10, 20, 50, 100, 250},
		}, []string{"kind"}),
		engine: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "edupath_engine_duration_seconds",
			Help:    "Time spent scoring and ranking one assessment",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		}),
		advisory: f.NewCounterVec(prometheus.CounterOpts{
			Name: "edupath_advisory_requests_total",
			Help: "Advisory LLM requests, by kind and outcome",
		}, []string{"kind", "status"}),
		diagnostics: f.NewCounter(prometheus.CounterOpts{
			Name: "edupath_aggregation_diagnostics_total",
			Help: "Malformed option entries skipped during aggregation",
		}),
	}
}

func (m *Metrics) ObserveEvaluation(stream string, elapsed time.Duration, colleges, courses, scholarships, diagnostics int) {
	if m == nil {
		return
	}
	m.assessments.WithLabelValues(stream).Inc()
	m.engine.Observe(elapsed.Seconds())
	m.candidates.WithLabelValues("colleges").Observe(float64(colleges))
	m.candidates.WithLabelValues("courses").Observe(float64(courses))
	m.candidates.WithLabelValues("scholarships").Observe(float64(scholarships))
	if diagnostics > 0 {
		m.diagnostics.Add(float64(diagnostics))
	}
}

func (m *Metrics) ObserveAdvisory(kind, status string) {
	if m == nil {
		return
	}
	m.advisory.WithLabelValues(kind, status).Inc()
}
