package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// fragility assessment service.
type Metrics struct {
	AssessmentsTotal   *prometheus.CounterVec // labels: hazard, outcome={success,error}
	AssessmentDuration prometheus.Histogram
	CurvesEvaluated    prometheus.Counter
	UnknownModels      prometheus.Counter
	NodesCombined      prometheus.Counter
	SummariesPublished prometheus.Counter
	EngineBusy         prometheus.Gauge
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.AssessmentsTotal,
		m.AssessmentDuration,
		m.CurvesEvaluated,
		m.UnknownModels,
		m.NodesCombined,
		m.SummariesPublished,
		m.EngineBusy,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		AssessmentsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fragility",
			Name:      "assessments_total",
			Help:      "Completed fragility assessments by hazard and outcome.",
		}, []string{"hazard", "outcome"}),
		AssessmentDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "fragility",
			Name:      "assessment_duration_seconds",
			Help:      "Duration of a complete tree computation.",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
		CurvesEvaluated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fragility",
			Name:      "curves_evaluated_total",
			Help:      "Total (component, variable, grid cell) curve evaluations.",
		}),
		UnknownModels: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fragility",
			Name:      "unknown_models_total",
			Help:      "Curve evaluations that fell back to zero for an unrecognized model.",
		}),
		NodesCombined: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fragility",
			Name:      "nodes_combined_total",
			Help:      "Tree nodes processed by the reliability combiner.",
		}),
		SummariesPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fragility",
			Name:      "summaries_published_total",
			Help:      "Assessment summary events published to the sink topic.",
		}),
		EngineBusy: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "fragility",
			Name:      "engine_busy",
			Help:      "1 while a tree computation is in progress, 0 otherwise.",
		}),
	}
}
