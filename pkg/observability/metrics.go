package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics groups the collectors of one analysis.
type Metrics struct {
	Evaluations        prometheus.Counter
	EvaluationDuration prometheus.Histogram
	LogLikelihood      prometheus.Gauge
	Constraints        *prometheus.CounterVec
	SamplerSteps       *prometheus.CounterVec
}

// NewMetrics creates and registers the collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Evaluations: factory.NewCounter(prometheus.CounterOpts{
			Name: "eos_likelihood_evaluations_total",
			Help: "Total number of log-likelihood evaluations",
		}),
		EvaluationDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "eos_likelihood_evaluation_duration_seconds",
			Help:    "Duration of log-likelihood evaluations",
			Buckets: prometheus.ExponentialBuckets(1e-6, 4, 10),
		}),
		LogLikelihood: factory.NewGauge(prometheus.GaugeOpts{
			Name: "eos_likelihood_value",
			Help: "Log-likelihood at the last evaluated point",
		}),
		Constraints: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "eos_constraints_added_total",
			Help: "Constraint additions by result",
		}, []string{"result"}),
		SamplerSteps: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "eos_sampler_steps_total",
			Help: "Sampler steps by outcome",
		}, []string{"accepted"}),
	}
}

// ObserveEvaluation records one evaluation.
func (m *Metrics) ObserveEvaluation(d time.Duration, value float64) {
	m.Evaluations.Inc()
	m.EvaluationDuration.Observe(d.Seconds())
	m.LogLikelihood.Set(value)
}

// ObserveConstraint records the outcome of one constraint addition.
func (m *Metrics) ObserveConstraint(err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.Constraints.WithLabelValues(result).Inc()
}

// SamplerObserver returns a per-step callback suitable for mcmc.WithObserver.
func (m *Metrics) SamplerObserver() func(chainID string, accepted bool, logDensity float64) {
	return func(_ string, accepted bool, _ float64) {
		m.SamplerSteps.WithLabelValues(strconv.FormatBool(accepted)).Inc()
	}
}
