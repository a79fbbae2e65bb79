package observability

import (
	"time"

	"github.com/aretw0/eos/pkg/domain"
	"github.com/aretw0/eos/pkg/likelihood"
)

// Likelihood wraps a LogLikelihood and records its evaluations and constraint additions.
type Likelihood struct {
	*likelihood.LogLikelihood
	metrics *Metrics
}

// Instrument wraps l with m.
func Instrument(l *likelihood.LogLikelihood, m *Metrics) *Likelihood {
	return &Likelihood{LogLikelihood: l, metrics: m}
}

// Evaluate evaluates the wrapped likelihood and records duration and value.
func (l *Likelihood) Evaluate() float64 {
	start := time.Now()
	value := l.LogLikelihood.Evaluate()
	l.metrics.ObserveEvaluation(time.Since(start), value)
	return value
}

func (l *Likelihood) AddConstraintByName(name string, o domain.Options) error {
	err := l.LogLikelihood.AddConstraintByName(name, o)
	l.metrics.ObserveConstraint(err)
	return err
}

func (l *Likelihood) AddGaussianConstraint(obs string, min, central, max float64, observations int, k domain.Kinematics, o domain.Options) error {
	err := l.LogLikelihood.AddGaussianConstraint(obs, min, central, max, observations, k, o)
	l.metrics.ObserveConstraint(err)
	return err
}
