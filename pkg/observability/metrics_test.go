package observability_test

import (
	"math"
	"testing"

	"github.com/aretw0/eos/pkg/domain"
	"github.com/aretw0/eos/pkg/likelihood"
	"github.com/aretw0/eos/pkg/observability"
	"github.com/aretw0/eos/pkg/parameters"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstrument(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := observability.NewMetrics(reg)

	l := observability.Instrument(likelihood.New(parameters.Defaults()), m)
	require.NoError(t, l.AddGaussianConstraint("CKM::A", 0.8, 0.826, 0.852, 1, domain.Kinematics{}, domain.Options{}))
	assert.Error(t, l.AddGaussianConstraint("CKM::A", 1, 0.826, 0.852, 1, domain.Kinematics{}, domain.Options{}))
	assert.Error(t, l.AddConstraintByName("CKM::A@nowhere", domain.Options{}))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Constraints.WithLabelValues("ok")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Constraints.WithLabelValues("error")))

	value := l.Evaluate()
	l.Evaluate()
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Evaluations))
	assert.Equal(t, value, testutil.ToFloat64(m.LogLikelihood))
	assert.False(t, math.IsNaN(value))

	// The wrapped likelihood still sees the constraint.
	assert.Equal(t, 1, l.Len())
}

func TestSamplerObserver(t *testing.T) {
	m := observability.NewMetrics(prometheus.NewRegistry())
	observe := m.SamplerObserver()
	observe("a", true, -1)
	observe("a", false, -1)
	observe("b", false, -2)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.SamplerSteps.WithLabelValues("true")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.SamplerSteps.WithLabelValues("false")))
}

func TestNewMetrics_RegistersCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := observability.NewMetrics(reg)
	m.ObserveConstraint(nil)
	m.SamplerObserver()("a", true, 0)

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "eos_likelihood_evaluations_total")
	assert.Contains(t, names, "eos_constraints_added_total")
	assert.Contains(t, names, "eos_sampler_steps_total")
}
