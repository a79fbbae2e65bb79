package eos_test

import (
	"context"
	"math"
	"strings"
	"testing"

	"github.com/aretw0/eos"
	"github.com/aretw0/eos/pkg/domain"
	"github.com/aretw0/eos/pkg/observability"
	"github.com/aretw0/eos/pkg/parameters"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat/distuv"
)

const hfag = "B->X_sgamma::BR[1.8]@HFAG-2012"

func TestVersion(t *testing.T) {
	assert.NotEmpty(t, strings.TrimSpace(eos.Version))
}

func TestAnalysis_EvaluateAgainstCatalog(t *testing.T) {
	a := eos.New()
	require.NoError(t, a.AddConstraint(hfag, domain.NewOptions("model", "SM")))

	expected := distuv.Normal{Mu: 3.43e-4, Sigma: 0.22e-4}.LogProb(3.15e-4)
	assert.InDelta(t, expected, a.Evaluate(), 1e-9)

	require.Len(t, a.Summary(), 1)
	assert.Equal(t, hfag, a.Summary()[0].Name)
}

func TestAnalysis_TracksParameterChanges(t *testing.T) {
	a := eos.New()
	require.NoError(t, a.AddConstraint(hfag, domain.NewOptions("model", "SM")))
	before := a.Evaluate()

	require.NoError(t, a.Set("B->X_sgamma::uncertainty", 1))
	after := a.Evaluate()
	assert.Greater(t, after, before, "a larger prediction moves towards the measurement")

	assert.ErrorIs(t, a.Set("mass::t(pole)", 173), domain.ErrUnknownParameter)
}

func TestAnalysis_Errors(t *testing.T) {
	a := eos.New()
	assert.ErrorIs(t, a.AddConstraint("nope@nowhere", domain.Options{}), domain.ErrUnknownConstraint)
	assert.ErrorIs(t, a.AddConstraint(hfag, domain.NewOptions("model", "Nope")), domain.ErrInvalidOptions)
	assert.ErrorIs(t, a.AddGaussianConstraint("CKM::A", 0.9, 0.8, 0.85, 1, domain.Kinematics{}, domain.Options{}), domain.ErrMalformedConstraint)
	assert.Zero(t, a.Likelihood().Len())
}

func TestAnalysis_CustomParameters(t *testing.T) {
	p, err := parameters.New(parameters.Definition{Name: "x", Central: 1, Min: 0, Max: 2})
	require.NoError(t, err)

	a := eos.New(eos.WithParameters(p))
	require.NoError(t, a.AddGaussianConstraint("x", 0, 1, 2, 1, domain.Kinematics{}, domain.Options{}))
	assert.Same(t, p, a.Parameters())
	assert.InDelta(t, -0.5*math.Log(2*math.Pi), a.Evaluate(), 1e-12)
}

func TestAnalysis_PosteriorFollowsParameterOrder(t *testing.T) {
	p, err := parameters.New(
		parameters.Definition{Name: "a", Central: 1, Min: 0, Max: 2},
		parameters.Definition{Name: "b", Central: 1, Min: 0, Max: 2, Fixed: true},
		parameters.Definition{Name: "c", Central: 1, Min: 0, Max: 2},
		parameters.Definition{Name: "d", Central: 1, Min: 0, Max: 2},
	)
	require.NoError(t, err)

	a := eos.New(eos.WithParameters(p))
	for _, name := range []string{"d", "b", "a"} {
		require.NoError(t, a.AddGaussianConstraint(name, 0, 1, 2, 1, domain.Kinematics{}, domain.Options{}))
	}
	assert.Equal(t, []string{"d", "b", "a"}, a.Likelihood().UsedParameterNames())

	post, err := a.Posterior()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "d"}, post.Density().Names())
}

func TestAnalysis_CloneIsIndependent(t *testing.T) {
	a := eos.New()
	require.NoError(t, a.AddConstraint(hfag, domain.NewOptions("model", "SM")))

	c, err := a.Clone()
	require.NoError(t, err)
	assert.Equal(t, a.Evaluate(), c.Evaluate())

	require.NoError(t, c.Set("B->X_sgamma::uncertainty", 1))
	assert.NotEqual(t, a.Evaluate(), c.Evaluate())

	v, err := a.Parameters().Value("B->X_sgamma::uncertainty")
	require.NoError(t, err)
	assert.Zero(t, v)
}

func TestAnalysis_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := observability.NewMetrics(reg)

	a := eos.New(eos.WithMetrics(m))
	require.NoError(t, a.AddConstraint(hfag, domain.NewOptions("model", "SM")))
	assert.Error(t, a.AddConstraint("nope", domain.Options{}))
	a.Evaluate()
	a.Evaluate()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Evaluations))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Constraints.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Constraints.WithLabelValues("error")))
}

func TestAnalysis_Report(t *testing.T) {
	a := eos.New()
	require.NoError(t, a.AddConstraint("mass::b(MSbar)@PDG-2012", domain.Options{}))

	report := a.Report()
	assert.Contains(t, report, "mass::b(MSbar)@PDG-2012")
	assert.Contains(t, report, "* observations: 0")
}

func TestAnalysis_Sample(t *testing.T) {
	a := eos.New()
	require.NoError(t, a.AddConstraint(hfag, domain.NewOptions("model", "SM")))
	require.NoError(t, a.AddConstraint("B->X_sgamma::uncertainty@Minimal", domain.Options{}))
	start := a.Parameters().Values()

	chains, err := a.Sample(context.Background(), 2, 200, 11, nil)
	require.NoError(t, err)
	require.Len(t, chains, 2)
	for _, c := range chains {
		assert.Equal(t, 200, c.Len())
		assert.NotContains(t, c.Names, "mass::Z")
		assert.Contains(t, c.Names, "B->X_sgamma::uncertainty")
	}
	assert.Equal(t, start, a.Parameters().Values())
}
