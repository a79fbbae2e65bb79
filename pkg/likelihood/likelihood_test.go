package likelihood_test

import (
	"errors"
	"math"
	"testing"

	"github.com/aretw0/eos/pkg/domain"
	"github.com/aretw0/eos/pkg/likelihood"
	"github.com/aretw0/eos/pkg/parameters"
	"github.com/aretw0/eos/pkg/rareb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat/distuv"
)

func newStore(t *testing.T) *parameters.Parameters {
	t.Helper()
	p, err := parameters.New(
		parameters.Definition{Name: "x", Central: 2.25, Min: 0, Max: 5},
		parameters.Definition{Name: "y", Central: 1, Min: -5, Max: 5},
	)
	require.NoError(t, err)
	return p
}

var none = domain.Kinematics{}

func TestGaussianConstraint_SymmetricReducesExactly(t *testing.T) {
	for _, x := range []float64{2.25, 1.75, 2.0, 0.5, 4.0} {
		p := newStore(t)
		require.NoError(t, p.Set("x", x))

		l := likelihood.New(p)
		b := l.Builder()
		id, err := b.Observable("x", none, domain.Options{})
		require.NoError(t, err)
		l.Observables().Update()

		symmetric := likelihood.NewGaussian(l.Observables(), id, 2.0, 0.5, 1)
		asymmetric := likelihood.NewAsymmetricGaussian(l.Observables(), id, 1.5, 2.0, 2.5, 1)

		assert.Equal(t, symmetric.Evaluate(), asymmetric.Evaluate(), "x=%g", x)
		assert.Equal(t, symmetric.Significance(), asymmetric.Significance(), "x=%g", x)
		assert.Equal(t, distuv.Normal{Mu: 2, Sigma: 0.5}.LogProb(x), symmetric.Evaluate())
	}
}

func TestGaussianConstraint_AsymmetricSides(t *testing.T) {
	p := newStore(t)
	l := likelihood.New(p)
	require.NoError(t, l.AddGaussianConstraint("x", 1.0, 2.0, 4.0, 1, none, domain.Options{}))

	peak := math.Log(2 / (math.Sqrt(2*math.Pi) * 3))

	require.NoError(t, p.Set("x", 2.0))
	assert.InDelta(t, peak, l.Evaluate(), 1e-12)

	// One upper sigma above central.
	require.NoError(t, p.Set("x", 4.0))
	assert.InDelta(t, peak-0.5, l.Evaluate(), 1e-12)

	// One lower sigma below central.
	require.NoError(t, p.Set("x", 1.0))
	assert.InDelta(t, peak-0.5, l.Evaluate(), 1e-12)

	summary := l.Summary()
	require.Len(t, summary, 1)
	assert.InDelta(t, -1.0, summary[0].Significances[0], 1e-15)
}

func TestLogLikelihood_Additivity(t *testing.T) {
	p := newStore(t)

	l1 := likelihood.New(p)
	require.NoError(t, l1.AddGaussianConstraint("x", 1.5, 2.0, 2.5, 1, none, domain.Options{}))

	l2 := likelihood.New(p)
	require.NoError(t, l2.AddGaussianConstraint("y", 0.0, 0.5, 2.0, 1, none, domain.Options{}))

	both := likelihood.New(p)
	require.NoError(t, both.AddGaussianConstraint("x", 1.5, 2.0, 2.5, 1, none, domain.Options{}))
	require.NoError(t, both.AddGaussianConstraint("y", 0.0, 0.5, 2.0, 1, none, domain.Options{}))

	for _, point := range [][2]float64{{2.25, 1}, {1.0, -1}, {3.0, 0.5}} {
		require.NoError(t, p.SetValues(point[:]))
		assert.InDelta(t, l1.Evaluate()+l2.Evaluate(), both.Evaluate(), 1e-12, "point %v", point)
	}
	assert.Equal(t, 2, both.NumberOfObservations())
}

func TestAddGaussianConstraint_MalformedLeavesEngineUnchanged(t *testing.T) {
	p := newStore(t)
	l := likelihood.New(p)
	require.NoError(t, l.AddGaussianConstraint("x", 1.5, 2.0, 2.5, 1, none, domain.Options{}))
	before := l.Evaluate()

	cases := []struct {
		name              string
		min, central, max float64
		n                 int
		err               error
	}{
		{"max below central", 1.0, 2.0, 1.5, 1, domain.ErrMalformedConstraint},
		{"min above central", 2.5, 2.0, 3.0, 1, domain.ErrMalformedConstraint},
		{"zero width", 2.0, 2.0, 2.0, 0, domain.ErrMalformedConstraint},
		{"not finite", math.NaN(), 2.0, 3.0, 1, domain.ErrMalformedConstraint},
		{"observations", 1.0, 2.0, 3.0, 2, domain.ErrMalformedConstraint},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := l.AddGaussianConstraint("y", tc.min, tc.central, tc.max, tc.n, none, domain.Options{})
			assert.ErrorIs(t, err, tc.err)
			assert.Equal(t, 1, l.Len())
			assert.Equal(t, 1, l.Observables().Len())
			assert.Equal(t, before, l.Evaluate())
		})
	}

	err := l.AddGaussianConstraint("B->K^*ll::A_FB", 0, 1, 2, 1, none, domain.Options{})
	assert.ErrorIs(t, err, domain.ErrUnknownObservable)
	assert.Equal(t, 1, l.Len())
	assert.Equal(t, 1, l.Observables().Len())
}

func TestLogLikelihood_ObservablesAreDeduplicated(t *testing.T) {
	l := likelihood.New(newStore(t))
	require.NoError(t, l.AddGaussianConstraint("x", 1.5, 2.0, 2.5, 1, none, domain.Options{}))
	require.NoError(t, l.AddGaussianConstraint("x", 1.0, 2.0, 4.0, 0, none, domain.Options{}))
	require.NoError(t, l.AddGaussianConstraint("y", 0.0, 1.0, 2.0, 1, none, domain.Options{}))

	assert.Equal(t, 3, l.Len())
	assert.Equal(t, 2, l.Observables().Len())
	assert.Equal(t, 2, l.NumberOfObservations())
	assert.Equal(t, []string{"x", "y"}, l.UsedParameterNames())
}

func TestBuilder_OptionValuesDoNotAlias(t *testing.T) {
	l := likelihood.New(newStore(t))
	b := l.Builder()

	packed, err := b.Observable("x", none, domain.NewOptions("a", "x,b=y"))
	require.NoError(t, err)
	split, err := b.Observable("x", none, domain.NewOptions("a", "x", "b", "y"))
	require.NoError(t, err)

	assert.NotEqual(t, packed, split)
	assert.Equal(t, 2, l.Observables().Len())

	again, err := b.Observable("x", none, domain.NewOptions("b", "y", "a", "x"))
	require.NoError(t, err)
	assert.Equal(t, split, again)
}

func TestLogLikelihood_SharedStore(t *testing.T) {
	p := parameters.Defaults()
	l := likelihood.New(p)
	require.NoError(t, l.AddGaussianConstraint(rareb.BToXsGammaMinimalName, 2.99e-4, 3.32e-4, 3.65e-4, 1, none, domain.Options{}))
	require.NoError(t, l.AddGaussianConstraint("B->X_sgamma::uncertainty", -1, 0, 1, 0, none, domain.Options{}))

	at0 := l.Evaluate()
	require.NoError(t, p.Set("B->X_sgamma::uncertainty", 1))
	at1 := l.Evaluate()

	// The observable moves towards the measurement while the nuisance prior pulls back.
	assert.NotEqual(t, at0, at1)
	summary := l.Summary()
	assert.InDelta(t, (3.38e-4-3.32e-4)/3.3e-5, summary[0].Significances[0], 1e-9)
	assert.InDelta(t, 1.0, summary[1].Significances[0], 1e-15)
}

func TestLogLikelihood_CloneIsIndependent(t *testing.T) {
	p := newStore(t)
	l := likelihood.New(p)
	require.NoError(t, l.AddGaussianConstraint("x", 1.5, 2.0, 2.5, 1, none, domain.Options{}))
	require.NoError(t, l.AddGaussianConstraint("y", 0.0, 0.5, 2.0, 1, none, domain.Options{}))

	clone, err := l.Clone(p.Clone())
	require.NoError(t, err)
	assert.Equal(t, l.Evaluate(), clone.Evaluate())
	assert.Equal(t, l.Len(), clone.Len())

	require.NoError(t, p.Set("x", 4.0))
	assert.NotEqual(t, l.Evaluate(), clone.Evaluate())

	require.NoError(t, clone.Parameters().Set("x", 4.0))
	assert.Equal(t, l.Evaluate(), clone.Evaluate())
}

type fakeEntry struct {
	observable string
	fail       bool
}

func (e fakeEntry) Make(name string, b *likelihood.Builder, o domain.Options) (*likelihood.Constraint, error) {
	id, err := b.Observable(e.observable, domain.Kinematics{}, o)
	if err != nil {
		return nil, err
	}
	if e.fail {
		return nil, errors.New("entry is broken")
	}
	block, err := b.Gaussian(id, 1.5, 2.0, 2.5, 1)
	if err != nil {
		return nil, err
	}
	return likelihood.NewConstraint(name, block), nil
}

type fakeCatalog map[string]fakeEntry

func (c fakeCatalog) Lookup(name string, o domain.Options) (likelihood.ConstraintEntry, error) {
	e, ok := c[name]
	if !ok {
		return nil, domain.ErrUnknownConstraint
	}
	if o.Get("broken", "no") == "yes" {
		return nil, domain.ErrInvalidOptions
	}
	return e, nil
}

func TestAddConstraintByName(t *testing.T) {
	catalog := fakeCatalog{
		"x::measurement": {observable: "x"},
		"y::broken":      {observable: "y", fail: true},
	}
	l := likelihood.New(newStore(t), likelihood.WithCatalog(catalog))

	require.NoError(t, l.AddConstraintByName("x::measurement", domain.Options{}))
	assert.Equal(t, 1, l.Len())
	assert.Equal(t, "x::measurement", l.Constraints()[0].Name())

	err := l.AddConstraintByName("z::unknown", domain.Options{})
	assert.ErrorIs(t, err, domain.ErrUnknownConstraint)
	assert.Contains(t, err.Error(), "z::unknown")

	err = l.AddConstraintByName("x::measurement", domain.NewOptions("broken", "yes"))
	assert.ErrorIs(t, err, domain.ErrInvalidOptions)

	// The failing entry registered an observable before failing; it is rolled back.
	err = l.AddConstraintByName("y::broken", domain.Options{})
	require.Error(t, err)
	assert.Equal(t, 1, l.Len())
	assert.Equal(t, 1, l.Observables().Len())
}

func TestAddConstraintByName_NoCatalog(t *testing.T) {
	l := likelihood.New(newStore(t))
	err := l.AddConstraintByName("x::measurement", domain.Options{})
	assert.ErrorIs(t, err, domain.ErrUnknownConstraint)
}

func TestBuilder_StudentT(t *testing.T) {
	p := newStore(t)
	l := likelihood.New(p)
	b := l.Builder()
	id, err := b.Observable("x", none, domain.Options{})
	require.NoError(t, err)

	block, err := b.StudentT(id, 2.0, 0.5, 3, 1)
	require.NoError(t, err)
	l.AddConstraint(likelihood.NewConstraint("x::student", block))

	require.NoError(t, p.Set("x", 3.0))
	want := distuv.StudentsT{Mu: 2, Sigma: 0.5, Nu: 3}.LogProb(3.0)
	assert.InDelta(t, want, l.Evaluate(), 1e-12)
	assert.Greater(t, block.Significance(), 0.0)

	require.NoError(t, p.Set("x", 1.0))
	l.Evaluate()
	assert.Less(t, block.Significance(), 0.0)

	_, err = b.StudentT(id, 2.0, -1, 3, 1)
	assert.ErrorIs(t, err, domain.ErrMalformedConstraint)
}

func TestBuilder_MultivariateGaussian(t *testing.T) {
	p := newStore(t)
	l := likelihood.New(p)
	b := l.Builder()
	ix, err := b.Observable("x", none, domain.Options{})
	require.NoError(t, err)
	iy, err := b.Observable("y", none, domain.Options{})
	require.NoError(t, err)

	block, err := b.MultivariateGaussian([]int{ix, iy}, []float64{1, 2}, [][]float64{{1, 0}, {0, 4}}, 2)
	require.NoError(t, err)
	l.AddConstraint(likelihood.NewConstraint("xy::correlated", block))

	require.NoError(t, p.SetValues([]float64{2, 4}))
	want := distuv.Normal{Mu: 1, Sigma: 1}.LogProb(2) + distuv.Normal{Mu: 2, Sigma: 2}.LogProb(4)
	assert.InDelta(t, want, l.Evaluate(), 1e-12)
	assert.InDelta(t, math.Sqrt2, block.Significance(), 1e-9)
	assert.Equal(t, 2, l.NumberOfObservations())

	clone, err := l.Clone(p.Clone())
	require.NoError(t, err)
	assert.InDelta(t, l.Evaluate(), clone.Evaluate(), 1e-15)

	_, err = b.MultivariateGaussian([]int{ix, iy}, []float64{1, 2}, [][]float64{{1, 2}, {2, 1}}, 2)
	assert.ErrorIs(t, err, domain.ErrMalformedConstraint, "not positive definite")

	_, err = b.MultivariateGaussian([]int{ix, iy}, []float64{1}, [][]float64{{1, 0}, {0, 1}}, 2)
	assert.ErrorIs(t, err, domain.ErrMalformedConstraint)
}
