package density_test

import (
	"math"
	"testing"

	"github.com/aretw0/eos/pkg/density"
	"github.com/aretw0/eos/pkg/domain"
	"github.com/aretw0/eos/pkg/likelihood"
	"github.com/aretw0/eos/pkg/parameters"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFree_SkipsFixedAndKeepsRegistrationOrder(t *testing.T) {
	p := parameters.Defaults()
	d, err := density.Free(p)
	require.NoError(t, err)

	assert.Equal(t, p.Len()-1, d.Len())
	assert.NotContains(t, d.Names(), "mass::Z")
	assert.Equal(t, "mass::b(MSbar)", d.Dimension(0).Name())
	assert.Equal(t, "QCD::alpha_s(MZ)", d.Dimension(1).Name())

	var expected []string
	for param := range p.All() {
		if !param.Fixed() {
			expected = append(expected, param.Name())
		}
	}
	assert.Equal(t, expected, d.Names())
}

func TestAll_IsRestartableAndStable(t *testing.T) {
	p := parameters.Defaults()
	d, err := density.New(p,
		density.Dimension{Name: "CKM::A"},
		density.Dimension{Name: "mass::b(MSbar)"},
		density.Dimension{Name: "B->X_sgamma::uncertainty"},
	)
	require.NoError(t, err)

	collect := func() []string {
		var names []string
		for i, param := range d.All() {
			assert.Equal(t, d.Dimension(i).Name(), param.Name())
			names = append(names, param.Name())
		}
		return names
	}
	first := collect()
	assert.Equal(t, []string{"CKM::A", "mass::b(MSbar)", "B->X_sgamma::uncertainty"}, first)

	// Nested traversals do not interfere.
	var pairs int
	for range d.All() {
		for range d.All() {
			pairs++
		}
	}
	assert.Equal(t, 9, pairs)

	// Early termination leaves later traversals intact.
	for _, param := range d.All() {
		_ = param
		break
	}
	assert.Equal(t, first, collect())
}

func TestPoint_RoundTripsThroughStore(t *testing.T) {
	p := parameters.Defaults()
	d, err := density.New(p, density.Dimension{Name: "CKM::A"}, density.Dimension{Name: "CKM::lambda"})
	require.NoError(t, err)

	assert.Equal(t, []float64{0.826, 0.225}, d.Point())

	require.NoError(t, d.SetPoint([]float64{0.8, 0.2251}))
	v, _ := p.Value("CKM::lambda")
	assert.Equal(t, 0.2251, v)

	// Handles reflect writes made directly to the store.
	require.NoError(t, p.Set("CKM::A", 0.81))
	assert.Equal(t, 0.81, d.Point()[0])

	assert.ErrorIs(t, d.SetPoint([]float64{1}), domain.ErrDimensionMismatch)

	assert.True(t, d.InBounds([]float64{0.8, 0.225}))
	assert.False(t, d.InBounds([]float64{0.9, 0.225}))
	assert.False(t, d.InBounds([]float64{0.8}))
}

func TestNew_Errors(t *testing.T) {
	p := parameters.Defaults()

	_, err := density.New(p, density.Dimension{Name: "mass::t(pole)"})
	assert.ErrorIs(t, err, domain.ErrUnknownParameter)

	_, err = density.New(p, density.Dimension{Name: "CKM::A"}, density.Dimension{Name: "CKM::A"})
	assert.ErrorIs(t, err, domain.ErrDuplicateParameter)

	q, err := parameters.New(parameters.Definition{Name: "pinned", Central: 1, Min: 1, Max: 1})
	require.NoError(t, err)
	_, err = density.New(q, density.Dimension{Name: "pinned"})
	assert.Error(t, err)
}

func TestLogPrior(t *testing.T) {
	p := parameters.Defaults()
	d, err := density.New(p,
		density.Dimension{Name: "B->X_sgamma::uncertainty"},
		density.Dimension{Name: "CKM::A", Prior: density.Gaussian{Mu: 0.826, Sigma: 0.012, Min: 0.79, Max: 0.862}},
	)
	require.NoError(t, err)

	flat := -math.Log(6.0)
	gauss := -math.Log(0.012) - 0.5*math.Log(2*math.Pi)
	assert.InDelta(t, flat+gauss, d.LogPrior(), 1e-12)

	require.NoError(t, p.Set("B->X_sgamma::uncertainty", 4))
	assert.True(t, math.IsInf(d.LogPrior(), -1))

	require.NoError(t, p.Set("B->X_sgamma::uncertainty", 0))
	require.NoError(t, p.Set("CKM::A", 0.9))
	assert.True(t, math.IsInf(d.LogPrior(), -1))
}

func TestClone_IsIndependent(t *testing.T) {
	p := parameters.Defaults()
	d, err := density.Free(p)
	require.NoError(t, err)

	q := p.Clone()
	c, err := d.Clone(q)
	require.NoError(t, err)
	assert.Equal(t, d.Names(), c.Names())
	assert.Equal(t, d.Point(), c.Point())

	x := c.Point()
	x[0] = 4.3
	require.NoError(t, c.SetPoint(x))
	assert.Equal(t, 4.18, d.Point()[0])
	assert.Equal(t, 4.3, c.Point()[0])
}

func TestPosterior(t *testing.T) {
	p := parameters.Defaults()
	d, err := density.New(p, density.Dimension{Name: "B->X_sgamma::uncertainty"})
	require.NoError(t, err)

	l := likelihood.New(p)
	require.NoError(t, l.AddGaussianConstraint("B->X_sgamma::uncertainty", -1, 0, 1, 0, domain.Kinematics{}, domain.Options{}))

	post, err := density.NewPosterior(d, l)
	require.NoError(t, err)
	assert.InDelta(t, d.LogPrior()+l.Evaluate(), post.Evaluate(), 1e-15)

	require.NoError(t, p.Set("B->X_sgamma::uncertainty", 10))
	assert.True(t, math.IsInf(post.Evaluate(), -1))

	clone, err := post.Clone()
	require.NoError(t, err)
	require.NoError(t, clone.Density().SetPoint([]float64{0}))
	assert.True(t, math.IsInf(post.Evaluate(), -1), "origin keeps its point")
	assert.False(t, math.IsInf(clone.Evaluate(), -1))

	_, err = density.NewPosterior(d, likelihood.New(p.Clone()))
	assert.Error(t, err)
}
