package likelihood

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distmv"
	"gonum.org/v1/gonum/stat/distuv"
)

// Block is one probability model over predictions held in an ObservableCache.
// Evaluate reads the predictions as of the cache's last Update.
type Block interface {
	// Evaluate returns the log density of the current predictions.
	Evaluate() float64
	// NumberOfObservations counts the measurements the block contributes to
	// goodness-of-fit statistics. Theory inputs contribute zero.
	NumberOfObservations() int
	// Significance is the signed distance of the predictions from the
	// measurement, in units of standard deviations.
	Significance() float64
	String() string
	// Clone binds a copy of the block to another cache with the same ids.
	Clone(cache *ObservableCache) Block
}

// Gaussian is a symmetric normal measurement of one observable.
type Gaussian struct {
	cache        *ObservableCache
	id           int
	dist         distuv.Normal
	observations int
}

// NewGaussian builds a symmetric Gaussian block with mean central and width sigma.
func NewGaussian(cache *ObservableCache, id int, central, sigma float64, observations int) *Gaussian {
	return &Gaussian{
		cache:        cache,
		id:           id,
		dist:         distuv.Normal{Mu: central, Sigma: sigma},
		observations: observations,
	}
}

func (g *Gaussian) Evaluate() float64 {
	return g.dist.LogProb(g.cache.Predicted(g.id))
}

func (g *Gaussian) NumberOfObservations() int { return g.observations }

func (g *Gaussian) Significance() float64 {
	return (g.cache.Predicted(g.id) - g.dist.Mu) / g.dist.Sigma
}

func (g *Gaussian) String() string {
	return fmt.Sprintf("Gaussian: %g +- %g", g.dist.Mu, g.dist.Sigma)
}

func (g *Gaussian) Clone(cache *ObservableCache) Block {
	clone := *g
	clone.cache = cache
	return &clone
}

// AsymmetricGaussian joins two half-Gaussians of different width at the
// central value, with common normalisation 2/(sqrt(2 pi) (sigmaLower + sigmaUpper)).
type AsymmetricGaussian struct {
	cache        *ObservableCache
	id           int
	central      float64
	lower        float64
	upper        float64
	observations int

	lowerDist, upperDist distuv.Normal
	// lowerNorm and upperNorm turn a half-Gaussian's own normalisation into the common one.
	lowerNorm, upperNorm float64
}

// NewAsymmetricGaussian builds a block from the interval [min, max] around central.
func NewAsymmetricGaussian(cache *ObservableCache, id int, min, central, max float64, observations int) *AsymmetricGaussian {
	lower, upper := central-min, max-central
	logHalfWidth := math.Log((lower + upper) / 2)
	return &AsymmetricGaussian{
		cache:        cache,
		id:           id,
		central:      central,
		lower:        lower,
		upper:        upper,
		observations: observations,
		lowerDist:    distuv.Normal{Mu: central, Sigma: lower},
		upperDist:    distuv.Normal{Mu: central, Sigma: upper},
		lowerNorm:    math.Log(lower) - logHalfWidth,
		upperNorm:    math.Log(upper) - logHalfWidth,
	}
}

func (a *AsymmetricGaussian) Evaluate() float64 {
	x := a.cache.Predicted(a.id)
	if x < a.central {
		return a.lowerDist.LogProb(x) + a.lowerNorm
	}
	return a.upperDist.LogProb(x) + a.upperNorm
}

func (a *AsymmetricGaussian) NumberOfObservations() int { return a.observations }

func (a *AsymmetricGaussian) Significance() float64 {
	x := a.cache.Predicted(a.id)
	if x < a.central {
		return (x - a.central) / a.lower
	}
	return (x - a.central) / a.upper
}

func (a *AsymmetricGaussian) String() string {
	return fmt.Sprintf("AsymmetricGaussian: %g +%g -%g", a.central, a.upper, a.lower)
}

func (a *AsymmetricGaussian) Clone(cache *ObservableCache) Block {
	clone := *a
	clone.cache = cache
	return &clone
}

// General evaluates a prediction under any univariate distribution.
// Significance is derived from the log-density drop relative to mode.
type General struct {
	cache        *ObservableCache
	id           int
	dist         distuv.LogProber
	mode         float64
	label        string
	observations int
}

// NewGeneral wraps dist, whose maximum lies at mode.
func NewGeneral(cache *ObservableCache, id int, dist distuv.LogProber, mode float64, label string, observations int) *General {
	return &General{
		cache:        cache,
		id:           id,
		dist:         dist,
		mode:         mode,
		label:        label,
		observations: observations,
	}
}

// NewStudentT builds a location-scale Student's t block.
func NewStudentT(cache *ObservableCache, id int, central, sigma, dof float64, observations int) *General {
	return NewGeneral(cache, id,
		distuv.StudentsT{Mu: central, Sigma: sigma, Nu: dof},
		central,
		fmt.Sprintf("StudentT: %g +- %g (nu = %g)", central, sigma, dof),
		observations)
}

func (g *General) Evaluate() float64 {
	return g.dist.LogProb(g.cache.Predicted(g.id))
}

func (g *General) NumberOfObservations() int { return g.observations }

func (g *General) Significance() float64 {
	x := g.cache.Predicted(g.id)
	drop := g.dist.LogProb(g.mode) - g.dist.LogProb(x)
	s := math.Sqrt(2 * math.Max(drop, 0))
	if x < g.mode {
		return -s
	}
	return s
}

func (g *General) String() string { return g.label }

func (g *General) Clone(cache *ObservableCache) Block {
	clone := *g
	clone.cache = cache
	return &clone
}

// MultivariateGaussian is a correlated normal measurement of several observables.
type MultivariateGaussian struct {
	cache        *ObservableCache
	ids          []int
	mean         []float64
	cov          *mat.SymDense
	dist         *distmv.Normal
	peak         float64
	observations int

	x []float64
}

// NewMultivariateGaussian builds the block from a mean vector and a symmetric,
// positive definite covariance matrix given row by row.
func NewMultivariateGaussian(cache *ObservableCache, ids []int, mean []float64, covariance [][]float64, observations int) (*MultivariateGaussian, error) {
	n := len(ids)
	if len(mean) != n || len(covariance) != n {
		return nil, fmt.Errorf("multivariate gaussian: %d observables, %d means, %d covariance rows", n, len(mean), len(covariance))
	}

	data := make([]float64, 0, n*n)
	for i, row := range covariance {
		if len(row) != n {
			return nil, fmt.Errorf("multivariate gaussian: covariance row %d has %d entries, want %d", i, len(row), n)
		}
		data = append(data, row...)
	}
	for i := 0; i < n; i++ {
		for j := 0; j < i; j++ {
			if data[i*n+j] != data[j*n+i] {
				return nil, fmt.Errorf("multivariate gaussian: covariance is not symmetric at (%d, %d)", i, j)
			}
		}
	}

	return newMultivariateGaussian(cache, append([]int(nil), ids...), append([]float64(nil), mean...), mat.NewSymDense(n, data), observations)
}

func newMultivariateGaussian(cache *ObservableCache, ids []int, mean []float64, cov *mat.SymDense, observations int) (*MultivariateGaussian, error) {
	dist, ok := distmv.NewNormal(mean, cov, nil)
	if !ok {
		return nil, fmt.Errorf("multivariate gaussian: covariance is not positive definite")
	}
	return &MultivariateGaussian{
		cache:        cache,
		ids:          ids,
		mean:         mean,
		cov:          cov,
		dist:         dist,
		peak:         dist.LogProb(mean),
		observations: observations,
		x:            make([]float64, len(ids)),
	}, nil
}

func (m *MultivariateGaussian) predictions() []float64 {
	for i, id := range m.ids {
		m.x[i] = m.cache.Predicted(id)
	}
	return m.x
}

func (m *MultivariateGaussian) Evaluate() float64 {
	return m.dist.LogProb(m.predictions())
}

func (m *MultivariateGaussian) NumberOfObservations() int { return m.observations }

// Significance is the Mahalanobis distance of the predictions from the mean.
func (m *MultivariateGaussian) Significance() float64 {
	chi2 := 2 * (m.peak - m.Evaluate())
	return math.Sqrt(math.Max(chi2, 0))
}

func (m *MultivariateGaussian) String() string {
	parts := make([]string, len(m.mean))
	for i, mu := range m.mean {
		parts[i] = fmt.Sprintf("%g +- %g", mu, math.Sqrt(m.cov.At(i, i)))
	}
	return "MultivariateGaussian: (" + strings.Join(parts, ", ") + ")"
}

func (m *MultivariateGaussian) Clone(cache *ObservableCache) Block {
	clone, err := newMultivariateGaussian(cache, m.ids, m.mean, m.cov, m.observations)
	if err != nil {
		// The covariance was accepted once already.
		panic(err)
	}
	return clone
}
