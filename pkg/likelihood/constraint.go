package likelihood

import (
	"fmt"
	"math"
	"strings"

	"github.com/aretw0/eos/pkg/domain"
	"github.com/aretw0/eos/pkg/observable"
	"github.com/aretw0/eos/pkg/registry"
)

// Constraint is one experimental or theoretical input: one or more
// probability blocks over observables of the owning likelihood.
type Constraint struct {
	name   string
	blocks []Block
}

// NewConstraint bundles blocks under a name.
func NewConstraint(name string, blocks ...Block) *Constraint {
	return &Constraint{name: name, blocks: blocks}
}

func (c *Constraint) Name() string { return c.name }

// Blocks returns the probability blocks in order.
func (c *Constraint) Blocks() []Block { return append([]Block(nil), c.blocks...) }

// Evaluate sums the log densities of all blocks.
func (c *Constraint) Evaluate() float64 {
	var result float64
	for _, b := range c.blocks {
		result += b.Evaluate()
	}
	return result
}

// NumberOfObservations sums the observation counts of all blocks.
func (c *Constraint) NumberOfObservations() int {
	var n int
	for _, b := range c.blocks {
		n += b.NumberOfObservations()
	}
	return n
}

func (c *Constraint) String() string {
	parts := make([]string, len(c.blocks))
	for i, b := range c.blocks {
		parts[i] = b.String()
	}
	return c.name + " [" + strings.Join(parts, "; ") + "]"
}

// Clone rebinds every block to cache.
func (c *Constraint) Clone(cache *ObservableCache) *Constraint {
	blocks := make([]Block, len(c.blocks))
	for i, b := range c.blocks {
		blocks[i] = b.Clone(cache)
	}
	return &Constraint{name: c.name, blocks: blocks}
}

// Catalog resolves constraint names. It is shared read-only by all likelihoods.
type Catalog interface {
	// Lookup fails with ErrUnknownConstraint for unknown names and with
	// ErrInvalidOptions when o is not acceptable for the entry.
	Lookup(name string, o domain.Options) (ConstraintEntry, error)
}

// ConstraintEntry builds one named constraint with the observables of b.
type ConstraintEntry interface {
	Make(name string, b *Builder, o domain.Options) (*Constraint, error)
}

// Builder creates observables and blocks bound to one likelihood.
type Builder struct {
	cache    *ObservableCache
	registry *registry.Registry
}

// Observable returns the cache id of the named observable, constructing it on
// the likelihood's store if no equal observable exists yet.
func (b *Builder) Observable(name string, k domain.Kinematics, o domain.Options) (int, error) {
	key := observable.MakeKey(name, k, o)
	if id, ok := b.cache.Lookup(key); ok {
		return id, nil
	}

	obs, err := b.registry.Make(name, b.cache.Parameters(), k, o)
	if err != nil {
		return 0, err
	}
	return b.cache.insert(key, obs)
}

// Gaussian builds a symmetric block when max-central equals central-min and an
// asymmetric one otherwise. The interval must satisfy min < central < max.
func (b *Builder) Gaussian(id int, min, central, max float64, observations int) (Block, error) {
	if err := checkInterval(min, central, max); err != nil {
		return nil, err
	}
	if err := checkObservations(observations); err != nil {
		return nil, err
	}

	if central-min == max-central {
		return NewGaussian(b.cache, id, central, (max-min)/2, observations), nil
	}
	return NewAsymmetricGaussian(b.cache, id, min, central, max, observations), nil
}

// StudentT builds a Student's t block.
func (b *Builder) StudentT(id int, central, sigma, dof float64, observations int) (Block, error) {
	if !finite(central, sigma, dof) || sigma <= 0 || dof <= 0 {
		return nil, fmt.Errorf("%w: student-t needs finite central, sigma > 0 and dof > 0 (got %g, %g, %g)",
			domain.ErrMalformedConstraint, central, sigma, dof)
	}
	if err := checkObservations(observations); err != nil {
		return nil, err
	}
	return NewStudentT(b.cache, id, central, sigma, dof, observations), nil
}

// MultivariateGaussian builds a correlated block over ids.
func (b *Builder) MultivariateGaussian(ids []int, mean []float64, covariance [][]float64, observations int) (Block, error) {
	if observations < 0 || observations > len(ids) {
		return nil, fmt.Errorf("%w: %d observations for %d observables", domain.ErrMalformedConstraint, observations, len(ids))
	}
	for _, row := range covariance {
		if !finite(row...) {
			return nil, fmt.Errorf("%w: covariance has non-finite entries", domain.ErrMalformedConstraint)
		}
	}
	if !finite(mean...) {
		return nil, fmt.Errorf("%w: mean has non-finite entries", domain.ErrMalformedConstraint)
	}

	block, err := NewMultivariateGaussian(b.cache, ids, mean, covariance, observations)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrMalformedConstraint, err)
	}
	return block, nil
}

func checkInterval(min, central, max float64) error {
	if !finite(min, central, max) {
		return fmt.Errorf("%w: non-finite interval (%g, %g, %g)", domain.ErrMalformedConstraint, min, central, max)
	}
	if !(min < central && central < max) {
		return fmt.Errorf("%w: interval must satisfy min < central < max (got %g, %g, %g)", domain.ErrMalformedConstraint, min, central, max)
	}
	return nil
}

func checkObservations(n int) error {
	if n != 0 && n != 1 {
		return fmt.Errorf("%w: number of observations must be 0 or 1 (got %d)", domain.ErrMalformedConstraint, n)
	}
	return nil
}

func finite(xs ...float64) bool {
	for _, x := range xs {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}
