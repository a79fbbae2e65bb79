package density

import (
	"fmt"
	"math"

	"github.com/aretw0/eos/pkg/likelihood"
)

// Posterior is the unnormalised log posterior of a density under a likelihood.
// Both must be bound to the same store.
type Posterior struct {
	density    *Density
	likelihood *likelihood.LogLikelihood
}

// NewPosterior pairs d with l.
func NewPosterior(d *Density, l *likelihood.LogLikelihood) (*Posterior, error) {
	if d.Parameters() != l.Parameters() {
		return nil, fmt.Errorf("posterior: density and likelihood are bound to different stores")
	}
	return &Posterior{density: d, likelihood: l}, nil
}

func (p *Posterior) Density() *Density                     { return p.density }
func (p *Posterior) Likelihood() *likelihood.LogLikelihood { return p.likelihood }

// Evaluate returns log prior plus log likelihood at the current point. Points
// outside the prior support are rejected without evaluating the likelihood.
func (p *Posterior) Evaluate() float64 {
	prior := p.density.LogPrior()
	if math.IsInf(prior, -1) {
		return prior
	}
	return prior + p.likelihood.Evaluate()
}

// Clone builds an independent posterior over a fresh clone of the store.
func (p *Posterior) Clone() (*Posterior, error) {
	store := p.density.Parameters().Clone()

	d, err := p.density.Clone(store)
	if err != nil {
		return nil, err
	}
	l, err := p.likelihood.Clone(store)
	if err != nil {
		return nil, err
	}
	return &Posterior{density: d, likelihood: l}, nil
}
