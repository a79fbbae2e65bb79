// Package density exposes the varying parameters of one store to samplers and
// fitters as an ordered, positional vector.
//
// Dimension i always names the same parameter: order is the order of the
// dimensions given to New, or store registration order for Free.
package density

import (
	"fmt"
	"iter"
	"math"

	"github.com/aretw0/eos/pkg/domain"
	"github.com/aretw0/eos/pkg/parameters"
)

// Dimension selects one varying parameter and its prior.
type Dimension struct {
	Name string
	// Prior defaults to a flat prior over the parameter's bounds.
	Prior Prior
}

type dimension struct {
	parameter parameters.Parameter
	prior     Prior
}

// Density is a view over a subset of the parameters of one store.
type Density struct {
	store *parameters.Parameters
	dims  []dimension
}

// New builds a density over the named parameters of p.
func New(p *parameters.Parameters, dims ...Dimension) (*Density, error) {
	d := &Density{store: p, dims: make([]dimension, 0, len(dims))}
	seen := make(map[string]struct{}, len(dims))

	for _, dim := range dims {
		if _, dup := seen[dim.Name]; dup {
			return nil, fmt.Errorf("%w: %s appears twice", domain.ErrDuplicateParameter, dim.Name)
		}
		seen[dim.Name] = struct{}{}

		param, err := p.Get(dim.Name)
		if err != nil {
			return nil, err
		}
		prior := dim.Prior
		if prior == nil {
			if !(param.Min() < param.Max()) {
				return nil, fmt.Errorf("density: %s has an empty range [%g, %g]", dim.Name, param.Min(), param.Max())
			}
			prior = Flat{Min: param.Min(), Max: param.Max()}
		}
		d.dims = append(d.dims, dimension{parameter: param, prior: prior})
	}

	return d, nil
}

// Free builds a density over every non-fixed parameter of p, in registration order.
func Free(p *parameters.Parameters) (*Density, error) {
	var dims []Dimension
	for param := range p.All() {
		if param.Fixed() {
			continue
		}
		dims = append(dims, Dimension{Name: param.Name()})
	}
	return New(p, dims...)
}

// Parameters returns the underlying store.
func (d *Density) Parameters() *parameters.Parameters { return d.store }

// Len returns the number of dimensions.
func (d *Density) Len() int { return len(d.dims) }

// Dimension returns the handle of dimension i.
func (d *Density) Dimension(i int) parameters.Parameter { return d.dims[i].parameter }

// Prior returns the prior of dimension i.
func (d *Density) Prior(i int) Prior { return d.dims[i].prior }

// All yields the dimensions in order. Each call starts a new, independent traversal.
func (d *Density) All() iter.Seq2[int, parameters.Parameter] {
	return func(yield func(int, parameters.Parameter) bool) {
		for i, dim := range d.dims {
			if !yield(i, dim.parameter) {
				return
			}
		}
	}
}

// Names returns the parameter names in dimension order.
func (d *Density) Names() []string {
	names := make([]string, len(d.dims))
	for i, dim := range d.dims {
		names[i] = dim.parameter.Name()
	}
	return names
}

// Point returns the current values in dimension order.
func (d *Density) Point() []float64 {
	x := make([]float64, len(d.dims))
	for i, dim := range d.dims {
		x[i] = dim.parameter.Value()
	}
	return x
}

// SetPoint writes x into the store.
func (d *Density) SetPoint(x []float64) error {
	if len(x) != len(d.dims) {
		return fmt.Errorf("%w: point has %d coordinates, density has %d dimensions", domain.ErrDimensionMismatch, len(x), len(d.dims))
	}
	for i, dim := range d.dims {
		dim.parameter.Set(x[i])
	}
	return nil
}

// InBounds reports whether x lies within the bounds of every parameter.
func (d *Density) InBounds(x []float64) bool {
	if len(x) != len(d.dims) {
		return false
	}
	for i, dim := range d.dims {
		if x[i] < dim.parameter.Min() || x[i] > dim.parameter.Max() {
			return false
		}
	}
	return true
}

// LogPrior sums the log priors at the current point.
func (d *Density) LogPrior() float64 {
	var result float64
	for _, dim := range d.dims {
		result += dim.prior.LogDensity(dim.parameter.Value())
		if math.IsInf(result, -1) {
			return result
		}
	}
	return result
}

// Clone builds the same view over store p.
func (d *Density) Clone(p *parameters.Parameters) (*Density, error) {
	clone := &Density{store: p, dims: make([]dimension, len(d.dims))}
	for i, dim := range d.dims {
		param, err := dim.parameter.Rebind(p)
		if err != nil {
			return nil, err
		}
		clone.dims[i] = dimension{parameter: param, prior: dim.prior}
	}
	return clone, nil
}
