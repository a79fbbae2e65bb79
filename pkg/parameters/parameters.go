package parameters

import (
	"fmt"
	"iter"

	"github.com/aretw0/eos/pkg/domain"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Definition describes one parameter: its identity, default value and bounds.
type Definition struct {
	Name    string  `yaml:"name" json:"name" mapstructure:"name" validate:"required"`
	Central float64 `yaml:"central" json:"central" mapstructure:"central" validate:"gtefield=Min,ltefield=Max"`
	Min     float64 `yaml:"min" json:"min" mapstructure:"min"`
	Max     float64 `yaml:"max" json:"max" mapstructure:"max" validate:"gtefield=Min"`
	Unit    string  `yaml:"unit,omitempty" json:"unit,omitempty" mapstructure:"unit"`

	// Fixed parameters are excluded from the free set exposed to samplers.
	Fixed bool `yaml:"fixed,omitempty" json:"fixed,omitempty" mapstructure:"fixed"`
}

// table is the immutable layout shared by a store and its clones.
type table struct {
	defs  []Definition
	index map[string]int
}

func (t *table) with(def Definition) *table {
	next := &table{
		defs:  make([]Definition, len(t.defs), len(t.defs)+1),
		index: make(map[string]int, len(t.index)+1),
	}
	copy(next.defs, t.defs)
	for k, v := range t.index {
		next.index[k] = v
	}
	next.index[def.Name] = len(next.defs)
	next.defs = append(next.defs, def)
	return next
}

// Parameters is the canonical store mapping parameter names to current values.
// Iteration order equals registration order.
type Parameters struct {
	table  *table
	values []float64
}

// New creates a store from definitions, in order. Values start at Central.
func New(defs ...Definition) (*Parameters, error) {
	p := &Parameters{
		table:  &table{index: make(map[string]int, len(defs))},
		values: make([]float64, 0, len(defs)),
	}

	for _, def := range defs {
		if err := validate.Struct(def); err != nil {
			return nil, fmt.Errorf("parameter %q: %w", def.Name, err)
		}
		if _, exists := p.table.index[def.Name]; exists {
			return nil, fmt.Errorf("%w: %s", domain.ErrDuplicateParameter, def.Name)
		}
		p.table.index[def.Name] = len(p.table.defs)
		p.table.defs = append(p.table.defs, def)
		p.values = append(p.values, def.Central)
	}

	return p, nil
}

// Declare adds a parameter to this store only. Clones made earlier do not see it.
// Existing handles stay valid.
func (p *Parameters) Declare(def Definition) (Parameter, error) {
	if err := validate.Struct(def); err != nil {
		return Parameter{}, fmt.Errorf("parameter %q: %w", def.Name, err)
	}
	if _, exists := p.table.index[def.Name]; exists {
		return Parameter{}, fmt.Errorf("%w: %s", domain.ErrDuplicateParameter, def.Name)
	}

	p.table = p.table.with(def)
	p.values = append(p.values, def.Central)
	return Parameter{store: p, index: len(p.values) - 1}, nil
}

// Get resolves a name to a handle.
func (p *Parameters) Get(name string) (Parameter, error) {
	i, ok := p.table.index[name]
	if !ok {
		return Parameter{}, fmt.Errorf("%w: %s", domain.ErrUnknownParameter, name)
	}
	return Parameter{store: p, index: i}, nil
}

// Has reports whether name is declared in this store.
func (p *Parameters) Has(name string) bool {
	_, ok := p.table.index[name]
	return ok
}

// Value returns the current value of name.
func (p *Parameters) Value(name string) (float64, error) {
	param, err := p.Get(name)
	if err != nil {
		return 0, err
	}
	return param.Value(), nil
}

// Set is the mutation path by name. It never allocates.
func (p *Parameters) Set(name string, value float64) error {
	i, ok := p.table.index[name]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrUnknownParameter, name)
	}
	p.values[i] = value
	return nil
}

// Clone returns an independent store with the same layout and current values.
// Complexity: O(n) in the number of parameters.
func (p *Parameters) Clone() *Parameters {
	values := make([]float64, len(p.values))
	copy(values, p.values)
	return &Parameters{table: p.table, values: values}
}

// Reset restores every parameter to its central value.
func (p *Parameters) Reset() {
	for i, def := range p.table.defs {
		p.values[i] = def.Central
	}
}

// Len returns the number of parameters.
func (p *Parameters) Len() int { return len(p.values) }

// All yields every parameter in registration order.
func (p *Parameters) All() iter.Seq[Parameter] {
	return func(yield func(Parameter) bool) {
		for i := range p.values {
			if !yield(Parameter{store: p, index: i}) {
				return
			}
		}
	}
}

// Names returns the parameter names in registration order.
func (p *Parameters) Names() []string {
	names := make([]string, len(p.table.defs))
	for i, def := range p.table.defs {
		names[i] = def.Name
	}
	return names
}

// Definitions returns a copy of the definition table.
func (p *Parameters) Definitions() []Definition {
	defs := make([]Definition, len(p.table.defs))
	copy(defs, p.table.defs)
	return defs
}

// Values returns a copy of the current values in registration order.
func (p *Parameters) Values() []float64 {
	values := make([]float64, len(p.values))
	copy(values, p.values)
	return values
}

// SetValues overwrites every value positionally.
func (p *Parameters) SetValues(values []float64) error {
	if len(values) != len(p.values) {
		return fmt.Errorf("%w: got %d values for %d parameters", domain.ErrDimensionMismatch, len(values), len(p.values))
	}
	copy(p.values, values)
	return nil
}

// Parameter is a handle to one entry of one store. It is a small value type:
// copying it does not copy the parameter, and it always reads the live value.
type Parameter struct {
	store *Parameters
	index int
}

// Name returns the parameter name.
func (p Parameter) Name() string { return p.store.table.defs[p.index].Name }

// Value returns the current value.
func (p Parameter) Value() float64 { return p.store.values[p.index] }

// Set overwrites the current value.
func (p Parameter) Set(value float64) { p.store.values[p.index] = value }

// Min returns the lower bound.
func (p Parameter) Min() float64 { return p.store.table.defs[p.index].Min }

// Max returns the upper bound.
func (p Parameter) Max() float64 { return p.store.table.defs[p.index].Max }

// Central returns the default value.
func (p Parameter) Central() float64 { return p.store.table.defs[p.index].Central }

// Unit returns the unit label, possibly empty.
func (p Parameter) Unit() string { return p.store.table.defs[p.index].Unit }

// Fixed reports whether the parameter is excluded from the free set.
func (p Parameter) Fixed() bool { return p.store.table.defs[p.index].Fixed }

// Index returns the position of the parameter in its store.
func (p Parameter) Index() int { return p.index }

// Definition returns the parameter's definition.
func (p Parameter) Definition() Definition { return p.store.table.defs[p.index] }

// Valid reports whether the handle refers to a store.
func (p Parameter) Valid() bool { return p.store != nil }

// Rebind resolves the same parameter in another store. Clones share the
// layout so the index is reused directly; other stores are searched by name.
func (p Parameter) Rebind(other *Parameters) (Parameter, error) {
	if p.index < len(other.table.defs) && other.table.defs[p.index].Name == p.Name() {
		return Parameter{store: other, index: p.index}, nil
	}
	return other.Get(p.Name())
}
