// Package likelihood aggregates experimental and theoretical constraints into
// one log-density over a parameter store.
//
// A LogLikelihood owns an ObservableCache bound to a single store. Every
// constraint reads its predictions from that cache, so one Set on the store
// moves every prediction consistently. Instances are not safe for concurrent
// use; parallel samplers give each worker its own Clone.
package likelihood

import (
	"fmt"
	"log/slog"

	"github.com/aretw0/eos/internal/logging"
	"github.com/aretw0/eos/pkg/domain"
	"github.com/aretw0/eos/pkg/parameters"
	"github.com/aretw0/eos/pkg/registry"
)

// LogLikelihood is the sum of the log densities of an ordered list of constraints.
type LogLikelihood struct {
	params      *parameters.Parameters
	cache       *ObservableCache
	constraints []*Constraint

	catalog  Catalog
	registry *registry.Registry
	logger   *slog.Logger
}

// Option configures a LogLikelihood.
type Option func(*LogLikelihood)

// WithCatalog sets the catalog consulted by AddConstraintByName.
func WithCatalog(c Catalog) Option {
	return func(l *LogLikelihood) {
		l.catalog = c
	}
}

// WithRegistry sets the observable registry. Defaults to registry.Default.
func WithRegistry(r *registry.Registry) Option {
	return func(l *LogLikelihood) {
		l.registry = r
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *LogLikelihood) {
		l.logger = logger
	}
}

// New creates an empty likelihood over store p.
func New(p *parameters.Parameters, opts ...Option) *LogLikelihood {
	l := &LogLikelihood{
		params: p,
		cache:  NewObservableCache(p),
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.registry == nil {
		l.registry = registry.Default(l.logger)
	}
	return l
}

// Parameters returns the store all constraints are bound to.
func (l *LogLikelihood) Parameters() *parameters.Parameters { return l.params }

// Observables returns the cache of distinct observables.
func (l *LogLikelihood) Observables() *ObservableCache { return l.cache }

// Constraints returns the constraints in insertion order.
func (l *LogLikelihood) Constraints() []*Constraint {
	return append([]*Constraint(nil), l.constraints...)
}

// Len returns the number of constraints.
func (l *LogLikelihood) Len() int { return len(l.constraints) }

// NumberOfObservations counts the measurements over all constraints.
func (l *LogLikelihood) NumberOfObservations() int {
	var n int
	for _, c := range l.constraints {
		n += c.NumberOfObservations()
	}
	return n
}

// UsedParameterNames is the union of the footprints of all observables.
func (l *LogLikelihood) UsedParameterNames() []string {
	return l.cache.UsedParameterNames()
}

// Builder returns a builder adding observables to this likelihood's cache.
// Constraints built with it may be passed to AddConstraint.
func (l *LogLikelihood) Builder() *Builder {
	return &Builder{cache: l.cache, registry: l.registry}
}

// AddConstraint appends a constraint built with this likelihood's Builder.
func (l *LogLikelihood) AddConstraint(c *Constraint) {
	l.constraints = append(l.constraints, c)
	l.logger.Debug("constraint added", "constraint", c.Name(), "observations", c.NumberOfObservations())
}

// AddConstraintByName resolves name in the catalog and appends the constraint.
// On failure the likelihood is left unchanged.
func (l *LogLikelihood) AddConstraintByName(name string, o domain.Options) error {
	if l.catalog == nil {
		return fmt.Errorf("%w: %s (no catalog configured)", domain.ErrUnknownConstraint, name)
	}

	entry, err := l.catalog.Lookup(name, o)
	if err != nil {
		return fmt.Errorf("constraint %s: %w", name, err)
	}

	mark := l.cache.mark()
	c, err := entry.Make(name, l.Builder(), o)
	if err != nil {
		l.cache.rollback(mark)
		return fmt.Errorf("constraint %s: %w", name, err)
	}

	l.AddConstraint(c)
	return nil
}

// AddGaussianConstraint appends an ad-hoc Gaussian constraint on one
// observable. The block is asymmetric when max-central differs from
// central-min. observations is 1 for a measurement and 0 for a theory input.
// On failure the likelihood is left unchanged.
func (l *LogLikelihood) AddGaussianConstraint(obs string, min, central, max float64, observations int, k domain.Kinematics, o domain.Options) error {
	// 1. Validate before touching the cache
	if err := checkInterval(min, central, max); err != nil {
		return fmt.Errorf("constraint on %s: %w", obs, err)
	}
	if err := checkObservations(observations); err != nil {
		return fmt.Errorf("constraint on %s: %w", obs, err)
	}

	// 2. Resolve the observable
	mark := l.cache.mark()
	b := l.Builder()
	id, err := b.Observable(obs, k, o)
	if err != nil {
		l.cache.rollback(mark)
		return fmt.Errorf("constraint on %s: %w", obs, err)
	}

	// 3. Build the block
	block, err := b.Gaussian(id, min, central, max, observations)
	if err != nil {
		l.cache.rollback(mark)
		return fmt.Errorf("constraint on %s: %w", obs, err)
	}

	l.AddConstraint(NewConstraint(obs, block))
	return nil
}

// Evaluate re-evaluates every observable and returns the summed log density.
func (l *LogLikelihood) Evaluate() float64 {
	l.cache.Update()

	var result float64
	for _, c := range l.constraints {
		result += c.Evaluate()
	}
	return result
}

// Clone builds an equivalent likelihood over store p, typically a clone of
// this likelihood's store. Catalog, registry and logger are shared.
func (l *LogLikelihood) Clone(p *parameters.Parameters) (*LogLikelihood, error) {
	cache, err := l.cache.Clone(p)
	if err != nil {
		return nil, err
	}

	clone := &LogLikelihood{
		params:      p,
		cache:       cache,
		constraints: make([]*Constraint, len(l.constraints)),
		catalog:     l.catalog,
		registry:    l.registry,
		logger:      l.logger,
	}
	for i, c := range l.constraints {
		clone.constraints[i] = c.Clone(cache)
	}
	return clone, nil
}

// ConstraintSummary reports one constraint at the current parameter point.
type ConstraintSummary struct {
	Name          string    `json:"name"`
	LogDensity    float64   `json:"log_density"`
	Observations  int       `json:"observations"`
	Significances []float64 `json:"significances"`
	Description   string    `json:"description"`
}

// Summary evaluates every constraint at the current parameter point.
func (l *LogLikelihood) Summary() []ConstraintSummary {
	l.cache.Update()

	summary := make([]ConstraintSummary, len(l.constraints))
	for i, c := range l.constraints {
		s := ConstraintSummary{
			Name:         c.Name(),
			LogDensity:   c.Evaluate(),
			Observations: c.NumberOfObservations(),
			Description:  c.String(),
		}
		for _, b := range c.blocks {
			s.Significances = append(s.Significances, b.Significance())
		}
		summary[i] = s
	}
	return summary
}
