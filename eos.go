package eos

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/eos/internal/logging"
	"github.com/aretw0/eos/internal/presentation/tui"
	"github.com/aretw0/eos/pkg/catalog"
	"github.com/aretw0/eos/pkg/density"
	"github.com/aretw0/eos/pkg/domain"
	"github.com/aretw0/eos/pkg/likelihood"
	"github.com/aretw0/eos/pkg/mcmc"
	"github.com/aretw0/eos/pkg/observability"
	"github.com/aretw0/eos/pkg/parameters"
	"github.com/aretw0/eos/pkg/registry"
)

// engine is the part of the likelihood an Analysis drives. It is satisfied by
// both the plain and the instrumented likelihood.
type engine interface {
	Evaluate() float64
	AddConstraintByName(name string, o domain.Options) error
	AddGaussianConstraint(obs string, min, central, max float64, observations int, k domain.Kinematics, o domain.Options) error
}

// Analysis is the high-level entry point of the library. It owns one
// parameter store and the likelihood built on it.
//
// An Analysis is not safe for concurrent use: all of its parts share the
// store. Use Clone to obtain an independent copy for another goroutine.
type Analysis struct {
	params     *parameters.Parameters
	catalog    *catalog.Catalog
	registry   *registry.Registry
	likelihood *likelihood.LogLikelihood
	engine     engine
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// Option defines a functional option for configuring an Analysis.
type Option func(*Analysis)

// WithParameters uses p instead of the default parameter set.
func WithParameters(p *parameters.Parameters) Option {
	return func(a *Analysis) {
		a.params = p
	}
}

// WithCatalog uses c instead of the embedded constraint catalog.
func WithCatalog(c *catalog.Catalog) Option {
	return func(a *Analysis) {
		a.catalog = c
	}
}

// WithRegistry sets the observable registry.
func WithRegistry(r *registry.Registry) Option {
	return func(a *Analysis) {
		a.registry = r
	}
}

// WithMetrics records evaluations and constraint additions in m.
func WithMetrics(m *observability.Metrics) Option {
	return func(a *Analysis) {
		a.metrics = m
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Analysis) {
		a.logger = logger
	}
}

// New creates an Analysis with no constraints.
func New(opts ...Option) *Analysis {
	a := &Analysis{}
	for _, opt := range opts {
		opt(a)
	}

	if a.logger == nil {
		a.logger = logging.NewNop()
	}
	if a.params == nil {
		a.params = parameters.Defaults()
	}
	if a.catalog == nil {
		a.catalog = catalog.Default()
	}
	if a.registry == nil {
		a.registry = registry.Default(a.logger)
	}

	a.likelihood = likelihood.New(a.params,
		likelihood.WithCatalog(a.catalog),
		likelihood.WithRegistry(a.registry),
		likelihood.WithLogger(a.logger),
	)
	a.wire()
	return a
}

func (a *Analysis) wire() {
	a.engine = a.likelihood
	if a.metrics != nil {
		a.engine = observability.Instrument(a.likelihood, a.metrics)
	}
}

// Parameters returns the store every part of the analysis reads.
func (a *Analysis) Parameters() *parameters.Parameters { return a.params }

// Catalog returns the constraint catalog.
func (a *Analysis) Catalog() *catalog.Catalog { return a.catalog }

// Likelihood returns the underlying likelihood.
func (a *Analysis) Likelihood() *likelihood.LogLikelihood { return a.likelihood }

// Set changes the value of a parameter.
func (a *Analysis) Set(name string, value float64) error {
	return a.params.Set(name, value)
}

// AddConstraint adds the catalog constraint called name.
func (a *Analysis) AddConstraint(name string, o domain.Options) error {
	if err := a.engine.AddConstraintByName(name, o); err != nil {
		return err
	}
	a.logger.Debug("constraint added", "constraint", name, "options", o.String())
	return nil
}

// AddGaussianConstraint adds an ad-hoc Gaussian constraint on one observable.
func (a *Analysis) AddGaussianConstraint(obs string, min, central, max float64, observations int, k domain.Kinematics, o domain.Options) error {
	if err := a.engine.AddGaussianConstraint(obs, min, central, max, observations, k, o); err != nil {
		return err
	}
	a.logger.Debug("gaussian constraint added", "observable", obs, "central", central)
	return nil
}

// Evaluate returns the log likelihood at the current parameter values.
func (a *Analysis) Evaluate() float64 {
	return a.engine.Evaluate()
}

// Summary describes every constraint at the current parameter values.
func (a *Analysis) Summary() []likelihood.ConstraintSummary {
	a.likelihood.Evaluate()
	return a.likelihood.Summary()
}

// Report renders the current state of the likelihood as markdown.
func (a *Analysis) Report() string {
	a.likelihood.Evaluate()
	return tui.Report(a.likelihood)
}

// Clone returns an independent analysis on a copy of the store. Constraints
// are shared in content but evaluate against the copy.
func (a *Analysis) Clone() (*Analysis, error) {
	p := a.params.Clone()
	l, err := a.likelihood.Clone(p)
	if err != nil {
		return nil, fmt.Errorf("failed to clone likelihood: %w", err)
	}
	c := &Analysis{
		params:     p,
		catalog:    a.catalog,
		registry:   a.registry,
		likelihood: l,
		metrics:    a.metrics,
		logger:     a.logger,
	}
	c.wire()
	return c, nil
}

// Posterior combines the likelihood with a prior over the given dimensions.
// With no dimensions, every parameter the likelihood uses and that is not
// fixed varies with a flat prior over its range, in parameter-set order.
func (a *Analysis) Posterior(dims ...density.Dimension) (*density.Posterior, error) {
	if len(dims) == 0 {
		used := make(map[string]bool)
		for _, name := range a.likelihood.UsedParameterNames() {
			used[name] = true
		}
		for p := range a.params.All() {
			if used[p.Name()] && !p.Fixed() {
				dims = append(dims, density.Dimension{Name: p.Name()})
			}
		}
	}

	d, err := density.New(a.params, dims...)
	if err != nil {
		return nil, err
	}
	return density.NewPosterior(d, a.likelihood)
}

// Sample runs independent Metropolis chains over the posterior of the given
// dimensions. The analysis store is left untouched.
func (a *Analysis) Sample(ctx context.Context, chains, steps int, seed uint64, dims []density.Dimension, opts ...mcmc.Option) ([]*mcmc.Chain, error) {
	post, err := a.Posterior(dims...)
	if err != nil {
		return nil, err
	}

	opts = append([]mcmc.Option{mcmc.WithLogger(a.logger)}, opts...)
	if a.metrics != nil {
		opts = append(opts, mcmc.WithObserver(a.metrics.SamplerObserver()))
	}

	a.logger.Info("sampling", "chains", chains, "steps", steps, "dimensions", len(post.Density().Names()))
	return mcmc.RunChains(ctx, post, chains, steps, seed, opts...)
}
