// Package mcmc implements a random-walk Metropolis sampler over a posterior.
//
// A Sampler owns its posterior exclusively: it writes proposals into the
// posterior's store. Parallel chains each run on their own clone of the store
// and likelihood, so no locking is needed between them.
package mcmc

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"time"

	"github.com/aretw0/eos/internal/logging"
	"github.com/aretw0/eos/pkg/density"
	"github.com/aretw0/eos/pkg/domain"
	"github.com/aretw0/eos/pkg/ports"
	"github.com/google/uuid"
)

// DefaultProposalScale is the proposal width as a fraction of each parameter's range.
const DefaultProposalScale = 0.02

// Observer is notified after every step. Accepted reports whether the proposal was taken.
type Observer func(chainID string, accepted bool, logDensity float64)

// Sampler is a random-walk Metropolis chain.
type Sampler struct {
	posterior *density.Posterior
	density   *density.Density

	chainID  string
	seed     uint64
	seeded   bool
	scale    float64
	logger   *slog.Logger
	store    ports.CheckpointStore
	every    int
	observer Observer

	rng    *rand.Rand
	widths []float64

	step       int
	accepted   int
	current    []float64
	logDensity float64
	proposal   []float64
}

// Option configures a Sampler.
type Option func(*Sampler)

// WithChainID sets the chain identifier. Defaults to a random UUID.
func WithChainID(id string) Option {
	return func(s *Sampler) {
		s.chainID = id
	}
}

// WithSeed makes the chain reproducible.
func WithSeed(seed uint64) Option {
	return func(s *Sampler) {
		s.seed = seed
		s.seeded = true
	}
}

// WithProposalScale sets the Gaussian proposal width relative to parameter ranges.
func WithProposalScale(scale float64) Option {
	return func(s *Sampler) {
		s.scale = scale
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Sampler) {
		s.logger = logger
	}
}

// WithCheckpoints saves the chain state to store every n steps and at the end of Run.
func WithCheckpoints(store ports.CheckpointStore, every int) Option {
	return func(s *Sampler) {
		s.store = store
		s.every = every
	}
}

// WithObserver registers a per-step callback.
func WithObserver(o Observer) Option {
	return func(s *Sampler) {
		s.observer = o
	}
}

// New creates a sampler starting at the posterior's current point, which must
// have a finite log density.
func New(post *density.Posterior, opts ...Option) (*Sampler, error) {
	s := &Sampler{
		posterior: post,
		density:   post.Density(),
		scale:     DefaultProposalScale,
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.chainID == "" {
		s.chainID = uuid.NewString()
	}
	if !s.seeded {
		s.seed = rand.Uint64()
	}
	s.rng = rand.New(rand.NewPCG(s.seed, s.seed^0x9e3779b97f4a7c15))

	if s.density.Len() == 0 {
		return nil, fmt.Errorf("%w: posterior has no varying parameters", domain.ErrDimensionMismatch)
	}
	s.widths = make([]float64, s.density.Len())
	for i, p := range s.density.All() {
		s.widths[i] = s.scale * (p.Max() - p.Min())
	}
	s.proposal = make([]float64, s.density.Len())

	if err := s.reset(s.density.Point()); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Sampler) reset(x []float64) error {
	if err := s.density.SetPoint(x); err != nil {
		return err
	}
	lp := s.posterior.Evaluate()
	if math.IsInf(lp, 0) || math.IsNaN(lp) {
		return fmt.Errorf("chain %s: log density at the starting point is %g", s.chainID, lp)
	}
	s.current = append(s.current[:0], x...)
	s.logDensity = lp
	return nil
}

// ChainID returns the chain identifier.
func (s *Sampler) ChainID() string { return s.chainID }

// Point returns a copy of the current point.
func (s *Sampler) Point() []float64 { return append([]float64(nil), s.current...) }

// LogDensity returns the log posterior at the current point.
func (s *Sampler) LogDensity() float64 { return s.logDensity }

// Step performs one Metropolis update and reports whether the proposal was accepted.
// On return the store holds the chain's current point.
func (s *Sampler) Step() bool {
	s.step++

	for i, x := range s.current {
		s.proposal[i] = x + s.widths[i]*s.rng.NormFloat64()
	}

	accepted := false
	if s.density.InBounds(s.proposal) {
		// SetPoint cannot fail: the proposal has the density's dimension.
		_ = s.density.SetPoint(s.proposal)
		lp := s.posterior.Evaluate()
		if !math.IsNaN(lp) && math.Log(s.rng.Float64()) < lp-s.logDensity {
			copy(s.current, s.proposal)
			s.logDensity = lp
			s.accepted++
			accepted = true
		} else {
			_ = s.density.SetPoint(s.current)
		}
	}

	if s.observer != nil {
		s.observer(s.chainID, accepted, s.logDensity)
	}
	return accepted
}

// Run performs n steps and returns the visited points. It stops early when
// ctx is cancelled, returning the samples gathered so far with ctx.Err().
func (s *Sampler) Run(ctx context.Context, n int) (*Chain, error) {
	chain := &Chain{
		ID:           s.chainID,
		Names:        s.density.Names(),
		Samples:      make([][]float64, 0, n),
		LogDensities: make([]float64, 0, n),
	}
	start := s.accepted

	s.logger.Debug("chain started", "chain", s.chainID, "steps", n, "dimensions", s.density.Len())

	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			chain.Accepted = s.accepted - start
			return chain, err
		}

		s.Step()
		chain.Samples = append(chain.Samples, s.Point())
		chain.LogDensities = append(chain.LogDensities, s.logDensity)

		if s.store != nil && s.every > 0 && s.step%s.every == 0 {
			if err := s.Checkpoint(ctx); err != nil {
				chain.Accepted = s.accepted - start
				return chain, err
			}
		}
	}
	chain.Accepted = s.accepted - start

	if s.store != nil {
		if err := s.Checkpoint(ctx); err != nil {
			return chain, err
		}
	}

	s.logger.Info("chain finished", "chain", s.chainID, "steps", n, "acceptance", chain.AcceptanceRate(), "log_density", s.logDensity)
	return chain, nil
}

// Checkpoint saves the chain state to the configured store.
func (s *Sampler) Checkpoint(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	cp := &domain.Checkpoint{
		ChainID:    s.chainID,
		Step:       s.step,
		Names:      s.density.Names(),
		Values:     s.Point(),
		LogDensity: s.logDensity,
		Accepted:   s.accepted,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.store.Save(ctx, cp); err != nil {
		return fmt.Errorf("chain %s: failed to save checkpoint: %w", s.chainID, err)
	}
	return nil
}

// Restore moves the chain to a saved checkpoint. The checkpoint must name the
// same dimensions, in the same order.
func (s *Sampler) Restore(cp *domain.Checkpoint) error {
	names := s.density.Names()
	if len(cp.Names) != len(names) || len(cp.Values) != len(names) {
		return fmt.Errorf("%w: checkpoint has %d dimensions, density has %d", domain.ErrDimensionMismatch, len(cp.Names), len(names))
	}
	for i := range names {
		if cp.Names[i] != names[i] {
			return fmt.Errorf("%w: checkpoint dimension %d is %s, density has %s", domain.ErrDimensionMismatch, i, cp.Names[i], names[i])
		}
	}

	if err := s.reset(cp.Values); err != nil {
		return err
	}
	s.chainID = cp.ChainID
	s.step = cp.Step
	s.accepted = cp.Accepted
	return nil
}
