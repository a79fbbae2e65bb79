package mcmc

import (
	"context"
	"fmt"

	"github.com/aretw0/eos/pkg/density"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"
)

// Chain holds the points visited by one sampler run.
type Chain struct {
	ID           string      `json:"id"`
	Names        []string    `json:"names"`
	Samples      [][]float64 `json:"samples"`
	LogDensities []float64   `json:"log_densities"`
	Accepted     int         `json:"accepted"`
}

// Len returns the number of samples.
func (c *Chain) Len() int { return len(c.Samples) }

// AcceptanceRate is the fraction of accepted proposals.
func (c *Chain) AcceptanceRate() float64 {
	if len(c.Samples) == 0 {
		return 0
	}
	return float64(c.Accepted) / float64(len(c.Samples))
}

// Column returns the samples of dimension i.
func (c *Chain) Column(i int) []float64 {
	col := make([]float64, len(c.Samples))
	for j, x := range c.Samples {
		col[j] = x[i]
	}
	return col
}

// MeanStdDev returns the sample mean and standard deviation of dimension i.
func (c *Chain) MeanStdDev(i int) (mean, std float64) {
	return stat.MeanStdDev(c.Column(i), nil)
}

// RunChains runs the given number of independent chains of n steps in parallel.
// Every chain samples its own clone of post; post itself is never touched.
// Chain k is seeded with seed+k so a run is reproducible. Every chain gets a
// fresh random ID; opts should not set one.
func RunChains(ctx context.Context, post *density.Posterior, chains, n int, seed uint64, opts ...Option) ([]*Chain, error) {
	// 1. Clone sequentially: cloning reads the origin store
	clones := make([]*density.Posterior, chains)
	for i := range clones {
		clone, err := post.Clone()
		if err != nil {
			return nil, fmt.Errorf("failed to clone posterior for chain %d: %w", i, err)
		}
		clones[i] = clone
	}

	// 2. Sample in parallel, one clone per goroutine
	results := make([]*Chain, chains)
	g, ctx := errgroup.WithContext(ctx)
	for i, clone := range clones {
		g.Go(func() error {
			chainOpts := append(append([]Option(nil), opts...), WithSeed(seed+uint64(i)))
			s, err := New(clone, chainOpts...)
			if err != nil {
				return err
			}
			chain, err := s.Run(ctx, n)
			results[i] = chain
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
