package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"
	"time"

	"github.com/aretw0/eos"
	"github.com/aretw0/eos/pkg/adapters/memory"
	"github.com/aretw0/eos/pkg/adapters/redis"
	"github.com/aretw0/eos/pkg/mcmc"
	"github.com/aretw0/eos/pkg/ports"
)

// SampleOptions configure a sampling run.
type SampleOptions struct {
	Chains          int
	Steps           int
	Seed            uint64
	ProposalScale   float64
	CheckpointEvery int
	// RedisAddr selects the redis checkpoint store. Empty keeps checkpoints in memory.
	RedisAddr     string
	CheckpointTTL time.Duration
	JSON          bool
}

// RunSample samples the posterior of the analysis and writes a summary of
// every chain to w, or the chains themselves with JSON set.
func RunSample(ctx context.Context, w io.Writer, a *eos.Analysis, opts SampleOptions, logger *slog.Logger) error {
	var (
		store ports.CheckpointStore
		rs    *redis.Store
	)
	if opts.RedisAddr != "" {
		rs = redis.New(opts.RedisAddr, "", 0, redis.WithTTL(opts.CheckpointTTL))
		defer rs.Close()
		store = rs
		logger.Info("checkpointing to redis", "addr", opts.RedisAddr)
	} else {
		store = memory.NewStore()
	}

	var samplerOpts []mcmc.Option
	if opts.ProposalScale > 0 {
		samplerOpts = append(samplerOpts, mcmc.WithProposalScale(opts.ProposalScale))
	}
	if opts.CheckpointEvery > 0 {
		samplerOpts = append(samplerOpts, mcmc.WithCheckpoints(store, opts.CheckpointEvery))
	}

	chains, err := a.Sample(ctx, opts.Chains, opts.Steps, opts.Seed, nil, samplerOpts...)
	if err != nil {
		if reason := StopReason(ctx); reason != "" {
			return fmt.Errorf("sampling stopped (%s): %w", reason, err)
		}
		return fmt.Errorf("sampling failed: %w", err)
	}

	if opts.JSON {
		enc := json.NewEncoder(w)
		return enc.Encode(chains)
	}

	for _, c := range chains {
		fmt.Fprintf(w, "chain %s: %d samples, acceptance %.2f\n", c.ID, c.Len(), c.AcceptanceRate())
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		for i, name := range c.Names {
			mean, std := c.MeanStdDev(i)
			fmt.Fprintf(tw, "  %s\t%.6g\t± %.3g\n", name, mean, std)
		}
		tw.Flush()
	}

	if opts.CheckpointEvery > 0 {
		ids, err := store.List(ctx)
		if err != nil {
			return err
		}
		printSystemMessage("%d chain checkpoints saved", len(ids))
	}
	if rs != nil && opts.CheckpointEvery > 0 {
		best, err := rs.Best(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "best chain %s: log density %.6g at step %d\n", best.ChainID, best.LogDensity, best.Step)
	}
	return nil
}
