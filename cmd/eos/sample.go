package main

import (
	"context"
	"time"

	"github.com/aretw0/eos/internal/cli"
	"github.com/aretw0/eos/pkg/mcmc"
	"github.com/spf13/cobra"
)

var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Sample the posterior with Metropolis chains",
	Long: `Runs independent random-walk Metropolis chains, one per clone of the
parameter store, over every varying parameter the constraints use.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, logger, err := setup(cmd)
		if err != nil {
			return err
		}

		chains, _ := cmd.Flags().GetInt("chains")
		steps, _ := cmd.Flags().GetInt("steps")
		seed, _ := cmd.Flags().GetUint64("seed")
		scale, _ := cmd.Flags().GetFloat64("scale")
		every, _ := cmd.Flags().GetInt("checkpoint-every")
		redisAddr, _ := cmd.Flags().GetString("redis")
		ttl, _ := cmd.Flags().GetDuration("checkpoint-ttl")
		jsonMode, _ := cmd.Flags().GetBool("json")

		ctx := cli.NewSignalContext(context.Background())
		defer ctx.Cancel()

		return cli.RunSample(ctx, cmd.OutOrStdout(), a, cli.SampleOptions{
			Chains:          chains,
			Steps:           steps,
			Seed:            seed,
			ProposalScale:   scale,
			CheckpointEvery: every,
			RedisAddr:       redisAddr,
			CheckpointTTL:   ttl,
			JSON:            jsonMode,
		}, logger)
	},
}

func init() {
	rootCmd.AddCommand(sampleCmd)
	analysisFlags(sampleCmd)
	sampleCmd.Flags().Int("chains", 4, "Number of parallel chains")
	sampleCmd.Flags().Int("steps", 10000, "Steps per chain")
	sampleCmd.Flags().Uint64("seed", 1, "Seed of the first chain; chain k uses seed+k")
	sampleCmd.Flags().Float64("scale", mcmc.DefaultProposalScale, "Proposal width relative to each parameter range")
	sampleCmd.Flags().Int("checkpoint-every", 0, "Save chain state every n steps (0 disables)")
	sampleCmd.Flags().String("redis", "", "Redis address for checkpoints (default: in memory)")
	sampleCmd.Flags().Duration("checkpoint-ttl", 24*time.Hour, "Expiry of redis checkpoints")
	sampleCmd.Flags().Bool("json", false, "Print the chains as JSON")
}
