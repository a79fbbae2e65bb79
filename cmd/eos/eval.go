package main

import (
	"github.com/aretw0/eos/internal/cli"
	"github.com/spf13/cobra"
)

var evalCmd = &cobra.Command{
	Use:   "eval",
	Short: "Evaluate the log likelihood",
	Long:  `Builds a likelihood from the given constraints and prints every constraint's log density and pulls.`,
	Example: `  eos eval -c 'B->X_sgamma::BR[1.8]@HFAG-2012' -o model=SM
  eos eval -c 'B->X_sgamma::BR[1.8]@HFAG-2012' -o model=WilsonScan -s 'b->s::Re{c7}=0.3'`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, _, err := setup(cmd)
		if err != nil {
			return err
		}
		cli.PrintEvaluation(cmd.OutOrStdout(), a)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(evalCmd)
	analysisFlags(evalCmd)
}
