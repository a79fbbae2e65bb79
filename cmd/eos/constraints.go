package main

import (
	"github.com/aretw0/eos/internal/cli"
	"github.com/spf13/cobra"
)

var constraintsCmd = &cobra.Command{
	Use:   "constraints",
	Short: "List catalog constraints",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, _, err := setup(cmd)
		if err != nil {
			return err
		}
		cli.PrintConstraints(cmd.OutOrStdout(), a.Catalog())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(constraintsCmd)
}
