package main

import (
	"github.com/aretw0/eos/internal/cli"
	"github.com/spf13/cobra"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Render a markdown report of the likelihood",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, _, err := setup(cmd)
		if err != nil {
			return err
		}
		raw, _ := cmd.Flags().GetBool("raw")
		return cli.RenderReport(cmd.OutOrStdout(), a, raw)
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
	analysisFlags(reportCmd)
	reportCmd.Flags().Bool("raw", false, "Print markdown without terminal rendering")
}
