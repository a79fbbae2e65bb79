package main

import (
	"github.com/aretw0/eos/internal/cli"
	"github.com/spf13/cobra"
)

var parametersCmd = &cobra.Command{
	Use:   "parameters",
	Short: "List parameters",
	Long:  `Lists the parameter store. With --used, only the parameters read by the given constraints are shown.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, _, err := setup(cmd)
		if err != nil {
			return err
		}
		used, _ := cmd.Flags().GetBool("used")
		cli.PrintParameters(cmd.OutOrStdout(), a, used)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(parametersCmd)
	analysisFlags(parametersCmd)
	parametersCmd.Flags().Bool("used", false, "Only list parameters the constraints depend on")
}
