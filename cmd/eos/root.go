package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/eos"
	"github.com/aretw0/eos/internal/cli"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "eos",
	Short: "eos evaluates flavor-physics likelihoods",
	Long: `eos builds log likelihoods from a catalog of experimental constraints,
evaluates them at a parameter point, and samples their posterior.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("parameters", "", "YAML file replacing the default parameter set")
	rootCmd.PersistentFlags().String("catalog", "", "YAML file of constraints merged over the default catalog")
	rootCmd.PersistentFlags().String("log-level", "off", "Log level (debug, info, warn, error, off)")
}

// analysisFlags registers the flags of commands that build a likelihood.
func analysisFlags(cmd *cobra.Command) {
	cmd.Flags().StringArrayP("constraint", "c", nil, "Catalog constraint to add (repeatable)")
	cmd.Flags().StringP("options", "o", "", "Options for every constraint, e.g. model=WilsonScan")
	cmd.Flags().StringArrayP("set", "s", nil, "Parameter assignment name=value (repeatable)")
}

func loadOptions(cmd *cobra.Command) cli.Options {
	params, _ := cmd.Flags().GetString("parameters")
	catalog, _ := cmd.Flags().GetString("catalog")
	level, _ := cmd.Flags().GetString("log-level")
	constraints, _ := cmd.Flags().GetStringArray("constraint")
	options, _ := cmd.Flags().GetString("options")
	sets, _ := cmd.Flags().GetStringArray("set")

	return cli.Options{
		ParametersFile:    params,
		CatalogFile:       catalog,
		LogLevel:          level,
		Constraints:       constraints,
		ConstraintOptions: options,
		Sets:              sets,
	}
}

func setup(cmd *cobra.Command, extra ...eos.Option) (*eos.Analysis, *slog.Logger, error) {
	opts := loadOptions(cmd)
	logger, err := cli.CreateLogger(opts.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	a, err := cli.CreateAnalysis(opts, logger, extra...)
	if err != nil {
		return nil, nil, err
	}
	return a, logger, nil
}
