package main

import (
	"context"

	"github.com/aretw0/eos"
	"github.com/aretw0/eos/internal/cli"
	"github.com/aretw0/eos/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  `Serves one likelihood over a JSON API, with Prometheus metrics on /metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

		a, logger, err := setup(cmd, eos.WithMetrics(observability.NewMetrics(reg)))
		if err != nil {
			return err
		}

		port, _ := cmd.Flags().GetString("port")
		ctx := cli.NewSignalContext(context.Background())
		defer ctx.Cancel()

		return cli.RunServe(ctx, a, ":"+port, reg, logger)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	analysisFlags(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
}
