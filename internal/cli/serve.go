package cli

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/eos"
	httpAdapter "github.com/aretw0/eos/pkg/adapters/http"
	"github.com/prometheus/client_golang/prometheus"
)

// RunServe serves the analysis on addr until ctx is cancelled, then shuts
// down gracefully.
func RunServe(ctx context.Context, a *eos.Analysis, addr string, gatherer prometheus.Gatherer, logger *slog.Logger) error {
	srv := &http.Server{
		Addr:    addr,
		Handler: httpAdapter.NewHandler(a, httpAdapter.WithGatherer(gatherer), httpAdapter.WithLogger(logger)),
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)
	go func() {
		printSystemMessage("Starting eos server on %s", srv.Addr)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err

	case <-ctx.Done():
		printSystemMessage("Shutting down (%s)...", StopReason(ctx))

		// Give outstanding requests a deadline for completion.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown did not complete", "error", err)
			return srv.Close()
		}
		printSystemMessage("eos server stopped gracefully")
		return nil
	}
}
