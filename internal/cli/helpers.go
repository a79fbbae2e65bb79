package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/aretw0/eos/internal/logging"
)

// SignalContext wraps a context and captures the signal that cancelled it.
type SignalContext struct {
	context.Context
	Cancel func()
	start  sync.Once
	stop   sync.Once
	sigCh  chan os.Signal
	sigVal os.Signal
	mu     sync.Mutex
}

// NewSignalContext creates a context that is cancelled on SIGINT or SIGTERM.
// It acts as a drop-in replacement for signal.NotifyContext but allows retrieving the signal.
func NewSignalContext(parent context.Context) *SignalContext {
	ctx, cancel := context.WithCancel(parent)
	sc := &SignalContext{
		Context: ctx,
		Cancel:  cancel,
		sigCh:   make(chan os.Signal, 1),
	}

	sc.start.Do(func() {
		signal.Notify(sc.sigCh, os.Interrupt, syscall.SIGTERM)
		go func() {
			select {
			case sig := <-sc.sigCh:
				sc.mu.Lock()
				sc.sigVal = sig
				sc.mu.Unlock()
				sc.Cancel()
			case <-sc.Context.Done():
			}
			sc.stop.Do(func() {
				signal.Stop(sc.sigCh)
			})
		}()
	})

	return sc
}

// Signal returns the signal that caused the context to be cancelled, or nil.
func (sc *SignalContext) Signal() os.Signal {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.sigVal
}

// StopReason describes why ctx ended: the signal a SignalContext caught, or
// the cause of the cancellation. It is empty while ctx is live.
func StopReason(ctx context.Context) string {
	if sc, ok := ctx.(*SignalContext); ok {
		if sig := sc.Signal(); sig != nil {
			return "signal " + sig.String()
		}
	}
	if err := context.Cause(ctx); err != nil {
		return err.Error()
	}
	return ""
}

// CreateLogger configures the application logger. Logs go to stderr so that
// command output on stdout stays machine readable.
func CreateLogger(level string) (*slog.Logger, error) {
	if level == "" || level == "off" {
		return logging.NewNop(), nil
	}
	l, err := logging.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	return logging.NewPretty(l), nil
}

// printSystemMessage prints a standardized system message to stderr.
func printSystemMessage(format string, args ...any) {
	fmt.Fprintf(os.Stderr, ">>> %s\n", fmt.Sprintf(format, args...))
}
