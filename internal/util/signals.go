package util

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

// SetupSignalHandler returns a context cancelled on SIGINT or SIGTERM.
// Cancellation only stops the CLI and HTTP server; actions already dispatched
// by the engine run to completion. A second signal forces immediate exit.
func SetupSignalHandler(logger *slog.Logger) context.Context {
	if logger == nil {
		logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig.String())
		cancel()

		sig = <-sigCh
		logger.Warn("received second shutdown signal, forcing exit", "signal", sig.String())
		os.Exit(1)
	}()

	return ctx
}
