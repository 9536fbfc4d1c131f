// Command server listens for GitLab merge request hooks and reviews the
// merge requests that pass the gates.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/sevigo/mr-warden/internal/wire"
)

func main() {
	if err := run(); err != nil {
		slog.Error("mr-warden failed to run", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, cleanup, err := wire.InitializeApp(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer cleanup()

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- app.Start()
	}()

	select {
	case <-ctx.Done():
		app.Logger().Info("received shutdown signal, draining review queue")
	case err := <-serverErr:
		if err != nil {
			app.Logger().Error("webhook listener stopped", "error", err)
		}
	}

	if err := app.Stop(); err != nil {
		return fmt.Errorf("failed to stop application: %w", err)
	}
	return nil
}
