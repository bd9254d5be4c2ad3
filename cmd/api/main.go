// Package main is the entrypoint for the bloglist API server.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/samber/do/v2"

	"github.com/bloglist/bloglist/internal/config"
	"github.com/bloglist/bloglist/internal/di"
)

func main() {
	injector := di.NewContainer()

	srv, err := di.Bootstrap(injector)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to bootstrap server: %v\n", err)
		_ = injector.Shutdown()
		os.Exit(1)
	}

	logger := do.MustInvoke[*slog.Logger](injector)
	cfg := do.MustInvoke[*config.Config](injector)

	// Components are closed by the container in reverse dependency order
	// once the HTTP server has drained.
	srv.OnShutdown("container", func(context.Context) error {
		report := injector.Shutdown()
		logger.Debug("container shutdown", slog.Any("report", report))
		return nil
	})

	logger.Info("starting server",
		"port", cfg.AppPort,
		"store", cfg.StoreDriver,
		"env", cfg.AppEnv,
	)

	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}
