package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/katalvlaran/lvtree/internal/server"
)

func newServeCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the forest API over HTTP",
		Long: `Start the HTTP API. SIGINT or SIGTERM shuts the server down gracefully
within server.shutdown_timeout.

Endpoints:
  GET  /health
  GET  /metrics
  POST /api/v1/forest
  POST /api/v1/forest/path
  POST /api/v1/forest/subtree`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := setup(cmd, flags)
			if err != nil {
				return err
			}
			defer func() { _ = rt.logger.Sync() }()

			srv, err := server.New(rt.cfg.Server, rt.forester, rt.registry, rt.logger)
			if err != nil {
				return err
			}

			return serve(cmd.Context(), srv, rt)
		},
	}
}

// serve runs srv until ctx is cancelled or the listener fails.
func serve(ctx context.Context, srv *server.Server, rt *runtime) error {
	rt.logger.Info("starting lvtree",
		zap.String("host", rt.cfg.Server.Host),
		zap.Int("port", rt.cfg.Server.Port),
		zap.String("cycle_policy", rt.cfg.Tree.CyclePolicy),
		zap.Duration("shutdown_timeout", rt.cfg.Server.ShutdownTimeout))

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), rt.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	rt.logger.Info("server shutdown complete")

	return nil
}
