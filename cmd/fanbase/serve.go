package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/fanbase/fanbase/internal/application/api"
	"github.com/fanbase/fanbase/internal/infrastructure/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), func(d *Deps) error {
				return serve(cmd.Context(), d)
			})
		},
	}
}

func serve(ctx context.Context, d *Deps) error {
	log, err := logging.Init(d.Config.Server.Env)
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer logging.Sync()

	server := api.NewServer(d.API, log)
	srv := &http.Server{
		Addr:    ":" + d.Config.Server.Port,
		Handler: server.Router(d.Config.IsProduction()),
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	log.Info("server started",
		zap.String("port", d.Config.Server.Port),
		zap.String("db", d.Store.Path()),
	)

	// Block until interrupted or the listener fails
	select {
	case err := <-errCh:
		return fmt.Errorf("starting server: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}
	log.Info("server exited")
	return nil
}
