package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	httpserver "github.com/Clark-Hu/movie-review/internal/http"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var portFlag string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the search, trailer and rating operations as a JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			defer ctx.close()
			svc, health, err := ctx.openService(cmd.Context(), false)
			if err != nil {
				return err
			}
			cfg, _ := ctx.ensureConfig()
			if portFlag != "" {
				cfg.Port = portFlag
			}
			logger := ctx.ensureLogger()
			if cfg.TMDBAPIKey == "" {
				logger.Printf("serve: TMDB_API_KEY not set; search and trailer endpoints will return 503")
			}

			server := httpserver.New(cfg, health, svc, logger)

			runCtx := cmd.Context()
			serverErrCh := make(chan error, 1)
			go func() {
				if err := server.Start(runCtx); err != nil && !errors.Is(err, context.Canceled) {
					serverErrCh <- err
					return
				}
				serverErrCh <- nil
			}()

			var serveErr error
			select {
			case err := <-serverErrCh:
				if err != nil && !errors.Is(err, http.ErrServerClosed) {
					serveErr = err
				}
			case <-runCtx.Done():
			}

			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Printf("graceful shutdown error: %v", err)
			}
			return serveErr
		},
	}
	cmd.Flags().StringVarP(&portFlag, "port", "p", "", "Port to listen on (overrides PORT)")
	return cmd
}
