package main

import (
	"context"
	"errors"
	"net"
	"net/http"

	"played-together/internal/config"
	"played-together/internal/constants"
	fxmodules "played-together/internal/fx"
	"played-together/internal/server"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the played-together query over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			store, err := config.NewSettingsStore(cfg)
			if err != nil {
				return err
			}
			settings, err := store.Load()
			if err != nil {
				return err
			}
			if err := cfg.ResolveAPIKey(settings); err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.ServerAddr = addr
			}

			app := fx.New(
				fx.Supply(cfg),
				fxmodules.ServerModule,
				fx.Invoke(runServer),
			)
			if err := app.Err(); err != nil {
				return err
			}
			app.Run()
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address (PLAYEDTOGETHER_ADDR)")
	return cmd
}

func runServer(
	lc fx.Lifecycle,
	queryServer *server.QueryServer,
	cfg *config.Config,
	logger zerolog.Logger,
) {
	srv := &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           queryServer.Handler(),
		ReadHeaderTimeout: constants.ReadHeaderTimeout,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			go func() {
				logger.Info().Str("addr", ln.Addr().String()).Msg("server starting")
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Fatal().Err(err).Msg("server failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info().Msg("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error().Err(err).Msg("server shutdown failed")
				return err
			}
			logger.Info().Msg("server stopped gracefully")
			return nil
		},
	})
}
