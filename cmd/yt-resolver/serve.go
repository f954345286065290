package main

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/imbecility/yt-resolver/pkg/api"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, gw, err := loadGateway(cmd)
			if err != nil {
				return err
			}

			srv := api.NewServer(gw, cfg.Server)

			g, ctx := errgroup.WithContext(cmd.Context())
			g.Go(srv.Start)
			g.Go(func() error {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
				defer cancel()
				return srv.Shutdown(shutdownCtx)
			})

			err = g.Wait()
			if err != nil {
				slog.Error("Server stopped", "err", err)
				return err
			}
			slog.Info("Server stopped")
			return nil
		},
	}

	cmd.Flags().Int("port", 8080, "Port for API server")
	cmd.Flags().String("host", "", "Interface to listen on (empty for all)")

	return cmd
}
