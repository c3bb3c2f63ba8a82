package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"timeledger/internal/api"
)

func (r *RootCommand) newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long:  "Open the store, apply pending migrations and serve the JSON API until SIGINT or SIGTERM.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := r.config.RequireJWTSecret(); err != nil {
				return err
			}

			repo, container, err := r.openServices()
			if err != nil {
				return err
			}
			defer repo.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			r.logger.Info("starting timeledger",
				zap.String("driver", r.config.Database.Driver),
				zap.String("addr", r.config.Server.Addr))

			return api.New(container, repo, r.config, r.logger).Run(ctx)
		},
	}
}
