package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"barberqueue-backend/config"
	"barberqueue-backend/services"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
)

func newListenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "listen",
		Short: "Dispatch queue alerts for serving-state changes made directly in the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap()
			if err != nil {
				return err
			}
			defer a.close()

			shutdown := config.SetupTelemetry(serviceName)
			defer shutdownTelemetry(shutdown)

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			pool, err := pgxpool.New(ctx, a.cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("listener pool: %w", err)
			}
			defer pool.Close()

			listener := services.NewServingListener(pool, config.ServingChannel, a.queueService(nil, false))
			if err := listener.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}
}
