package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"barberqueue-backend/config"
	"barberqueue-backend/controllers"
	"barberqueue-backend/realtime"
	"barberqueue-backend/routes"
	"barberqueue-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func newServeCmd() *cobra.Command {
	var migrateUp bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, the reminder scheduler and, in event mode, the queue listener",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap()
			if err != nil {
				return err
			}
			defer a.close()

			shutdown := config.SetupTelemetry(serviceName)
			defer shutdownTelemetry(shutdown)

			if migrateUp {
				if err := config.Migrate(a.db); err != nil {
					return err
				}
			}

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			board := realtime.New()
			eventMode := a.cfg.QueueTrigger == config.TriggerEvent
			queue := a.queueService(board, !eventMode)
			reminders := a.reminderService()

			if a.cfg.ReminderScheduler {
				if err := reminders.StartScheduler(a.cfg.ReminderCron); err != nil {
					return &config.Error{Key: "REMINDER_CRON", Reason: err.Error()}
				}
				defer func() { <-reminders.StopScheduler().Done() }()
			}

			if eventMode {
				pool, err := pgxpool.New(ctx, a.cfg.DatabaseURL)
				if err != nil {
					return fmt.Errorf("listener pool: %w", err)
				}
				defer pool.Close()
				go func() {
					err := services.NewServingListener(pool, config.ServingChannel, queue).Run(ctx)
					if err != nil && !errors.Is(err, context.Canceled) {
						log.Printf("[listener] stopped: %v", err)
					}
				}()
			}

			r := routes.SetupRouter(routes.Handlers{
				Queue:        &controllers.QueueController{Queue: queue},
				Reminders:    &controllers.ReminderController{Reminders: reminders},
				Waitlist:     &controllers.WaitlistController{Store: a.store},
				Appointments: &controllers.AppointmentController{Store: a.store, Location: a.cfg.Location},
				Board:        board.Handler("/realtime"),
				CORSOrigins:  a.cfg.CORSOrigins,
				SlowRequest:  a.cfg.SlowRequestThreshold,
			})
			printRoutes(r)

			server := &http.Server{
				Addr:         ":" + a.cfg.Port,
				Handler:      otelhttp.NewHandler(r, serviceName),
				ReadTimeout:  10 * time.Second,
				WriteTimeout: 60 * time.Second,
				IdleTimeout:  60 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				log.Printf("listening on %s (queue trigger: %s)", server.Addr, a.cfg.QueueTrigger)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer shutdownCancel()
			return server.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().BoolVar(&migrateUp, "migrate", true, "run database migrations on startup")
	return cmd
}

func printRoutes(r *gin.Engine) {
	for _, route := range r.Routes() {
		fmt.Printf("%-6s %s\n", route.Method, route.Path)
	}
}
