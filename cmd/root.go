package cmd

import (
	"context"
	"log"
	"time"

	"barberqueue-backend/config"
	"barberqueue-backend/services"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

const serviceName = "barberqueue-backend"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "barberqueue",
		Short:         "Barbershop queue alerts and appointment reminders over WhatsApp",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if err := godotenv.Load(); err != nil {
				log.Println("No .env file found")
			}
		},
	}

	root.AddCommand(newServeCmd())
	root.AddCommand(newRemindCmd())
	root.AddCommand(newListenCmd())
	root.AddCommand(newMigrateCmd())
	return root
}

func Execute() error {
	return newRootCmd().Execute()
}

// app bundles the clients every command builds from configuration.
type app struct {
	cfg    config.Config
	db     *gorm.DB
	store  *services.GormStore
	sender services.MessageSender
}

// bootstrap loads configuration and opens the database. Configuration errors
// come back as *config.Error before any connection is attempted.
func bootstrap() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	db, err := config.OpenDB(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:    cfg,
		db:     db,
		store:  services.NewGormStore(db, cfg.Location),
		sender: newSender(cfg),
	}, nil
}

func (a *app) close() {
	if sqlDB, err := a.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func newSender(cfg config.Config) services.MessageSender {
	if cfg.MessageProvider == config.ProviderLog {
		return services.LogSender{}
	}
	return services.NewTwilioSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioWhatsAppFrom)
}

func (a *app) queueService(board services.Broadcaster, dispatchOnAdvance bool) *services.QueueService {
	return services.NewQueueService(a.store, a.sender, a.store, board, services.QueueConfig{
		AlertCap:          a.cfg.QueueAlertCap,
		Concurrency:       a.cfg.SendConcurrency,
		DispatchOnAdvance: dispatchOnAdvance,
	})
}

func (a *app) reminderService() *services.ReminderService {
	return services.NewReminderService(a.store, a.sender, a.store, services.ReminderConfig{
		Location:         a.cfg.Location,
		TemplateID:       a.cfg.ReminderContentSID,
		FallbackProvider: a.cfg.FallbackProvider,
		Concurrency:      a.cfg.SendConcurrency,
	})
}

func shutdownTelemetry(shutdown func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := shutdown(ctx); err != nil {
		log.Printf("otel shutdown: %v", err)
	}
}
