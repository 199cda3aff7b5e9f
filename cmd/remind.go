package cmd

import (
	"log"

	"barberqueue-backend/config"

	"github.com/spf13/cobra"
)

func newRemindCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remind",
		Short: "Send tomorrow's appointment reminders once and exit",
		Long:  "Runs a single reminder scan, for hosts that schedule the job externally instead of using the built-in scheduler.",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap()
			if err != nil {
				return err
			}
			defer a.close()

			shutdown := config.SetupTelemetry(serviceName)
			defer shutdownTelemetry(shutdown)

			result, err := a.reminderService().SendDailyReminders(cmd.Context())
			if err != nil {
				return err
			}
			log.Printf("[reminder] done: sent=%d failed=%d skipped=%d matched=%d window=%s",
				result.Sent, result.Failed, result.Skipped, result.Matched, result.Window.Start.Format("2006-01-02"))
			return nil
		},
	}
}
