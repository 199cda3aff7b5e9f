package cmd

import (
	"log"

	"barberqueue-backend/config"

	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create tables, seed the serving state and install the change trigger",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap()
			if err != nil {
				return err
			}
			defer a.close()

			if err := config.Migrate(a.db); err != nil {
				return err
			}
			log.Println("migrations applied")
			return nil
		},
	}
}
