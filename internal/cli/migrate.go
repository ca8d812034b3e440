package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/DavidNavarroSaiz/Elevator-data-generator/internal/repository"
)

func newMigrateCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the database schema if it does not exist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			pool, err := app.connect(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			store := repository.NewPostgresStateStore(pool)
			if err := store.EnsureSchema(ctx); err != nil {
				return fmt.Errorf("ensuring schema: %w", err)
			}

			app.Logger.Info("Schema ready")
			return nil
		},
	}
}
