package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/DavidNavarroSaiz/Elevator-data-generator/internal/repository"
	"github.com/DavidNavarroSaiz/Elevator-data-generator/internal/services"
)

func newGenerateCommand(app *App) *cobra.Command {
	var rows int

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate elevator states and append them to the dataset",
		Long: `Generate simulated elevator states and store them in Postgres.
The sequence resumes from the last stored state, so repeated runs
extend the dataset instead of restarting it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			profile, err := app.loadProfile()
			if err != nil {
				return err
			}

			pool, err := app.connect(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			store := repository.NewPostgresStateStore(pool)
			if err := store.EnsureSchema(ctx); err != nil {
				return fmt.Errorf("ensuring schema: %w", err)
			}

			generator := services.NewGeneratorService(store, profile, app.Logger)
			run, err := generator.Generate(ctx, rows)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "generated %d states in %.2fs\n", run.Rows, run.Elapsed)
			if run.Resumed {
				fmt.Fprintln(out, "resumed from the last stored state")
			}
			fmt.Fprintf(out, "first call: %s\n", run.FirstCall.Format("2006-01-02 15:04:05"))
			fmt.Fprintf(out, "last call:  %s\n", run.LastCall.Format("2006-01-02 15:04:05"))
			return nil
		},
	}

	cmd.Flags().IntVar(&rows, "rows", 0, "how many states to generate (default: the profile's rows_generated)")
	return cmd
}
