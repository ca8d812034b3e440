package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/DavidNavarroSaiz/Elevator-data-generator/internal/repository"
	"github.com/DavidNavarroSaiz/Elevator-data-generator/internal/services"
)

func newStatsCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Summarize the stored dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			pool, err := app.connect(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			analytics := services.NewAnalyticsService(repository.NewPostgresStateStore(pool))
			stats, err := analytics.TrafficStats(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if stats.States == 0 {
				fmt.Fprintln(out, "no elevator states recorded yet")
				return nil
			}

			fmt.Fprintf(out, "states:      %d\n", stats.States)
			if stats.FirstCall != nil && stats.LastCall != nil {
				fmt.Fprintf(out, "first call:  %s\n", stats.FirstCall.Format("2006-01-02 15:04:05"))
				fmt.Fprintf(out, "last call:   %s\n", stats.LastCall.Format("2006-01-02 15:04:05"))
			}
			if stats.BusiestFloor != nil {
				fmt.Fprintf(out, "busiest:     floor %d (%d calls)\n", stats.BusiestFloor.Floor, stats.BusiestFloor.Count)
			}

			fmt.Fprintf(out, "call intervals (minutes): mean %.1f, median %.1f, p95 %.1f, stddev %.1f\n",
				stats.Intervals.MeanMinutes, stats.Intervals.MedianMinutes,
				stats.Intervals.P95Minutes, stats.Intervals.StdDevMinutes)

			if len(stats.DemandCounts) > 0 {
				fmt.Fprintln(out, "calls per floor:")
				for _, fc := range stats.DemandCounts {
					fmt.Fprintf(out, "  floor %3d  %6d\n", fc.Floor, fc.Count)
				}
			}
			return nil
		},
	}
}
