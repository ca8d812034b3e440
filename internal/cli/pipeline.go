package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/DavidNavarroSaiz/Elevator-data-generator/internal/pipeline"
)

func newPipelineCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pipeline",
		Short: "Inspect and run the repository's CI workflow",
	}
	cmd.AddCommand(
		newPipelineLintCommand(app),
		newPipelineShowCommand(app),
		newPipelineRunCommand(app),
	)
	return cmd
}

// workflowArg resolves the optional positional file argument, falling
// back to the configured workflow location.
func workflowArg(app *App, args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return app.Config.Pipeline.Path
}

func newPipelineLintCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "lint [file]",
		Short: "Validate the workflow and check its credential hygiene",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := workflowArg(app, args)
			wf, err := pipeline.Load(path)
			if err != nil {
				return err
			}

			findings := append(wf.Validate(), pipeline.Lint(wf)...)
			out := cmd.OutOrStdout()
			if len(findings) == 0 {
				fmt.Fprintf(out, "%s: no findings\n", path)
				return nil
			}
			for _, f := range findings {
				fmt.Fprintln(out, f.String())
			}
			if pipeline.HasErrors(findings) {
				return NewExitError(1)
			}
			return nil
		},
	}
}

func newPipelineShowCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show [file]",
		Short: "Print the workflow's triggers, jobs, and steps",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			wf, err := pipeline.Load(workflowArg(app, args))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if wf.Name != "" {
				fmt.Fprintf(out, "workflow: %s\n", wf.Name)
			}
			for _, event := range wf.On.Events {
				if len(event.Branches) > 0 {
					fmt.Fprintf(out, "on: %s (branches: %s)\n", event.Name, strings.Join(event.Branches, ", "))
				} else {
					fmt.Fprintf(out, "on: %s\n", event.Name)
				}
			}
			for _, jobID := range wf.JobIDs() {
				job := wf.Jobs[jobID]
				head := fmt.Sprintf("job %s (runs-on: %s", jobID, job.RunsOn)
				if len(job.Needs) > 0 {
					head += ", needs: " + strings.Join(job.Needs, ", ")
				}
				fmt.Fprintln(out, head+")")
				for i, step := range job.Steps {
					line := fmt.Sprintf("  %d. %s", i+1, step.DisplayName())
					if step.Name != "" && step.Uses != "" {
						line += " (" + step.Uses + ")"
					}
					fmt.Fprintln(out, line)
				}
			}
			return nil
		},
	}
}

func newPipelineRunCommand(app *App) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "run [file]",
		Short: "Execute the workflow's shell steps locally",
		Long: `Execute the workflow's shell steps on this machine, in job and
declaration order. Steps that use platform actions are skipped, and
secret references resolve from the environment.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			wf, err := pipeline.Load(workflowArg(app, args))
			if err != nil {
				return err
			}

			runner := &pipeline.Runner{
				Dir: dir,
				Progress: func(s pipeline.StepResult) {
					app.Logger.Debug("step finished",
						"job", s.JobID, "step", s.Step, "status", string(s.Status))
				},
			}
			result, err := runner.Run(cmd.Context(), wf)
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), pipeline.Report(result))
			if result.Failed {
				return NewExitError(1)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "working directory for run steps")
	return cmd
}
