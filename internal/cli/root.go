package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/DavidNavarroSaiz/Elevator-data-generator/internal/api"
)

// NewRootCommand builds the elevatord command tree.
func NewRootCommand() *cobra.Command {
	app := &App{}
	var envFile, configFile string

	root := &cobra.Command{
		Use:   "elevatord",
		Short: "Elevator traffic dataset generator and service",
		Long: `elevatord simulates elevator traffic for a configurable building,
stores the generated states in Postgres, and serves them over a REST
API, Swagger UI, and MCP tools. The pipeline subcommands work with the
project's CI workflow definition.`,
		Version:       api.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.init(envFile, configFile)
		},
	}

	root.PersistentFlags().StringVar(&envFile, "env-file", "", "path to a .env file loaded before reading the environment")
	root.PersistentFlags().StringVar(&configFile, "config", "", "path to config.yaml (defaults to ./config.yaml, then ./config/config.yaml)")

	root.AddCommand(
		newServeCommand(app),
		newMigrateCommand(app),
		newGenerateCommand(app),
		newStatsCommand(app),
		newPipelineCommand(app),
	)
	return root
}

// Execute runs the root command and maps errors to process exit codes.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			// message already printed by the command
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
