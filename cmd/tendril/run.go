package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/tendril"
	"github.com/aretw0/tendril/internal/config"
	"github.com/aretw0/tendril/internal/logging"
	"github.com/aretw0/tendril/pkg/adapters/yamlscene"
	"github.com/aretw0/tendril/pkg/runner"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the message loop over stdin/stdout",
	Long: `Loads the scene document and starts the JSON-lines message loop:
one envelope per line in, reply envelopes per line out.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		scenePath, _ := cmd.Flags().GetString("scene")
		if !cmd.Flags().Changed("scene") && len(args) > 0 {
			scenePath = args[0]
		}

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		logger := logging.New(cfg.Level())

		scene, vars, err := yamlscene.Load(scenePath)
		if err != nil {
			return fmt.Errorf("failed to load scene: %w", err)
		}

		backend, closeBackend, err := cfg.Backend()
		if err != nil {
			return err
		}
		defer func() {
			if err := closeBackend(); err != nil {
				logger.Error("failed to close storage backend", "err", err)
			}
		}()

		engine := tendril.New(scene, vars,
			tendril.WithLogger(logger),
			tendril.WithStorageBackend(backend),
		)

		r := runner.NewRunner()
		r.Logger = logger
		return r.Run(cmd.Context(), engine)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	// Make 'run' the default if no command is provided.
	rootCmd.RunE = runCmd.RunE
}
