package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/terraincognita07/cyclekit/internal/config"
	"github.com/terraincognita07/cyclekit/internal/logging"
)

type rootState struct {
	envFile string
	cfg     *config.Config
	logger  *logrus.Logger
}

// NewRootCommand assembles the cyclekit command tree. Configuration is loaded
// once, before any subcommand runs.
func NewRootCommand(stdout io.Writer, stderr io.Writer) *cobra.Command {
	state := &rootState{}

	root := &cobra.Command{
		Use:           "cyclekit",
		Short:         "Cycle event calculator and reminder service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(state.envFile)
			if err != nil {
				return err
			}
			logger, err := logging.New(cfg.Log.Level, cfg.Log.Format, stderr)
			if err != nil {
				return err
			}
			state.cfg = cfg
			state.logger = logger
			return nil
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.PersistentFlags().StringVar(&state.envFile, "env-file", ".env", "dotenv file merged into the environment before loading CYCLEKIT_* settings")

	root.AddCommand(
		newServeCommand(state),
		newEventsCommand(state),
		newRemindersCommand(state),
		newTokenCommand(state),
		newSecretCommand(),
	)
	return root
}

// Execute runs the root command and reports failures on stderr.
func Execute() int {
	root := NewRootCommand(os.Stdout, os.Stderr)
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "cyclekit: %v\n", err)
		return 1
	}
	return 0
}

func writeJSON(w io.Writer, value any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}
