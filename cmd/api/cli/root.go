// Package cli is the command line entry point: the service itself plus the
// compute operations as one-shot commands.
package cli

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"desktop-core-service/cmd/api/app"
	"desktop-core-service/internal/config"
)

// state is filled in by the root command before any subcommand runs.
type state struct {
	cfg *config.Config
	log *zap.Logger
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	st := &state{}
	var configPath string

	root := &cobra.Command{
		Use:           "appcore",
		Short:         "Desktop core service and its compute utilities",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return err
			}
			st.cfg = cfg
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if st.log != nil {
				_ = st.log.Sync()
			}
		},
	}

	defaultPath := os.Getenv("CONFIG_PATH")
	if defaultPath == "" {
		defaultPath = "."
	}
	root.PersistentFlags().StringVar(&configPath, "config", defaultPath, "directory containing app.env")

	root.AddCommand(
		newServeCommand(st),
		newFactorialCommand(st),
		newPrimeCommand(st),
		newUpperCommand(st),
		newGreetCommand(st),
		newAddCommand(st),
		newParseCommand(st),
		newEmailCommand(st),
	)
	return root
}

// serviceLogger builds the configured application logger.
func (s *state) serviceLogger() (*zap.Logger, error) {
	l, err := app.NewLogger(s.cfg)
	if err != nil {
		return nil, err
	}
	s.log = l
	return l, nil
}

// toolLogger keeps one-shot commands quiet: warnings and above, on stderr.
func (s *state) toolLogger() *zap.Logger {
	cfg := *s.cfg
	cfg.Logger.Level = "warn"
	cfg.Logger.OutputPath = "stderr"
	l, err := app.NewLogger(&cfg)
	if err != nil {
		return zap.NewNop()
	}
	s.log = l
	return l
}

// Execute runs the root command with os.Args.
func Execute() error {
	return NewRootCommand().Execute()
}
