// Package root contains the root command for the application.
package root

import (
	"github.com/TKcodes-bit/Momo-app-code-bit/internal/config"
	"github.com/TKcodes-bit/Momo-app-code-bit/internal/logging"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// CommonFlags represents the flags shared by multiple commands.
type CommonFlags struct {
	Input  string
	Output string
}

var (
	// Log is the shared logger instance for commands.
	Log = logrus.New()

	// Cfg is the resolved application configuration, available to all
	// commands after PersistentPreRunE.
	Cfg *config.Config

	// SharedFlags holds the common flag values.
	SharedFlags = CommonFlags{}

	// Cmd is the root command.
	Cmd = &cobra.Command{
		Use:   "momo-etl",
		Short: "Parse, normalize and categorize mobile-money SMS transactions.",
		Long: `momo-etl ingests mobile-money SMS transaction exports (XML), normalizes
every field to a canonical shape, categorizes each transaction with a
confidence score, and serves the result as a JSON CRUD API or CSV export.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to momo-etl!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config.LoadEnv()

			cfg, err := config.InitializeConfig()
			if err != nil {
				return err
			}
			Cfg = cfg
			Log = config.ConfigureLogging(cfg)
			return nil
		},
	}
)

// Init initializes the root command flags.
func Init() {
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Input, "input", "i", "", "Input file (defaults to the configured path)")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Output, "output", "o", "", "Output file (defaults to the configured path)")
}

// Logger returns the shared logger behind the logging.Logger interface.
func Logger() logging.Logger {
	return logging.NewLogrusAdapterFromLogger(Log)
}
