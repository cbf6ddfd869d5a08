package stackdeploy

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/redfroggy/stackdeploy/internal/config"
	"github.com/redfroggy/stackdeploy/internal/constants"
	"github.com/redfroggy/stackdeploy/internal/logging"
	"github.com/spf13/cobra"
)

// rootFlags holds the values of flags shared by every command.
type rootFlags struct {
	configPath string
	logLevel   string
	logger     *slog.Logger
}

func NewRootCmd() *cobra.Command {
	flags := &rootFlags{logger: logging.Discard()}

	cmd := &cobra.Command{
		Use:   "stackdeploy",
		Short: "stackdeploy deletes and recreates a Rancher stack from its compose descriptors",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config.LoadEnvFiles() // load environment variables in .env for all commands.

			if cmd.Name() == "completion" {
				return nil
			}

			levelName := flags.logLevel
			if levelName == "" {
				levelName = os.Getenv(constants.EnvVarLogLevel)
			}
			level, err := logging.ParseLevel(levelName)
			if err != nil {
				return fmt.Errorf("--log-level: %w", err)
			}
			flags.logger = logging.NewLogger(level, true)
			return nil
		},
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	cmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "Path to config file or directory (default: .)")
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Log level: debug, info, warn or error (default: info)")
	_ = cmd.RegisterFlagCompletionFunc("log-level", logLevelCompletion)

	cmd.AddCommand(
		DeployCmd(flags),
		ValidateConfigCmd(flags),
		InitCmd(),
		EncryptSecretCmd(),
		VersionCmd(),
		CompletionCmd(),
	)

	return cmd
}
