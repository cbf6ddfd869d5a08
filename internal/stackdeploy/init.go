package stackdeploy

import (
	"os"
	"path/filepath"

	"github.com/redfroggy/stackdeploy/internal/config"
	"github.com/redfroggy/stackdeploy/internal/constants"
	"github.com/redfroggy/stackdeploy/internal/ui"
	"github.com/spf13/cobra"
)

func InitCmd() *cobra.Command {
	var stackFlag string
	var forceFlag bool

	cmd := &cobra.Command{
		Use:     "init [path]",
		Short:   "Write a starter config file",
		Long:    "Write a starter config file. The format follows the extension: .yml, .yaml, .json or .toml.",
		Example: "  stackdeploy init\n  stackdeploy init deploy/stackdeploy.toml --stack web",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := constants.DefaultConfigPrefix + ".yml"
			if len(args) == 1 {
				path = args[0]
			}

			stackName := stackFlag
			if stackName == "" {
				stackName = "my-stack"
				if wd, err := os.Getwd(); err == nil {
					stackName = filepath.Base(wd)
				}
			}

			if err := config.WriteTemplate(path, stackName, forceFlag); err != nil {
				return err
			}
			ui.Success("Wrote %s", path)
			ui.Info("Fill in the Rancher URL and API keys, or set %s and %s.", constants.EnvVarAccessKey, constants.EnvVarSecretKey)
			return nil
		},
	}

	cmd.Flags().StringVarP(&stackFlag, "stack", "s", "", "Stack name (default: current directory name)")
	cmd.Flags().BoolVarP(&forceFlag, "force", "f", false, "Overwrite an existing file")

	return cmd
}
