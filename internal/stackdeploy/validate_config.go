package stackdeploy

import (
	"fmt"

	"github.com/redfroggy/stackdeploy/internal/config"
	"github.com/redfroggy/stackdeploy/internal/helpers"
	"github.com/redfroggy/stackdeploy/internal/ui"
	"github.com/spf13/cobra"
)

func ValidateConfigCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate-config",
		Short: "Validate a stackdeploy config file",
		Long:  "Load the config file, environment variables and .env files, decrypt the secret and check the result without contacting Rancher.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			request, err := config.LoadAndValidate(flags.configPath, config.Overrides{})
			if err != nil {
				return fmt.Errorf("config validation failed: %w", err)
			}

			rancherCompose := request.Stack.RancherComposeFile
			if rancherCompose == "" {
				rancherCompose = "(none)"
			}
			ui.Section("Configuration", []string{
				fmt.Sprintf("URL:             %s", helpers.RedactURL(request.URL)),
				fmt.Sprintf("Access key:      %s", helpers.MaskSecret(request.AccessKey)),
				fmt.Sprintf("Environment:     %s", request.Environment),
				fmt.Sprintf("Stack:           %s", request.Stack.Name),
				fmt.Sprintf("Docker compose:  %s", request.Stack.DockerComposeFile),
				fmt.Sprintf("Rancher compose: %s", rancherCompose),
				fmt.Sprintf("Settle:          %s (delay %s, timeout %s)", request.Settle.Mode, request.Settle.Delay, request.Settle.Timeout),
			})
			ui.Success("Config is valid!")
			return nil
		},
	}

	return cmd
}
