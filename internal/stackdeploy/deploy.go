package stackdeploy

import (
	"fmt"
	"strconv"

	"github.com/redfroggy/stackdeploy/internal/apiclient"
	"github.com/redfroggy/stackdeploy/internal/config"
	"github.com/redfroggy/stackdeploy/internal/deploy"
	"github.com/redfroggy/stackdeploy/internal/helpers"
	"github.com/redfroggy/stackdeploy/internal/rancher"
	"github.com/redfroggy/stackdeploy/internal/ui"
	"github.com/spf13/cobra"
)

func DeployCmd(flags *rootFlags) *cobra.Command {
	var overrides config.Overrides
	var strictFlag bool

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Delete and recreate a stack",
		Long: `Delete the named stack from a Rancher environment if it exists, wait for the
removal to settle, then create it again from the docker-compose and rancher-compose files.

Delete and create are separate requests. If create fails after a successful delete the stack
is gone until the next successful run.`,
		Example: "  stackdeploy deploy\n  stackdeploy deploy --environment prod --stack web --docker-compose deploy/docker-compose.yml",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			request, err := config.LoadAndValidate(flags.configPath, overrides)
			if err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			logger := flags.logger
			client := apiclient.New(request.AccessKey, request.Secret, apiclient.WithTimeout(request.RequestTimeout))
			resolver := rancher.NewResolver(client, request.URL, logger)
			settler := deploy.NewSettler(request.Settle, resolver, logger)
			deployer := deploy.NewDeployer(client, resolver, settler, logger)

			ui.Info("Redeploying stack '%s' in environment '%s'", request.Stack.Name, request.Environment)
			result, err := deployer.Deploy(cmd.Context(), *request)
			printResult(result)
			if err != nil {
				return fmt.Errorf("deployment failed: %w", err)
			}
			if strictFlag {
				if err := result.CheckStatus(); err != nil {
					return err
				}
			}
			ui.Success("Stack '%s' redeployed", request.Stack.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&overrides.URL, "url", "", "Rancher API base URL, e.g. https://rancher.example.com/v2-beta")
	cmd.Flags().StringVarP(&overrides.Environment, "environment", "e", "", "Rancher environment (project) name")
	cmd.Flags().StringVarP(&overrides.StackName, "stack", "s", "", "Stack name")
	cmd.Flags().StringVar(&overrides.Description, "description", "", "Stack description")
	cmd.Flags().StringVar(&overrides.StartOnCreate, "start-on-create", "", "Start services when the stack is created (true or false)")
	cmd.Flags().StringVar(&overrides.DockerComposeFile, "docker-compose", "", "Path to the docker-compose file")
	cmd.Flags().StringVar(&overrides.RancherComposeFile, "rancher-compose", "", "Path to the rancher-compose file")
	cmd.Flags().StringVar(&overrides.SettleMode, "settle", "", "How to wait between delete and create: delay or poll")
	_ = cmd.RegisterFlagCompletionFunc("settle", settleModeCompletion)
	cmd.Flags().BoolVar(&strictFlag, "strict", false, "Fail when the delete or create request returns a non-2xx status")

	return cmd
}

func printResult(result *deploy.Result) {
	if result == nil {
		return
	}
	lines := []string{
		fmt.Sprintf("Run ID: %s", result.RunID),
		fmt.Sprintf("Phase:  %s", result.Phase),
	}
	if result.StackURL != "" {
		lines = append(lines, fmt.Sprintf("Stack:  %s", result.StackURL))
	}
	lines = append(lines,
		fmt.Sprintf("Delete: %s", requestSummary(result.DeleteIssued, result.DeleteStatus)),
		fmt.Sprintf("Create: %s", requestSummary(result.CreateIssued, result.CreateStatus)),
		fmt.Sprintf("Took:   %s", helpers.FormatDuration(result.Duration)),
	)
	ui.Section("Deployment summary", lines)
}

func requestSummary(issued bool, status int) string {
	if !issued {
		return "not sent"
	}
	return "status " + strconv.Itoa(status)
}
