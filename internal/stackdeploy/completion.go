package stackdeploy

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/redfroggy/stackdeploy/internal/constants"
	"github.com/spf13/cobra"
)

var completionShells = map[string]func(root *cobra.Command, w io.Writer) error{
	"bash":       func(root *cobra.Command, w io.Writer) error { return root.GenBashCompletionV2(w, true) },
	"zsh":        func(root *cobra.Command, w io.Writer) error { return root.GenZshCompletion(w) },
	"fish":       func(root *cobra.Command, w io.Writer) error { return root.GenFishCompletion(w, true) },
	"powershell": func(root *cobra.Command, w io.Writer) error { return root.GenPowerShellCompletionWithDesc(w) },
}

func supportedShells() []string {
	shells := make([]string, 0, len(completionShells))
	for shell := range completionShells {
		shells = append(shells, shell)
	}
	slices.Sort(shells)
	return shells
}

// CompletionCmd prints shell completion scripts. Flag values such as --settle and --log-level complete too.
func CompletionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:       "completion [bash|zsh|fish|powershell]",
		Short:     "Generate completion script",
		Args:      cobra.ExactArgs(1),
		ValidArgs: supportedShells(),
		Long: `Print a completion script for stackdeploy.

Bash:
  $ source <(stackdeploy completion bash)

Zsh:
  $ source <(stackdeploy completion zsh)

Fish:
  $ stackdeploy completion fish | source

Powershell:
  PS> stackdeploy completion powershell | Out-String | Invoke-Expression
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			generate, ok := completionShells[args[0]]
			if !ok {
				return fmt.Errorf("unsupported shell type: %s (supported: %s)", args[0], strings.Join(supportedShells(), ", "))
			}
			return generate(cmd.Root(), cmd.OutOrStdout())
		},
	}

	return cmd
}

func settleModeCompletion(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return []string{constants.SettleModeDelay, constants.SettleModePoll}, cobra.ShellCompDirectiveNoFileComp
}

func logLevelCompletion(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return []string{"debug", "info", "warn", "error"}, cobra.ShellCompDirectiveNoFileComp
}
