package stackdeploy

import (
	"fmt"

	"github.com/redfroggy/stackdeploy/internal/constants"
	"github.com/spf13/cobra"
)

// VersionCmd creates a new version command
func VersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the current version of stackdeploy",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "stackdeploy %s\n", constants.Version)
		},
	}

	return cmd
}
