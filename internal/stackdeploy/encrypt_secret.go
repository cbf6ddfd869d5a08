package stackdeploy

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"filippo.io/age"
	"github.com/redfroggy/stackdeploy/internal/config"
	"github.com/redfroggy/stackdeploy/internal/ui"
	"github.com/spf13/cobra"
)

// EncryptSecretCmd encrypts an API secret for the secretEncrypted config key.
func EncryptSecretCmd() *cobra.Command {
	var generateKeyFlag bool

	cmd := &cobra.Command{
		Use:   "encrypt-secret [value]",
		Short: "Encrypt a Rancher API secret for use as secretEncrypted",
		Long: `Encrypt a Rancher API secret with the age identity in the stackdeploy config directory
(or STACKDEPLOY_ENCRYPTION_KEY). The value is read from stdin when no argument is given.`,
		Example: "  stackdeploy encrypt-secret --generate-key 'my-secret'\n  echo -n \"$RANCHER_SECRET_KEY\" | stackdeploy encrypt-secret",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := secretValue(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}

			identity, err := loadOrGenerateIdentity(generateKeyFlag)
			if err != nil {
				return err
			}

			encrypted, err := config.EncryptSecret(value, identity.Recipient())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), encrypted)
			return nil
		},
	}

	cmd.Flags().BoolVar(&generateKeyFlag, "generate-key", false, "Create an age identity in the config directory if none exists")

	return cmd
}

func secretValue(stdin io.Reader, args []string) (string, error) {
	if len(args) == 1 {
		if args[0] == "" {
			return "", errors.New("secret value cannot be empty")
		}
		return args[0], nil
	}

	line, err := bufio.NewReader(stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read secret from stdin: %w", err)
	}
	value := strings.TrimRight(line, "\r\n")
	if value == "" {
		return "", errors.New("secret value cannot be empty")
	}
	return value, nil
}

func loadOrGenerateIdentity(generate bool) (*age.X25519Identity, error) {
	identity, err := config.LoadIdentity()
	if err == nil {
		return identity, nil
	}
	if !generate {
		return nil, err
	}

	identity, path, genErr := config.GenerateIdentity()
	if genErr != nil {
		return nil, genErr
	}
	ui.Info("Created age identity at %s", path)
	return identity, nil
}
