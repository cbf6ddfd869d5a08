package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/redfroggy/stackdeploy/internal/constants"
)

func ensureDir(dirPath string) error {
	return os.MkdirAll(dirPath, constants.ModeDirPrivate)
}

// ConfigDir returns the stackdeploy configuration directory. STACKDEPLOY_CONFIG_DIR overrides
// the default of ~/.config/stackdeploy. The directory is not created.
func ConfigDir() (string, error) {
	if envPath, ok := os.LookupEnv(constants.EnvVarConfigDir); ok && envPath != "" {
		if strings.HasPrefix(envPath, "~/") {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			envPath = filepath.Join(home, envPath[2:])
		}
		return envPath, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", constants.ConfigDirName), nil
}

// EnsureConfigDir returns the configuration directory, creating it if needed.
func EnsureConfigDir() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	if err := ensureDir(dir); err != nil {
		return "", err
	}
	return dir, nil
}

// IdentityFilePath returns the location of the age identity used for secretEncrypted.
func IdentityFilePath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, constants.IdentityFileName), nil
}
