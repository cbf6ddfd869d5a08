package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/v2"
	"github.com/redfroggy/stackdeploy/internal/constants"
)

// envKeys maps environment variables onto config keys. They take precedence over the
// config file and lose to command line flags.
var envKeys = []struct {
	envVar string
	key    string
}{
	{constants.EnvVarURL, "url"},
	{constants.EnvVarAccessKey, "accessKey"},
	{constants.EnvVarSecretKey, "secret"},
	{constants.EnvVarEnvironment, "environment"},
}

// LoadEnvFiles attempts to load .env files from the working directory and the config directory.
// Variables already set in the process environment are never overwritten.
func LoadEnvFiles() {
	_ = godotenv.Load(constants.ConfigEnvFileName)

	if configDir, err := ConfigDir(); err == nil {
		configEnvPath := filepath.Join(configDir, constants.ConfigEnvFileName)
		_ = godotenv.Load(configEnvPath)
	}
}

func applyEnvVars(k *koanf.Koanf) {
	for _, e := range envKeys {
		if value, ok := os.LookupEnv(e.envVar); ok && value != "" {
			_ = k.Set(e.key, value)
		}
	}
}
