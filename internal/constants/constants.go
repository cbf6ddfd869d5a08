package constants

import (
	"os"
	"time"
)

const (
	Version = "0.1.0"

	DefaultStartOnCreate  = "true"
	DefaultSettleDelay    = 5 * time.Second
	DefaultSettleTimeout  = 60 * time.Second
	DefaultRequestTimeout = 30 * time.Second

	SettleModeDelay = "delay"
	SettleModePoll  = "poll"

	// Environment variables
	EnvVarURL           = "RANCHER_URL"
	EnvVarAccessKey     = "RANCHER_ACCESS_KEY"
	EnvVarSecretKey     = "RANCHER_SECRET_KEY"
	EnvVarEnvironment   = "RANCHER_ENVIRONMENT"
	EnvVarAgeIdentity   = "STACKDEPLOY_ENCRYPTION_KEY"
	EnvVarConfigDir     = "STACKDEPLOY_CONFIG_DIR"
	EnvVarLogLevel      = "STACKDEPLOY_LOG_LEVEL"
	ConfigDirName       = "stackdeploy"
	ConfigEnvFileName   = ".env"
	IdentityFileName    = "age_identity.txt"
	DefaultConfigPrefix = "stackdeploy"
)

// File and directory permissions
const (
	ModeFileSecret os.FileMode = 0o600 // secrets: .env, keys
	ModeDirPrivate os.FileMode = 0o700 // private dirs
)
