package config

import (
	"fmt"
	"reflect"
	"strconv"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/redfroggy/stackdeploy/internal/constants"
)

// DeploymentRequest carries everything one redeploy run needs. It is loaded once and
// treated as immutable for the rest of the run.
type DeploymentRequest struct {
	URL             string        `koanf:"url" json:"url" yaml:"url" toml:"url"`
	AccessKey       string        `koanf:"accessKey" json:"accessKey" yaml:"accessKey" toml:"accessKey"`
	Secret          string        `koanf:"secret" json:"secret,omitempty" yaml:"secret,omitempty" toml:"secret,omitempty"`
	SecretEncrypted string        `koanf:"secretEncrypted" json:"secretEncrypted,omitempty" yaml:"secretEncrypted,omitempty" toml:"secretEncrypted,omitempty"`
	Environment     string        `koanf:"environment" json:"environment" yaml:"environment" toml:"environment"`
	Stack           StackConfig   `koanf:"stack" json:"stack" yaml:"stack" toml:"stack"`
	Settle          SettleConfig  `koanf:"settle" json:"settle" yaml:"settle" toml:"settle"`
	RequestTimeout  time.Duration `koanf:"requestTimeout" json:"requestTimeout,omitempty" yaml:"requestTimeout,omitempty" toml:"requestTimeout,omitempty"`
}

type StackConfig struct {
	Name        string `koanf:"name" json:"name" yaml:"name" toml:"name"`
	Description string `koanf:"description" json:"description" yaml:"description" toml:"description"`
	// Kept as a string, it is sent to Rancher verbatim.
	StartOnCreate      string `koanf:"startOnCreate" json:"startOnCreate,omitempty" yaml:"startOnCreate,omitempty" toml:"startOnCreate,omitempty"`
	DockerComposeFile  string `koanf:"dockerComposeFile" json:"dockerComposeFile" yaml:"dockerComposeFile" toml:"dockerComposeFile"`
	RancherComposeFile string `koanf:"rancherComposeFile" json:"rancherComposeFile,omitempty" yaml:"rancherComposeFile,omitempty" toml:"rancherComposeFile,omitempty"`
}

// SettleConfig controls the wait between deleting and recreating a stack.
type SettleConfig struct {
	Mode    string        `koanf:"mode" json:"mode,omitempty" yaml:"mode,omitempty" toml:"mode,omitempty"` // "delay" or "poll"
	Delay   time.Duration `koanf:"delay" json:"delay,omitempty" yaml:"delay,omitempty" toml:"delay,omitempty"`
	Timeout time.Duration `koanf:"timeout" json:"timeout,omitempty" yaml:"timeout,omitempty" toml:"timeout,omitempty"`
}

// Overrides are values supplied on the command line. Empty fields are ignored.
type Overrides struct {
	URL                string
	Environment        string
	StackName          string
	Description        string
	StartOnCreate      string
	DockerComposeFile  string
	RancherComposeFile string
	SettleMode         string
}

func (o Overrides) apply(k *koanf.Koanf) {
	values := map[string]string{
		"url":                      o.URL,
		"environment":              o.Environment,
		"stack.name":               o.StackName,
		"stack.description":        o.Description,
		"stack.startOnCreate":      o.StartOnCreate,
		"stack.dockerComposeFile":  o.DockerComposeFile,
		"stack.rancherComposeFile": o.RancherComposeFile,
		"settle.mode":              o.SettleMode,
	}
	for key, value := range values {
		if value != "" {
			_ = k.Set(key, value)
		}
	}
}

// Normalize returns a copy with default values filled in.
func (r DeploymentRequest) Normalize() DeploymentRequest {
	normalized := r
	if normalized.Stack.StartOnCreate == "" {
		normalized.Stack.StartOnCreate = constants.DefaultStartOnCreate
	}
	if normalized.Settle.Mode == "" {
		normalized.Settle.Mode = constants.SettleModeDelay
	}
	if normalized.Settle.Delay == 0 {
		normalized.Settle.Delay = constants.DefaultSettleDelay
	}
	if normalized.Settle.Timeout == 0 {
		normalized.Settle.Timeout = constants.DefaultSettleTimeout
	}
	if normalized.RequestTimeout == 0 {
		normalized.RequestTimeout = constants.DefaultRequestTimeout
	}
	return normalized
}

// Load reads the config file at path (a file or a directory holding stackdeploy.yml and
// friends), then applies environment variables and overrides on top. An empty path looks in the
// current directory and tolerates a missing file.
func Load(path string, overrides Overrides) (*DeploymentRequest, error) {
	k := koanf.New(".")

	configFile, err := findConfigFileOrNone(path)
	if err != nil {
		return nil, err
	}
	if configFile != "" {
		parser, err := getConfigParser(configFile)
		if err != nil {
			return nil, err
		}
		if err := k.Load(file.Provider(configFile), parser); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
		if err := checkUnknownFields(k.Keys()); err != nil {
			return nil, fmt.Errorf("%s: %w", configFile, err)
		}
	}

	applyEnvVars(k)
	overrides.apply(k)

	var request DeploymentRequest
	decoderConfig := &mapstructure.DecoderConfig{
		TagName:          "koanf",
		Result:           &request,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			boolToStringHook,
		),
	}
	unmarshalConf := koanf.UnmarshalConf{
		Tag:           "koanf",
		DecoderConfig: decoderConfig,
	}
	if err := k.UnmarshalWithConf("", &request, unmarshalConf); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &request, nil
}

// boolToStringHook keeps an unquoted YAML/TOML boolean such as startOnCreate: true as
// "true" instead of the "1" weak decoding would produce.
func boolToStringHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if from.Kind() == reflect.Bool && to.Kind() == reflect.String {
		return strconv.FormatBool(data.(bool)), nil
	}
	return data, nil
}

// LoadAndValidate loads the configuration, fills in defaults, resolves the secret and validates
// the result.
func LoadAndValidate(path string, overrides Overrides) (*DeploymentRequest, error) {
	request, err := Load(path, overrides)
	if err != nil {
		return nil, err
	}
	normalized := request.Normalize()

	resolved, err := Resolve(normalized)
	if err != nil {
		return nil, err
	}
	if err := resolved.Validate(); err != nil {
		return nil, err
	}
	return resolved, nil
}
