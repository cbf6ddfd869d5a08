package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"github.com/redfroggy/stackdeploy/internal/constants"
	"gopkg.in/yaml.v3"
)

// templateDoc mirrors DeploymentRequest with durations written as strings so every format
// round-trips through the duration decode hook.
type templateDoc struct {
	URL         string         `json:"url" yaml:"url" toml:"url"`
	AccessKey   string         `json:"accessKey" yaml:"accessKey" toml:"accessKey"`
	Secret      string         `json:"secret" yaml:"secret" toml:"secret"`
	Environment string         `json:"environment" yaml:"environment" toml:"environment"`
	Timeout     string         `json:"requestTimeout" yaml:"requestTimeout" toml:"requestTimeout"`
	Stack       StackConfig    `json:"stack" yaml:"stack" toml:"stack"`
	Settle      templateSettle `json:"settle" yaml:"settle" toml:"settle"`
}

type templateSettle struct {
	Mode    string `json:"mode" yaml:"mode" toml:"mode"`
	Delay   string `json:"delay" yaml:"delay" toml:"delay"`
	Timeout string `json:"timeout" yaml:"timeout" toml:"timeout"`
}

func newTemplateDoc(stackName string) templateDoc {
	return templateDoc{
		URL:         "https://rancher.example.com/v2-beta",
		AccessKey:   "",
		Secret:      "",
		Environment: "Default",
		Timeout:     constants.DefaultRequestTimeout.String(),
		Stack: StackConfig{
			Name:               stackName,
			Description:        stackName + " stack",
			StartOnCreate:      constants.DefaultStartOnCreate,
			DockerComposeFile:  "docker-compose.yml",
			RancherComposeFile: "rancher-compose.yml",
		},
		Settle: templateSettle{
			Mode:    constants.SettleModeDelay,
			Delay:   constants.DefaultSettleDelay.String(),
			Timeout: constants.DefaultSettleTimeout.String(),
		},
	}
}

// RenderTemplate returns a starter config in the format implied by the file extension.
func RenderTemplate(path, stackName string) ([]byte, error) {
	doc := newTemplateDoc(stackName)
	switch ext := filepath.Ext(path); ext {
	case ".json":
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	case ".yaml", ".yml":
		return yaml.Marshal(doc)
	case ".toml":
		return toml.Marshal(doc)
	default:
		return nil, fmt.Errorf("unsupported config file type: %s", ext)
	}
}

// WriteTemplate writes a starter config to path. Existing files are kept unless force is set.
func WriteTemplate(path, stackName string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists, use --force to overwrite", path)
	}
	data, err := RenderTemplate(path, stackName)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, constants.ModeFileSecret); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
