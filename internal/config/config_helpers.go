package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/v2"
	"github.com/redfroggy/stackdeploy/internal/constants"
)

var supportedConfigExtensions = []string{".yml", ".yaml", ".json", ".toml"}

func getConfigParser(configFile string) (koanf.Parser, error) {
	var parser koanf.Parser
	ext := filepath.Ext(configFile)
	switch ext {
	case ".json":
		parser = json.Parser()
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".toml":
		parser = toml.Parser()
	default:
		return nil, fmt.Errorf("unsupported config file type: %s", ext)
	}
	return parser, nil
}

// FindConfigFile resolves path to a config file. A directory is searched for
// stackdeploy.yml, stackdeploy.yaml, stackdeploy.json or stackdeploy.toml.
func FindConfigFile(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("config path %s does not exist", path)
		}
		return "", fmt.Errorf("failed to stat config path: %w", err)
	}
	if !info.IsDir() {
		if _, err := getConfigParser(path); err != nil {
			return "", err
		}
		return path, nil
	}

	for _, ext := range supportedConfigExtensions {
		candidate := filepath.Join(path, constants.DefaultConfigPrefix+ext)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("no %s.{yml,yaml,json,toml} found in %s", constants.DefaultConfigPrefix, path)
}

// findConfigFileOrNone is FindConfigFile for an optional path. An empty path searches the
// working directory and returns "" when nothing is there.
func findConfigFileOrNone(path string) (string, error) {
	if path != "" {
		return FindConfigFile(path)
	}
	configFile, err := FindConfigFile(".")
	if err != nil {
		return "", nil
	}
	return configFile, nil
}
