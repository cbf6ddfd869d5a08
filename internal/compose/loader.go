package compose

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Load returns the full text of a descriptor file. ok is false when the path is unset or the
// file is missing or unreadable; those cases are logged and never returned as errors.
func Load(path string, logger *slog.Logger) (content string, ok bool) {
	if path == "" {
		logger.Debug("No descriptor path configured")
		return "", false
	}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Warn("Descriptor file does not exist", "path", path)
		} else {
			logger.Error("Unable to stat descriptor file", "path", path, "error", err)
		}
		return "", false
	}
	if info.IsDir() {
		logger.Error("Descriptor path is a directory, not a file", "path", path)
		return "", false
	}

	data, err := os.ReadFile(path)
	if err != nil {
		logger.Error("Error while reading the descriptor file", "path", path, "error", err)
		return "", false
	}
	return string(data), true
}

// ServiceNames returns the sorted service names declared in a compose descriptor.
// Version 2+ files declare them under "services"; version 1 files at the top level.
// It returns nil when the content is not a YAML mapping.
func ServiceNames(content string) []string {
	var doc map[string]any
	if err := yaml.Unmarshal([]byte(content), &doc); err != nil || doc == nil {
		return nil
	}

	services := doc
	if raw, ok := doc["services"]; ok {
		m, ok := raw.(map[string]any)
		if !ok {
			return nil
		}
		services = m
	} else if _, versioned := doc["version"]; versioned {
		return nil
	}

	var names []string
	for name, def := range services {
		if _, ok := def.(map[string]any); ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
