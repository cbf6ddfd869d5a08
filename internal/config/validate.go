package config

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/redfroggy/stackdeploy/internal/constants"
)

var stackNamePattern = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9-]*[a-zA-Z0-9])?$`)

// Validate checks that a resolved request is complete enough to talk to Rancher.
func (r *DeploymentRequest) Validate() error {
	if err := ValidateURL(r.URL); err != nil {
		return err
	}
	if r.AccessKey == "" {
		return fmt.Errorf("accessKey is required (or set %s)", constants.EnvVarAccessKey)
	}
	if r.Secret == "" {
		return fmt.Errorf("secret is required (set secret, secretEncrypted or %s)", constants.EnvVarSecretKey)
	}
	if r.Environment == "" {
		return fmt.Errorf("environment is required (or set %s)", constants.EnvVarEnvironment)
	}
	if err := r.Stack.Validate(); err != nil {
		return fmt.Errorf("stack: %w", err)
	}
	if err := r.Settle.Validate(); err != nil {
		return fmt.Errorf("settle: %w", err)
	}
	if r.RequestTimeout < 0 {
		return errors.New("requestTimeout cannot be negative")
	}
	return nil
}

func (s StackConfig) Validate() error {
	if s.Name == "" {
		return errors.New("name is required")
	}
	if !isValidStackName(s.Name) {
		return fmt.Errorf("invalid stack name '%s'; must contain only alphanumeric characters and hyphens", s.Name)
	}
	if s.Description == "" {
		return errors.New("description is required")
	}
	if _, err := strconv.ParseBool(s.StartOnCreate); err != nil {
		return fmt.Errorf("startOnCreate must be 'true' or 'false', got '%s'", s.StartOnCreate)
	}
	if s.DockerComposeFile == "" {
		return errors.New("dockerComposeFile is required")
	}
	return nil
}

func (s SettleConfig) Validate() error {
	switch s.Mode {
	case constants.SettleModeDelay, constants.SettleModePoll:
	default:
		return fmt.Errorf("unknown mode '%s'; must be '%s' or '%s'", s.Mode, constants.SettleModeDelay, constants.SettleModePoll)
	}
	if s.Delay < 0 {
		return errors.New("delay cannot be negative")
	}
	if s.Mode == constants.SettleModePoll && s.Timeout < time.Second {
		return errors.New("timeout must be at least 1s when polling")
	}
	return nil
}

// ValidateURL checks that the API base URL is an absolute http(s) URL.
func ValidateURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("url is required (or set %s)", constants.EnvVarURL)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid url '%s': %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid url '%s'; scheme must be http or https", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid url '%s'; missing host", raw)
	}
	return nil
}

func isValidStackName(name string) bool {
	return stackNamePattern.MatchString(name)
}

// knownKeys returns the dotted koanf keys a struct type accepts, including the
// prefixes of nested sections.
func knownKeys(t reflect.Type, prefix string, keys map[string]bool) {
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("koanf")
		if tag == "" || tag == "-" {
			continue
		}
		key := prefix + strings.Split(tag, ",")[0]
		keys[key] = true
		if field.Type.Kind() == reflect.Struct && field.Type != reflect.TypeOf(time.Time{}) {
			knownKeys(field.Type, key+".", keys)
		}
	}
}

// checkUnknownFields rejects config keys that do not map onto DeploymentRequest.
func checkUnknownFields(keys []string) error {
	known := make(map[string]bool)
	knownKeys(reflect.TypeOf(DeploymentRequest{}), "", known)

	var unknown []string
	for _, key := range keys {
		if !known[key] {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	sort.Strings(unknown)
	return fmt.Errorf("unknown field(s): %s", strings.Join(unknown, ", "))
}
