package config

import (
	"testing"
	"time"

	"github.com/redfroggy/stackdeploy/internal/constants"
	"github.com/stretchr/testify/assert"
)

func validRequest() DeploymentRequest {
	return DeploymentRequest{
		URL:         "https://rancher.example.com/v2-beta",
		AccessKey:   "key",
		Secret:      "s3cret",
		Environment: "prod",
		Stack: StackConfig{
			Name:              "web",
			Description:       "Web stack",
			DockerComposeFile: "docker-compose.yml",
		},
	}.Normalize()
}

func TestIsValidStackName(t *testing.T) {
	tests := []struct {
		name      string
		stackName string
		want      bool
	}{
		{"valid simple", "web", true},
		{"valid with hyphen", "my-web", true},
		{"valid with numbers", "web2", true},
		{"invalid with underscore", "my_web", false},
		{"invalid with space", "my web", false},
		{"invalid leading hyphen", "-web", false},
		{"invalid trailing hyphen", "web-", false},
		{"invalid with slash", "my/web", false},
		{"invalid empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isValidStackName(tt.stackName); got != tt.want {
				t.Errorf("isValidStackName(%q) = %v, want %v", tt.stackName, got, tt.want)
			}
		})
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{"https", "https://rancher.example.com/v2-beta", false},
		{"http with port", "http://10.0.0.1:8080/v1", false},
		{"empty", "", true},
		{"missing scheme", "rancher.example.com/v2-beta", true},
		{"ftp scheme", "ftp://rancher.example.com", true},
		{"missing host", "https:///v2-beta", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateURL(tt.url); (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDeploymentRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *DeploymentRequest)
		wantErr string
	}{
		{"valid", func(r *DeploymentRequest) {}, ""},
		{"rancher compose is optional", func(r *DeploymentRequest) { r.Stack.RancherComposeFile = "" }, ""},
		{"missing access key", func(r *DeploymentRequest) { r.AccessKey = "" }, "accessKey is required"},
		{"missing secret", func(r *DeploymentRequest) { r.Secret = "" }, "secret is required"},
		{"missing environment", func(r *DeploymentRequest) { r.Environment = "" }, "environment is required"},
		{"missing stack name", func(r *DeploymentRequest) { r.Stack.Name = "" }, "stack: name is required"},
		{"missing description", func(r *DeploymentRequest) { r.Stack.Description = "" }, "stack: description is required"},
		{"missing docker compose", func(r *DeploymentRequest) { r.Stack.DockerComposeFile = "" }, "dockerComposeFile is required"},
		{"bad start on create", func(r *DeploymentRequest) { r.Stack.StartOnCreate = "yes please" }, "startOnCreate must be"},
		{"unknown settle mode", func(r *DeploymentRequest) { r.Settle.Mode = "wait" }, "settle: unknown mode 'wait'"},
		{"negative delay", func(r *DeploymentRequest) { r.Settle.Delay = -time.Second }, "delay cannot be negative"},
		{"poll with tiny timeout", func(r *DeploymentRequest) {
			r.Settle.Mode = constants.SettleModePoll
			r.Settle.Timeout = time.Millisecond
		}, "timeout must be at least 1s"},
		{"bad url", func(r *DeploymentRequest) { r.URL = "rancher" }, "invalid url"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := validRequest()
			tt.mutate(&request)
			err := request.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestCheckUnknownFields(t *testing.T) {
	assert.NoError(t, checkUnknownFields([]string{
		"url", "accessKey", "secret", "secretEncrypted", "environment",
		"stack.name", "stack.description", "stack.startOnCreate",
		"stack.dockerComposeFile", "stack.rancherComposeFile",
		"settle.mode", "settle.delay", "settle.timeout", "requestTimeout",
	}))
	assert.EqualError(t, checkUnknownFields([]string{"stack.scale", "apps"}), "unknown field(s): apps, stack.scale")
}
