package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/redfroggy/stackdeploy/internal/constants"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteTemplate_LoadsBack(t *testing.T) {
	for _, name := range []string{"stackdeploy.yml", "stackdeploy.json", "stackdeploy.toml"} {
		t.Run(name, func(t *testing.T) {
			isolateEnv(t)
			t.Setenv(constants.EnvVarAccessKey, "key")
			t.Setenv(constants.EnvVarSecretKey, "s3cret")
			path := filepath.Join(t.TempDir(), name)

			require.NoError(t, WriteTemplate(path, "web", false))

			request, err := LoadAndValidate(path, Overrides{})
			require.NoError(t, err)
			assert.Equal(t, "web", request.Stack.Name)
			assert.Equal(t, "rancher-compose.yml", request.Stack.RancherComposeFile)
			assert.Equal(t, constants.DefaultSettleDelay, request.Settle.Delay)
			assert.Equal(t, constants.DefaultRequestTimeout, request.RequestTimeout)
		})
	}
}

func TestWriteTemplate_KeepsExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stackdeploy.yml")
	require.NoError(t, os.WriteFile(path, []byte("url: keep\n"), 0o644))

	err := WriteTemplate(path, "web", false)
	assert.ErrorContains(t, err, "already exists")
	data, _ := os.ReadFile(path)
	assert.Equal(t, "url: keep\n", string(data))

	require.NoError(t, WriteTemplate(path, "web", true))
	data, _ = os.ReadFile(path)
	assert.Contains(t, string(data), "name: web")
}

func TestRenderTemplate_UnsupportedType(t *testing.T) {
	_, err := RenderTemplate("stackdeploy.ini", "web")
	assert.EqualError(t, err, "unsupported config file type: .ini")
}
