package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"filippo.io/age"
	"github.com/redfroggy/stackdeploy/internal/constants"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncryptDecryptSecret(t *testing.T) {
	identity, err := age.GenerateX25519Identity()
	require.NoError(t, err)

	encrypted, err := EncryptSecret("s3cret", identity.Recipient())
	require.NoError(t, err)
	assert.NotContains(t, encrypted, "s3cret")

	decrypted, err := DecryptSecret(encrypted, identity)
	require.NoError(t, err)
	assert.Equal(t, "s3cret", decrypted)

	other, err := age.GenerateX25519Identity()
	require.NoError(t, err)
	_, err = DecryptSecret(encrypted, other)
	assert.ErrorContains(t, err, "failed to decrypt value")

	_, err = DecryptSecret("%%%", identity)
	assert.ErrorContains(t, err, "failed to decode base64 secret")
}

func TestResolve(t *testing.T) {
	isolateEnv(t)
	identity, err := age.GenerateX25519Identity()
	require.NoError(t, err)
	encrypted, err := EncryptSecret("s3cret", identity.Recipient())
	require.NoError(t, err)

	t.Run("plain secret is kept", func(t *testing.T) {
		request := validRequest()
		request.SecretEncrypted = "ignored"
		resolved, err := Resolve(request)
		require.NoError(t, err)
		assert.Equal(t, "s3cret", resolved.Secret)
	})

	t.Run("identity from environment", func(t *testing.T) {
		t.Setenv(constants.EnvVarAgeIdentity, identity.String())
		request := validRequest()
		request.Secret = ""
		request.SecretEncrypted = encrypted

		resolved, err := Resolve(request)
		require.NoError(t, err)
		assert.Equal(t, "s3cret", resolved.Secret)
		assert.Empty(t, request.Secret, "input request must not be modified")
	})

	t.Run("identity from config dir", func(t *testing.T) {
		dir := t.TempDir()
		t.Setenv(constants.EnvVarConfigDir, dir)
		require.NoError(t, os.WriteFile(filepath.Join(dir, constants.IdentityFileName), []byte(identity.String()+"\n"), 0o600))
		request := validRequest()
		request.Secret = ""
		request.SecretEncrypted = encrypted

		resolved, err := Resolve(request)
		require.NoError(t, err)
		assert.Equal(t, "s3cret", resolved.Secret)
	})

	t.Run("missing identity", func(t *testing.T) {
		t.Setenv(constants.EnvVarConfigDir, t.TempDir())
		request := validRequest()
		request.Secret = ""
		request.SecretEncrypted = encrypted

		_, err := Resolve(request)
		assert.ErrorContains(t, err, "age identity file not found")
	})
}

func TestGenerateIdentity(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	t.Setenv(constants.EnvVarConfigDir, dir)
	t.Setenv(constants.EnvVarAgeIdentity, "")

	identity, path, err := GenerateIdentity()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, constants.IdentityFileName), path)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, constants.ModeFileSecret, info.Mode().Perm())

	loaded, err := LoadIdentity()
	require.NoError(t, err)
	assert.Equal(t, identity.String(), loaded.String())

	_, _, err = GenerateIdentity()
	assert.ErrorContains(t, err, "already exists")
}

func TestConfigDir(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	t.Setenv(constants.EnvVarConfigDir, "~/custom/stackdeploy")
	dir, err := ConfigDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "custom", "stackdeploy"), dir)

	t.Setenv(constants.EnvVarConfigDir, "")
	dir, err = ConfigDir()
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(dir, filepath.Join(".config", "stackdeploy")))
}
