package stackdeploy

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"filippo.io/age"
	"github.com/redfroggy/stackdeploy/internal/config"
	"github.com/redfroggy/stackdeploy/internal/constants"
	"github.com/redfroggy/stackdeploy/internal/deploy"
	"github.com/redfroggy/stackdeploy/internal/ui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupWorkdir isolates a test from the host environment and moves it into an empty directory.
func setupWorkdir(t *testing.T) string {
	t.Helper()
	for _, name := range []string{
		constants.EnvVarURL,
		constants.EnvVarAccessKey,
		constants.EnvVarSecretKey,
		constants.EnvVarEnvironment,
		constants.EnvVarAgeIdentity,
		constants.EnvVarLogLevel,
	} {
		t.Setenv(name, "")
	}
	t.Setenv(constants.EnvVarConfigDir, t.TempDir())
	dir := t.TempDir()
	chdirForTest(t, dir)
	return dir
}

func captureUI(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	restore := ui.SetOutput(&buf)
	t.Cleanup(restore)
	return &buf
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetIn(strings.NewReader(""))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

type rancherStub struct {
	server       *httptest.Server
	mu           sync.Mutex
	calls        []string
	createStatus int
}

func newRancherStub(t *testing.T) *rancherStub {
	t.Helper()
	stub := &rancherStub{createStatus: http.StatusCreated}
	stub.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		stub.mu.Lock()
		stub.calls = append(stub.calls, r.Method+" "+r.URL.Path)
		stub.mu.Unlock()

		base := stub.server.URL + "/v2-beta"
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/v2-beta/projects":
			fmt.Fprintf(w, `{"data":[{"links":{"stacks":"%s/projects/1a5/stacks"}}]}`, base)
		case r.Method == http.MethodGet && r.URL.Path == "/v2-beta/projects/1a5/stacks":
			fmt.Fprintf(w, `{"data":[{"links":{"self":"%s/projects/1a5/stacks/1st5"}}]}`, base)
		case r.Method == http.MethodDelete:
			w.WriteHeader(http.StatusOK)
		case r.Method == http.MethodPost:
			w.WriteHeader(stub.createStatus)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(stub.server.Close)
	return stub
}

func writeDeployConfig(t *testing.T, dir, baseURL string) {
	t.Helper()
	content := fmt.Sprintf(`url: %s/v2-beta
accessKey: key
secret: s3cret
environment: prod
stack:
  name: web
  description: Web stack
  dockerComposeFile: docker-compose.yml
settle:
  delay: 1ms
`, baseURL)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "stackdeploy.yml"), []byte(content), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "docker-compose.yml"), []byte("web:\n  image: nginx\n"), 0o644))
}

func TestVersionCmd(t *testing.T) {
	setupWorkdir(t)
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "stackdeploy "+constants.Version+"\n", out)
}

func TestDeployCmd(t *testing.T) {
	dir := setupWorkdir(t)
	uiOut := captureUI(t)
	stub := newRancherStub(t)
	writeDeployConfig(t, dir, stub.server.URL)

	_, err := execute(t, "deploy")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"GET /v2-beta/projects",
		"GET /v2-beta/projects/1a5/stacks",
		"DELETE /v2-beta/projects/1a5/stacks/1st5",
		"GET /v2-beta/projects",
		"POST /v2-beta/projects/1a5/stacks",
	}, stub.calls)
	assert.Contains(t, uiOut.String(), "Stack 'web' redeployed")
	assert.Contains(t, uiOut.String(), "Create: status 201")
}

func TestDeployCmd_Strict(t *testing.T) {
	dir := setupWorkdir(t)
	captureUI(t)
	stub := newRancherStub(t)
	stub.createStatus = http.StatusInternalServerError
	writeDeployConfig(t, dir, stub.server.URL)

	_, err := execute(t, "deploy")
	require.NoError(t, err, "statuses are not errors without --strict")

	_, err = execute(t, "deploy", "--strict")
	assert.ErrorIs(t, err, deploy.ErrStrictStatus)
}

func TestDeployCmd_InvalidConfig(t *testing.T) {
	dir := setupWorkdir(t)
	captureUI(t)
	stub := newRancherStub(t)
	writeDeployConfig(t, dir, stub.server.URL)

	_, err := execute(t, "deploy", "--stack", "not a valid name")
	assert.ErrorContains(t, err, "invalid configuration")
	assert.Empty(t, stub.calls)
}

func TestDeployCmd_BadLogLevel(t *testing.T) {
	setupWorkdir(t)
	_, err := execute(t, "deploy", "--log-level", "loud")
	assert.ErrorContains(t, err, "unknown log level")
}

func TestInitThenValidateConfig(t *testing.T) {
	setupWorkdir(t)
	uiOut := captureUI(t)
	t.Setenv(constants.EnvVarAccessKey, "key")
	t.Setenv(constants.EnvVarSecretKey, "s3cret")

	_, err := execute(t, "init", "--stack", "web")
	require.NoError(t, err)
	assert.FileExists(t, "stackdeploy.yml")

	_, err = execute(t, "init")
	assert.ErrorContains(t, err, "already exists")

	_, err = execute(t, "validate-config")
	require.NoError(t, err)
	assert.Contains(t, uiOut.String(), "Config is valid!")
	assert.NotContains(t, uiOut.String(), "s3cret")
}

func TestEncryptSecretCmd(t *testing.T) {
	setupWorkdir(t)
	captureUI(t)
	identity, err := age.GenerateX25519Identity()
	require.NoError(t, err)
	t.Setenv(constants.EnvVarAgeIdentity, identity.String())

	out, err := execute(t, "encrypt-secret", "s3cret")
	require.NoError(t, err)

	decrypted, err := config.DecryptSecret(strings.TrimSpace(out), identity)
	require.NoError(t, err)
	assert.Equal(t, "s3cret", decrypted)
}

func TestEncryptSecretCmd_GenerateKey(t *testing.T) {
	setupWorkdir(t)
	captureUI(t)

	_, err := execute(t, "encrypt-secret", "s3cret")
	assert.ErrorContains(t, err, "age identity file not found")

	out, err := execute(t, "encrypt-secret", "--generate-key", "s3cret")
	require.NoError(t, err)

	identity, err := config.LoadIdentity()
	require.NoError(t, err)
	decrypted, err := config.DecryptSecret(strings.TrimSpace(out), identity)
	require.NoError(t, err)
	assert.Equal(t, "s3cret", decrypted)
}

func TestSecretValue(t *testing.T) {
	value, err := secretValue(strings.NewReader("from-stdin\n"), nil)
	require.NoError(t, err)
	assert.Equal(t, "from-stdin", value)

	value, err = secretValue(strings.NewReader("ignored"), []string{"from-arg"})
	require.NoError(t, err)
	assert.Equal(t, "from-arg", value)

	_, err = secretValue(strings.NewReader(""), nil)
	assert.ErrorContains(t, err, "cannot be empty")
}

func TestCompletionCmd(t *testing.T) {
	setupWorkdir(t)

	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			out, err := execute(t, "completion", shell)
			require.NoError(t, err)
			assert.Contains(t, out, "stackdeploy")
		})
	}

	_, err := execute(t, "completion", "tcsh")
	assert.ErrorContains(t, err, "unsupported shell type: tcsh")
}

func TestFlagValueCompletion(t *testing.T) {
	setupWorkdir(t)

	out, err := execute(t, "__complete", "deploy", "--settle", "")
	require.NoError(t, err)
	assert.Contains(t, out, "delay\n")
	assert.Contains(t, out, "poll\n")

	out, err = execute(t, "__complete", "deploy", "--log-level", "")
	require.NoError(t, err)
	assert.Contains(t, out, "debug\n")
}

// chdirForTest changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which requires Go 1.24).
func chdirForTest(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatal(err)
		}
	})
}
