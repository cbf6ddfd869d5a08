package config

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"filippo.io/age"
	"github.com/jinzhu/copier"
	"github.com/redfroggy/stackdeploy/internal/constants"
)

// LoadIdentity returns the age identity used to decrypt secretEncrypted. STACKDEPLOY_ENCRYPTION_KEY
// takes precedence over the identity file in the config directory.
func LoadIdentity() (*age.X25519Identity, error) {
	if key, ok := os.LookupEnv(constants.EnvVarAgeIdentity); ok && strings.TrimSpace(key) != "" {
		identity, err := age.ParseX25519Identity(strings.TrimSpace(key))
		if err != nil {
			return nil, fmt.Errorf("failed to parse age identity from %s: %w", constants.EnvVarAgeIdentity, err)
		}
		return identity, nil
	}

	identityPath, err := IdentityFilePath()
	if err != nil {
		return nil, fmt.Errorf("failed to get config directory: %w", err)
	}
	data, err := os.ReadFile(identityPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("age identity file not found at %s - run 'stackdeploy encrypt-secret --generate-key' first or set %s", identityPath, constants.EnvVarAgeIdentity)
		}
		return nil, fmt.Errorf("failed to read age identity file: %w", err)
	}
	identity, err := age.ParseX25519Identity(strings.TrimSpace(string(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse age identity from file: %w", err)
	}
	return identity, nil
}

// GenerateIdentity creates a new age identity and stores it in the config directory.
// An existing identity file is never overwritten.
func GenerateIdentity() (*age.X25519Identity, string, error) {
	dir, err := EnsureConfigDir()
	if err != nil {
		return nil, "", fmt.Errorf("failed to create config directory: %w", err)
	}
	identityPath := filepath.Join(dir, constants.IdentityFileName)
	if _, err := os.Stat(identityPath); err == nil {
		return nil, "", fmt.Errorf("age identity already exists at %s", identityPath)
	}

	identity, err := age.GenerateX25519Identity()
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate age identity: %w", err)
	}
	if err := os.WriteFile(identityPath, []byte(identity.String()+"\n"), constants.ModeFileSecret); err != nil {
		return nil, "", fmt.Errorf("failed to write age identity file: %w", err)
	}
	return identity, identityPath, nil
}

// EncryptSecret encrypts a plain-text value using the provided age recipient.
// It returns the encrypted value as a base64-encoded string for storage.
func EncryptSecret(value string, recipient age.Recipient) (string, error) {
	var rawBuffer bytes.Buffer
	encryptWriter, err := age.Encrypt(&rawBuffer, recipient)
	if err != nil {
		return "", fmt.Errorf("failed to initialize encryptor: %w", err)
	}
	if _, err = io.WriteString(encryptWriter, value); err != nil {
		return "", fmt.Errorf("failed to write value to encryption writer: %w", err)
	}
	if err := encryptWriter.Close(); err != nil {
		return "", fmt.Errorf("failed to close encryption writer: %w", err)
	}
	return base64.StdEncoding.EncodeToString(rawBuffer.Bytes()), nil
}

// DecryptSecret decrypts a base64-encoded secret using the provided age identity.
func DecryptSecret(secret string, identity age.Identity) (string, error) {
	encryptedBytes, err := base64.StdEncoding.DecodeString(strings.TrimSpace(secret))
	if err != nil {
		return "", fmt.Errorf("failed to decode base64 secret: %w", err)
	}

	decryptReader, err := age.Decrypt(bytes.NewReader(encryptedBytes), identity)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt value: %w", err)
	}

	var decryptedBuf bytes.Buffer
	if _, err := io.Copy(&decryptedBuf, decryptReader); err != nil {
		return "", fmt.Errorf("failed to read decrypted value: %w", err)
	}
	return decryptedBuf.String(), nil
}

// Resolve returns a copy of request with the API secret in plain text. A plain secret,
// from the file or RANCHER_SECRET_KEY, wins over secretEncrypted.
func Resolve(request DeploymentRequest) (*DeploymentRequest, error) {
	var resolved DeploymentRequest
	if err := copier.Copy(&resolved, &request); err != nil {
		return nil, fmt.Errorf("failed to copy config: %w", err)
	}

	if resolved.Secret != "" || resolved.SecretEncrypted == "" {
		return &resolved, nil
	}

	identity, err := LoadIdentity()
	if err != nil {
		return nil, err
	}
	secret, err := DecryptSecret(resolved.SecretEncrypted, identity)
	if err != nil {
		return nil, fmt.Errorf("secretEncrypted: %w", err)
	}
	resolved.Secret = secret
	return &resolved, nil
}
