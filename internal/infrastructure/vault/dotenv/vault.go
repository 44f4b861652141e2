// Package dotenv provides a vault backed by environment variables.
package dotenv

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/joho/godotenv"
)

// Scheme is the URI prefix of dotenv secret references.
const Scheme = "dotenv://"

// Vault implements vault.Vault using environment variables, an optional
// secrets file, and secrets stored at runtime.
type Vault struct {
	// secrets holds values from the secrets file and StoreSecret calls
	secrets map[string]string
	mu      sync.RWMutex
}

// NewVault creates a new DotEnv vault. When files are given they are parsed
// with godotenv and their values are used after the process environment.
func NewVault(files ...string) (*Vault, error) {
	v := &Vault{secrets: make(map[string]string)}

	if len(files) > 0 {
		values, err := godotenv.Read(files...)
		if err != nil {
			return nil, fmt.Errorf("failed to read secrets file: %w", err)
		}
		for k, val := range values {
			v.secrets[k] = val
		}
	}

	return v, nil
}

// StoreSecret stores a secret in memory.
// Returns a URI in the format "dotenv://{key}".
func (v *Vault) StoreSecret(ctx context.Context, key string, value string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("secret key is required")
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	v.secrets[key] = value
	return Scheme + key, nil
}

// GetSecret retrieves a secret from environment variables or the in-memory store.
// Both "dotenv://KEY" and a bare "KEY" are accepted.
func (v *Vault) GetSecret(ctx context.Context, uri string) (string, error) {
	key := strings.TrimPrefix(uri, Scheme)
	if key == "" {
		return "", fmt.Errorf("secret uri is empty")
	}

	if value := os.Getenv(key); value != "" {
		return value, nil
	}

	v.mu.RLock()
	defer v.mu.RUnlock()

	if value, ok := v.secrets[key]; ok && value != "" {
		return value, nil
	}

	return "", fmt.Errorf("secret not found: %s", key)
}

// Ping always succeeds.
func (v *Vault) Ping(ctx context.Context) error {
	return nil
}

// Close is a no-op.
func (v *Vault) Close() error {
	return nil
}
