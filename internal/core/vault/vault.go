// Package vault defines the secret source for the administrative credentials.
package vault

import (
	"context"
	"fmt"
	"strings"
)

// Vault resolves secret references to their values.
type Vault interface {
	// GetSecret retrieves a secret by URI.
	// Returns an error if the secret does not exist or is empty.
	GetSecret(ctx context.Context, uri string) (string, error)

	// StoreSecret stores a secret and returns its URI.
	StoreSecret(ctx context.Context, key string, value string) (string, error)

	// Ping checks if the vault is reachable.
	Ping(ctx context.Context) error

	// Close releases the vault.
	Close() error
}

// Credentials is the shared administrative login used for every admin API call.
type Credentials struct {
	Email    string
	Password string
}

// LoadCredentials reads the administrative email and password from v.
func LoadCredentials(ctx context.Context, v Vault, emailURI, passwordURI string) (Credentials, error) {
	email, err := v.GetSecret(ctx, emailURI)
	if err != nil {
		return Credentials{}, fmt.Errorf("failed to read admin email: %w", err)
	}

	password, err := v.GetSecret(ctx, passwordURI)
	if err != nil {
		return Credentials{}, fmt.Errorf("failed to read admin password: %w", err)
	}

	return Credentials{Email: strings.TrimSpace(email), Password: password}, nil
}
