package dotenv_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unifiedui/admin-console/internal/core/vault"
	"github.com/unifiedui/admin-console/internal/infrastructure/vault/dotenv"
)

func TestVault_EnvironmentTakesPrecedence(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	file := filepath.Join(dir, "secrets.env")
	require.NoError(t, os.WriteFile(file, []byte("ADMIN_EMAIL=file@example.com\nADMIN_PASSWORD=from-file\n"), 0o600))
	t.Setenv("ADMIN_EMAIL", "env@example.com")

	v, err := dotenv.NewVault(file)
	require.NoError(t, err)

	// Act
	email, err := v.GetSecret(context.Background(), "dotenv://ADMIN_EMAIL")
	require.NoError(t, err)
	password, err := v.GetSecret(context.Background(), "ADMIN_PASSWORD")
	require.NoError(t, err)

	// Assert
	assert.Equal(t, "env@example.com", email)
	assert.Equal(t, "from-file", password)
}

func TestVault_MissingSecret(t *testing.T) {
	v, err := dotenv.NewVault()
	require.NoError(t, err)

	_, err = v.GetSecret(context.Background(), "dotenv://ADMIN_CONSOLE_TEST_MISSING")

	assert.ErrorContains(t, err, "secret not found")
}

func TestVault_StoreSecret(t *testing.T) {
	v, err := dotenv.NewVault()
	require.NoError(t, err)

	uri, err := v.StoreSecret(context.Background(), "ADMIN_CONSOLE_TEST_STORED", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "dotenv://ADMIN_CONSOLE_TEST_STORED", uri)

	value, err := v.GetSecret(context.Background(), uri)
	require.NoError(t, err)
	assert.Equal(t, "s3cret", value)
}

func TestVault_MissingFile(t *testing.T) {
	_, err := dotenv.NewVault(filepath.Join(t.TempDir(), "absent.env"))

	assert.Error(t, err)
}

func TestLoadCredentials(t *testing.T) {
	// Arrange
	v, err := dotenv.NewVault()
	require.NoError(t, err)
	ctx := context.Background()
	emailURI, _ := v.StoreSecret(ctx, "ADMIN_CONSOLE_TEST_EMAIL", " admin@example.com ")
	passwordURI, _ := v.StoreSecret(ctx, "ADMIN_CONSOLE_TEST_PASSWORD", "pw")

	// Act
	creds, err := vault.LoadCredentials(ctx, v, emailURI, passwordURI)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, vault.Credentials{Email: "admin@example.com", Password: "pw"}, creds)
}

func TestLoadCredentials_MissingPassword(t *testing.T) {
	v, err := dotenv.NewVault()
	require.NoError(t, err)
	ctx := context.Background()
	emailURI, _ := v.StoreSecret(ctx, "ADMIN_CONSOLE_TEST_EMAIL2", "admin@example.com")

	_, err = vault.LoadCredentials(ctx, v, emailURI, "dotenv://ADMIN_CONSOLE_TEST_NOPE")

	assert.ErrorContains(t, err, "admin password")
}
