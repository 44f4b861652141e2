package app_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unifiedui/admin-console/internal/app"
	"github.com/unifiedui/admin-console/internal/config"
	"github.com/unifiedui/admin-console/internal/domain/models"
	"github.com/unifiedui/admin-console/internal/infrastructure/store/memory"
	"github.com/unifiedui/admin-console/internal/pkg/encryption"
	"github.com/unifiedui/admin-console/internal/services/console"
	"github.com/unifiedui/admin-console/internal/testutil"
)

func TestNew_NilConfig(t *testing.T) {
	a, err := app.New(context.Background(), nil, zerolog.Nop(), app.Options{})

	assert.Nil(t, a)
	assert.EqualError(t, err, "config is required")
}

func TestNew_SelectsEnvironmentFromHostname(t *testing.T) {
	fake := testutil.NewAdminTwin(t)
	cfg := testutil.ConsoleConfig(t, fake.APIBase)
	cfg.Hostname = "www." + testutil.ConsoleHost

	a, err := app.New(context.Background(), cfg, zerolog.Nop(), app.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })

	assert.Equal(t, models.EnvironmentProd, a.Profile.Name)
	assert.Equal(t, "prod-product", a.Profile.ProductID)
}

func TestNew_UnconfiguredEnvironmentFails(t *testing.T) {
	cfg := testutil.ConsoleConfig(t, "https://unused.example.com")
	cfg.Hostname = "elsewhere.example.com"

	a, err := app.New(context.Background(), cfg, zerolog.Nop(), app.Options{})

	assert.Nil(t, a)
	assert.ErrorContains(t, err, "admin api base url is not configured")
}

func TestNew_RestoresSessionFromSharedStore(t *testing.T) {
	// Arrange
	ctx := context.Background()
	fake := testutil.NewAdminTwin(t)
	user := fake.Store.AddUser("user@example.com", map[string]models.FeatureValue{
		"Beta": models.Bool(true),
	})
	shared := memory.NewStore()
	cfg := testutil.ConsoleConfig(t, fake.APIBase)

	first, err := app.New(ctx, cfg, zerolog.Nop(), app.Options{Store: shared})
	require.NoError(t, err)
	found := first.Console.Dispatch(ctx, console.FindUser{EmailInput: "user@example.com"})
	require.True(t, found.OK, found.Message)

	// Act
	second, err := app.New(ctx, cfg, zerolog.Nop(), app.Options{Store: shared})
	require.NoError(t, err)

	// Assert
	current := second.Session.Current()
	require.NotNil(t, current)
	assert.Equal(t, user.ID, current.ID)
	assert.Equal(t, "user@example.com", current.Email)

	toggled := second.Console.Dispatch(ctx, console.ToggleFeature{Key: "Beta"})
	require.True(t, toggled.OK, toggled.Message)
	assert.Equal(t, 1, fake.Requests("/auth/login"), "second console must reuse the cached admin token")
}

func TestNewStore(t *testing.T) {
	client, err := app.NewStore(context.Background(), config.StoreConfig{Type: "memory"})
	require.NoError(t, err)
	assert.IsType(t, &memory.Store{}, client)

	_, err = app.NewStore(context.Background(), config.StoreConfig{Type: "etcd"})
	assert.EqualError(t, err, "unsupported store type: etcd")
}

func TestNewSealer(t *testing.T) {
	plain, err := app.NewSealer("")
	require.NoError(t, err)
	assert.IsType(t, &encryption.PlainSealer{}, plain)

	key, err := encryption.GenerateKey()
	require.NoError(t, err)
	sealed, err := app.NewSealer(key)
	require.NoError(t, err)
	assert.IsType(t, &encryption.AESSealer{}, sealed)
}

func TestNewVault_Unsupported(t *testing.T) {
	_, err := app.NewVault(config.VaultConfig{Type: "azure"})

	assert.EqualError(t, err, "unsupported vault type: azure")
}
