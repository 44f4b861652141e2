package token_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/unifiedui/admin-console/internal/core/vault"
	domainerrors "github.com/unifiedui/admin-console/internal/domain/errors"
	"github.com/unifiedui/admin-console/internal/domain/models"
	"github.com/unifiedui/admin-console/internal/infrastructure/store/memory"
	"github.com/unifiedui/admin-console/internal/infrastructure/vault/dotenv"
	"github.com/unifiedui/admin-console/internal/services/state"
	"github.com/unifiedui/admin-console/internal/services/token"
	"github.com/unifiedui/admin-console/internal/testutil"
	"github.com/unifiedui/admin-console/internal/testutil/mocks"
)

var fixedNow = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

type fixture struct {
	cache *token.Cache
	state *state.Service
	auth  *mocks.MockAdminAPI
	creds vault.Credentials
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	st, err := state.NewService(&state.Config{Client: memory.NewStore()})
	require.NoError(t, err)

	v, err := dotenv.NewVault()
	require.NoError(t, err)
	ctx := context.Background()
	emailURI, err := v.StoreSecret(ctx, "TOKEN_TEST_ADMIN_EMAIL", "admin@example.com")
	require.NoError(t, err)
	passwordURI, err := v.StoreSecret(ctx, "TOKEN_TEST_ADMIN_PASSWORD", "pw")
	require.NoError(t, err)

	auth := &mocks.MockAdminAPI{}
	logger := zerolog.Nop()
	cache, err := token.NewCache(&token.Config{
		Store:         st,
		Authenticator: auth,
		Vault:         v,
		EmailURI:      emailURI,
		PasswordURI:   passwordURI,
		Now:           func() time.Time { return fixedNow },
		Logger:        &logger,
	})
	require.NoError(t, err)

	return &fixture{
		cache: cache,
		state: st,
		auth:  auth,
		creds: vault.Credentials{Email: "admin@example.com", Password: "pw"},
	}
}

func TestNewCache_Validation(t *testing.T) {
	_, err := token.NewCache(nil)
	assert.EqualError(t, err, "config is required")

	_, err = token.NewCache(&token.Config{})
	assert.EqualError(t, err, "state store is required")
}

func TestCache_ReusesValidToken(t *testing.T) {
	// Arrange
	f := newFixture(t)
	ctx := context.Background()
	cached := &models.AdminSession{Token: "cached-token", ExpiresAt: fixedNow.Add(time.Hour)}
	require.NoError(t, f.state.Set(ctx, state.ScopeDurable, state.KeyAdminToken, cached))

	// Act
	got, err := f.cache.GetToken(ctx)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "cached-token", got)
	f.auth.AssertNotCalled(t, "Login", mock.Anything, mock.Anything)
}

func TestCache_RefreshesExpiredToken(t *testing.T) {
	// Arrange
	f := newFixture(t)
	ctx := context.Background()
	expired := &models.AdminSession{Token: "old-token", ExpiresAt: fixedNow}
	require.NoError(t, f.state.Set(ctx, state.ScopeDurable, state.KeyAdminToken, expired))
	f.auth.On("Login", mock.Anything, f.creds).Return("new-token", nil).Once()

	// Act
	got, err := f.cache.GetToken(ctx)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "new-token", got)

	var stored models.AdminSession
	found, err := f.state.Get(ctx, state.ScopeDurable, state.KeyAdminToken, &stored)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "new-token", stored.Token)
	assert.True(t, fixedNow.Add(24*time.Hour).Equal(stored.ExpiresAt))
	f.auth.AssertExpectations(t)
}

func TestCache_LoginFailureIsNotCached(t *testing.T) {
	// Arrange
	f := newFixture(t)
	ctx := context.Background()
	f.auth.On("Login", mock.Anything, f.creds).Return("", domainerrors.NewAuthenticationError("admin login failed", 401)).Once()

	// Act
	_, err := f.cache.GetToken(ctx)

	// Assert
	assert.True(t, domainerrors.IsAuthenticationError(err))
	var stored models.AdminSession
	found, err := f.state.Get(ctx, state.ScopeDurable, state.KeyAdminToken, &stored)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCache_ConcurrentMissesShareOneLogin(t *testing.T) {
	// Arrange
	f := newFixture(t)
	f.auth.On("Login", mock.Anything, f.creds).
		Run(func(mock.Arguments) { time.Sleep(50 * time.Millisecond) }).
		Return("shared-token", nil).Once()

	// Act
	var wg sync.WaitGroup
	results := make([]string, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = f.cache.GetToken(context.Background())
		}(i)
	}
	wg.Wait()

	// Assert
	for _, r := range results {
		assert.Equal(t, "shared-token", r)
	}
	f.auth.AssertNumberOfCalls(t, "Login", 1)
}

func TestCache_CancelledCallerDoesNotFailJoinedCallers(t *testing.T) {
	// Arrange
	f := newFixture(t)
	started := make(chan struct{}, 1)
	release := make(chan struct{})
	var loginCtxErr error
	f.auth.On("Login", mock.Anything, f.creds).
		Run(func(args mock.Arguments) {
			started <- struct{}{}
			<-release
			loginCtxErr = args.Get(0).(context.Context).Err()
		}).
		Return("shared-token", nil).Once()

	leaderCtx, cancel := context.WithCancel(context.Background())
	leaderErr := make(chan error, 1)
	go func() {
		_, err := f.cache.GetToken(leaderCtx)
		leaderErr <- err
	}()
	<-started

	type result struct {
		token string
		err   error
	}
	joined := make(chan result, 1)
	go func() {
		tok, err := f.cache.GetToken(context.Background())
		joined <- result{tok, err}
	}()
	time.Sleep(20 * time.Millisecond)

	// Act
	cancel()
	assert.ErrorIs(t, <-leaderErr, context.Canceled)
	close(release)
	got := <-joined

	// Assert
	require.NoError(t, got.err)
	assert.Equal(t, "shared-token", got.token)
	assert.NoError(t, loginCtxErr)
	f.auth.AssertNumberOfCalls(t, "Login", 1)

	tok, err := f.cache.GetToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "shared-token", tok)
}

func TestCache_Invalidate(t *testing.T) {
	// Arrange
	f := newFixture(t)
	ctx := context.Background()
	valid := &models.AdminSession{Token: "cached-token", ExpiresAt: fixedNow.Add(time.Hour)}
	require.NoError(t, f.state.Set(ctx, state.ScopeDurable, state.KeyAdminToken, valid))
	f.auth.On("Login", mock.Anything, f.creds).Return("fresh-token", nil).Once()

	// Act
	require.NoError(t, f.cache.Invalidate(ctx))
	got, err := f.cache.GetToken(ctx)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "fresh-token", got)
}

func TestCache_AgainstTwin(t *testing.T) {
	// Arrange
	fake := testutil.NewAdminTwin(t)
	st, err := state.NewService(&state.Config{Client: memory.NewStore()})
	require.NoError(t, err)
	v, err := dotenv.NewVault()
	require.NoError(t, err)
	ctx := context.Background()
	emailURI, _ := v.StoreSecret(ctx, "TOKEN_TWIN_EMAIL", testutil.AdminEmail)
	passwordURI, _ := v.StoreSecret(ctx, "TOKEN_TWIN_PASSWORD", testutil.AdminPassword)

	client := testutil.NewAdminClient(t, fake.APIBase)
	cache, err := token.NewCache(&token.Config{
		Store:         st,
		Authenticator: client,
		Vault:         v,
		EmailURI:      emailURI,
		PasswordURI:   passwordURI,
	})
	require.NoError(t, err)

	// Act
	first, err := cache.GetToken(ctx)
	require.NoError(t, err)
	second, err := cache.GetToken(ctx)
	require.NoError(t, err)

	// Assert
	assert.Equal(t, first, second)
	assert.Equal(t, 1, fake.Requests("/auth/login"))
}
