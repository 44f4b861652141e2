package state_test

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/unifiedui/admin-console/internal/domain/models"
	"github.com/unifiedui/admin-console/internal/infrastructure/store/memory"
	redisstore "github.com/unifiedui/admin-console/internal/infrastructure/store/redis"
	"github.com/unifiedui/admin-console/internal/pkg/encryption"
	"github.com/unifiedui/admin-console/internal/services/state"
	"github.com/unifiedui/admin-console/internal/testutil/mocks"
)

func newRedisState(t *testing.T, sealer encryption.Sealer) (*miniredis.Miniredis, *state.Service) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)

	client, err := redisstore.NewStore(redisstore.Config{Host: mr.Host(), Port: mr.Port()})
	require.NoError(t, err)

	svc, err := state.NewService(&state.Config{
		Client:     client,
		Sealer:     sealer,
		SessionTTL: time.Hour,
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})

	return mr, svc
}

func TestNewService_NilConfig(t *testing.T) {
	svc, err := state.NewService(nil)

	assert.Nil(t, svc)
	assert.EqualError(t, err, "config is required")
}

func TestNewService_NilClient(t *testing.T) {
	svc, err := state.NewService(&state.Config{})

	assert.Nil(t, svc)
	assert.EqualError(t, err, "store client is required")
}

func TestService_SetAndGet(t *testing.T) {
	// Arrange
	key, err := encryption.GenerateKey()
	require.NoError(t, err)
	sealer, err := encryption.NewAESSealer(key)
	require.NoError(t, err)
	_, svc := newRedisState(t, sealer)
	ctx := context.Background()

	position := models.Position{Left: 40, Top: 120}

	// Act
	require.NoError(t, svc.Set(ctx, state.ScopeDurable, state.KeyPanelPosition, position))

	var got models.Position
	found, err := svc.Get(ctx, state.ScopeDurable, state.KeyPanelPosition, &got)

	// Assert
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, position, got)
}

func TestService_GetAbsentKey(t *testing.T) {
	_, svc := newRedisState(t, nil)

	collapsed := true
	found, err := svc.Get(context.Background(), state.ScopeDurable, state.KeyPanelCollapsed, &collapsed)

	require.NoError(t, err)
	assert.False(t, found)
	assert.True(t, collapsed, "destination must be left untouched")
}

func TestService_CorruptJSONBehavesAsAbsent(t *testing.T) {
	// Arrange
	mr, svc := newRedisState(t, nil)
	storageKey := svc.BuildKey(state.ScopeDurable, state.KeyPanelPosition)
	require.NoError(t, mr.Set(storageKey, base64.StdEncoding.EncodeToString([]byte("{not json"))))

	// Act
	got, err := state.GetOr(context.Background(), svc, state.ScopeDurable, state.KeyPanelPosition, models.Position{Left: 20})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, models.Position{Left: 20}, got)
	assert.False(t, mr.Exists(storageKey), "corrupt entry must be evicted")
}

func TestService_UndecryptableValueBehavesAsAbsent(t *testing.T) {
	// Arrange
	key, err := encryption.GenerateKey()
	require.NoError(t, err)
	sealer, err := encryption.NewAESSealer(key)
	require.NoError(t, err)
	mr, svc := newRedisState(t, sealer)
	storageKey := svc.BuildKey(state.ScopeDurable, state.KeyAdminToken)
	require.NoError(t, mr.Set(storageKey, "garbage"))

	// Act
	var session models.AdminSession
	found, err := svc.Get(context.Background(), state.ScopeDurable, state.KeyAdminToken, &session)

	// Assert
	require.NoError(t, err)
	assert.False(t, found)
	assert.False(t, mr.Exists(storageKey))
}

func TestService_TypeMismatchBehavesAsAbsent(t *testing.T) {
	_, svc := newRedisState(t, nil)
	ctx := context.Background()
	require.NoError(t, svc.Set(ctx, state.ScopeDurable, state.KeyPanelCollapsed, "yes"))

	collapsed, err := state.GetOr(ctx, svc, state.ScopeDurable, state.KeyPanelCollapsed, false)

	require.NoError(t, err)
	assert.False(t, collapsed)
}

func TestService_SessionScopeHasTTL(t *testing.T) {
	mr, svc := newRedisState(t, nil)
	ctx := context.Background()

	require.NoError(t, svc.Set(ctx, state.ScopeSession, state.KeyCurrentUser, models.NewUserRecord("42", "", nil)))
	require.NoError(t, svc.Set(ctx, state.ScopeDurable, state.KeyPanelCollapsed, true))

	assert.Equal(t, time.Hour, mr.TTL(svc.BuildKey(state.ScopeSession, state.KeyCurrentUser)))
	assert.Equal(t, time.Duration(0), mr.TTL(svc.BuildKey(state.ScopeDurable, state.KeyPanelCollapsed)))
}

func TestService_ClearOnlyTouchesScope(t *testing.T) {
	_, svc := newRedisState(t, nil)
	ctx := context.Background()

	require.NoError(t, svc.Set(ctx, state.ScopeSession, state.KeyCurrentUser, models.NewUserRecord("42", "", nil)))
	require.NoError(t, svc.Set(ctx, state.ScopeDurable, state.KeyPanelCollapsed, true))

	require.NoError(t, svc.Clear(ctx, state.ScopeSession))

	var user models.UserRecord
	found, err := svc.Get(ctx, state.ScopeSession, state.KeyCurrentUser, &user)
	require.NoError(t, err)
	assert.False(t, found)

	collapsed, err := state.GetOr(ctx, svc, state.ScopeDurable, state.KeyPanelCollapsed, false)
	require.NoError(t, err)
	assert.True(t, collapsed)
}

func TestService_Remove(t *testing.T) {
	svc, err := state.NewService(&state.Config{Client: memory.NewStore()})
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, svc.Set(ctx, state.ScopeDurable, state.KeyPanelCollapsed, true))
	require.NoError(t, svc.Remove(ctx, state.ScopeDurable, state.KeyPanelCollapsed))

	var collapsed bool
	found, err := svc.Get(ctx, state.ScopeDurable, state.KeyPanelCollapsed, &collapsed)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestService_NamespacedKeys(t *testing.T) {
	svc, err := state.NewService(&state.Config{Client: memory.NewStore(), Namespace: "console"})
	require.NoError(t, err)

	assert.Equal(t, "console:durable:adminAuthTokenCache", svc.BuildKey(state.ScopeDurable, state.KeyAdminToken))
}

func TestService_GetRequiresPointer(t *testing.T) {
	svc, err := state.NewService(&state.Config{Client: memory.NewStore()})
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), state.ScopeDurable, state.KeyPanelCollapsed, false)

	assert.Error(t, err)
}

func TestService_BackendErrorPropagates(t *testing.T) {
	// Arrange
	client := &mocks.MockStoreClient{}
	client.On("Get", mock.Anything, "durable:adminAuthTokenCache").Return(nil, errors.New("connection refused"))
	svc, err := state.NewService(&state.Config{Client: client})
	require.NoError(t, err)

	// Act
	var session models.AdminSession
	found, err := svc.Get(context.Background(), state.ScopeDurable, state.KeyAdminToken, &session)

	// Assert
	assert.False(t, found)
	assert.ErrorContains(t, err, "connection refused")
	client.AssertExpectations(t)
}

func TestService_OpenFailureEvictsThroughClient(t *testing.T) {
	// Arrange
	client := &mocks.MockStoreClient{}
	sealer := &mocks.MockSealer{}
	client.On("Get", mock.Anything, "session:currentUser").Return([]byte("sealed"), nil)
	client.On("Delete", mock.Anything, "session:currentUser").Return(true, nil)
	sealer.On("Open", "session:currentUser", "sealed").Return(nil, errors.New("key rotated"))

	svc, err := state.NewService(&state.Config{Client: client, Sealer: sealer})
	require.NoError(t, err)

	// Act
	var user models.UserRecord
	found, err := svc.Get(context.Background(), state.ScopeSession, state.KeyCurrentUser, &user)

	// Assert
	require.NoError(t, err)
	assert.False(t, found)
	client.AssertExpectations(t)
	sealer.AssertExpectations(t)
}
