package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unifiedui/admin-console/internal/infrastructure/store/memory"
)

func TestStore_SetGetDelete(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", []byte("v"), 0))

	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)

	deleted, err := s.Delete(ctx, "k")
	require.NoError(t, err)
	assert.True(t, deleted)

	got, err = s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStore_GetReturnsCopy(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, s.Set(ctx, "k", []byte("abc"), 0))

	got, _ := s.Get(ctx, "k")
	got[0] = 'z'

	again, _ := s.Get(ctx, "k")
	assert.Equal(t, []byte("abc"), again)
}

func TestStore_TTLExpiration(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s := memory.NewStoreWithClock(func() time.Time { return now })
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", []byte("v"), time.Minute))

	now = now.Add(2 * time.Minute)

	got, err := s.Get(ctx, "k")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestStore_DeletePattern(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()

	s.Set(ctx, "session:currentUser", []byte("1"), 0)
	s.Set(ctx, "session:x", []byte("2"), 0)
	s.Set(ctx, "durable:adminAuthTokenCache", []byte("3"), 0)

	deleted, err := s.DeletePattern(ctx, "session:*")
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	got, _ := s.Get(ctx, "durable:adminAuthTokenCache")
	assert.Equal(t, []byte("3"), got)
}

func TestStore_DeletePatternInvalid(t *testing.T) {
	s := memory.NewStore()

	_, err := s.DeletePattern(context.Background(), "[")

	assert.Error(t, err)
}
