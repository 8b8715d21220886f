package credential_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/portiva/portiva/internal/credential"
	"github.com/portiva/portiva/internal/shared"
)

func newStore(t *testing.T) *credential.RedisStore {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return credential.NewRedisStore(client, time.Hour)
}

func TestSetGetHas(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	has, err := store.Has(ctx, "sid-1")
	require.NoError(t, err)
	assert.False(t, has)

	require.NoError(t, store.Set(ctx, "sid-1", "token-a"))

	has, err = store.Has(ctx, "sid-1")
	require.NoError(t, err)
	assert.True(t, has)

	token, err := store.Get(ctx, "sid-1")
	require.NoError(t, err)
	assert.Equal(t, "token-a", token)
}

func TestSetOverwrites(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "sid-1", "token-a"))
	require.NoError(t, store.Set(ctx, "sid-1", "token-b"))

	token, err := store.Get(ctx, "sid-1")
	require.NoError(t, err)
	assert.Equal(t, "token-b", token)
}

func TestGetEmptySlot(t *testing.T) {
	store := newStore(t)

	_, err := store.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, shared.ErrNoCredential)
}

func TestClearIsIdempotent(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "sid-1", "token-a"))
	require.NoError(t, store.Clear(ctx, "sid-1"))
	require.NoError(t, store.Clear(ctx, "sid-1"))

	has, err := store.Has(ctx, "sid-1")
	require.NoError(t, err)
	assert.False(t, has)
}

func TestSessionsAreIsolated(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "sid-1", "token-a"))

	_, err := store.Get(ctx, "sid-2")
	assert.ErrorIs(t, err, shared.ErrNoCredential)
}
