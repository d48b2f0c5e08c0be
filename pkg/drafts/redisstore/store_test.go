package redisstore

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NamazuStudios/elements-formgen/pkg/drafts"
	"github.com/NamazuStudios/elements-formgen/pkg/metadata"
)

func setupTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewWithClient(client, "")
	t.Cleanup(func() { _ = store.Close() })
	return store, mr
}

func TestStore_SaveAndLoad(t *testing.T) {
	store, mr := setupTestStore(t)
	ctx := context.Background()
	key := drafts.Key{Resource: "applications", Mode: "update", ItemID: "app-1"}

	err := store.Save(ctx, key, metadata.ValueTree{"name": "game", "maxProfiles": 4})
	require.NoError(t, err)
	assert.True(t, mr.Exists("elements:drafts:applications:update:app-1"))

	draft, err := store.Load(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, key, draft.Key)
	assert.Equal(t, "game", draft.Values["name"])
	assert.Equal(t, float64(4), draft.Values["maxProfiles"])
	assert.False(t, draft.SavedAt.IsZero())
}

func TestStore_LoadMissing(t *testing.T) {
	store, _ := setupTestStore(t)

	_, err := store.Load(context.Background(), drafts.Key{Resource: "users", Mode: "create"})
	assert.ErrorIs(t, err, drafts.ErrNotFound)
}

func TestStore_Delete(t *testing.T) {
	store, mr := setupTestStore(t)
	ctx := context.Background()
	key := drafts.Key{Resource: "users", Mode: "create"}

	require.NoError(t, store.Save(ctx, key, metadata.ValueTree{"name": "x"}))
	require.NoError(t, store.Delete(ctx, key))
	assert.False(t, mr.Exists("elements:drafts:users:create"))

	_, err := store.Load(ctx, key)
	assert.ErrorIs(t, err, drafts.ErrNotFound)
}

func TestStore_TTL(t *testing.T) {
	store, mr := setupTestStore(t)
	store.WithTTL(time.Minute)
	ctx := context.Background()
	key := drafts.Key{Resource: "users", Mode: "create"}

	require.NoError(t, store.Save(ctx, key, metadata.ValueTree{"name": "x"}))
	assert.Equal(t, time.Minute, mr.TTL("elements:drafts:users:create"))

	mr.FastForward(2 * time.Minute)
	_, err := store.Load(ctx, key)
	assert.ErrorIs(t, err, drafts.ErrNotFound)
}

func TestStore_InvalidKey(t *testing.T) {
	store, _ := setupTestStore(t)

	err := store.Save(context.Background(), drafts.Key{}, nil)
	assert.ErrorIs(t, err, drafts.ErrInvalidKey)
}

func TestStore_KeySeparatorDoesNotCollide(t *testing.T) {
	store, mr := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, drafts.Key{Resource: "a", Mode: "b", ItemID: "c"}, metadata.ValueTree{"name": "kept"}))

	err := store.Save(ctx, drafts.Key{Resource: "a:b", Mode: "c"}, metadata.ValueTree{"name": "clobber"})
	assert.ErrorIs(t, err, drafts.ErrKeySeparator)

	draft, err := store.Load(ctx, drafts.Key{Resource: "a", Mode: "b", ItemID: "c"})
	require.NoError(t, err)
	assert.Equal(t, metadata.ValueTree{"name": "kept"}, draft.Values)
	assert.Len(t, mr.Keys(), 1)
}

func TestNew_ConnectionError(t *testing.T) {
	_, err := New(context.Background(), Config{Addr: "localhost:99999"})
	assert.Error(t, err)
}

func TestNew_CustomPrefix(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	store, err := New(context.Background(), Config{Addr: mr.Addr(), Prefix: "test:", TTL: time.Hour})
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Save(context.Background(), drafts.Key{Resource: "users", Mode: "create"}, nil))
	assert.True(t, mr.Exists("test:users:create"))
	assert.Equal(t, time.Hour, mr.TTL("test:users:create"))
}
