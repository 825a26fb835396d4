package gallery

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	store, err := NewRedisStore(mr.Addr(), "", 0)
	require.NoError(t, err)

	return store, mr
}

func TestRedisStore_SaveAndList(t *testing.T) {
	store, mr := setupTestRedis(t)
	defer mr.Close()
	defer store.Close()

	ctx := context.Background()

	saved, err := store.Save(ctx, Asset{
		ID:        "v1",
		SubjectID: "abc",
		Kind:      KindVoice,
		Prompt:    "narrate this",
		URL:       "/assets/voice/v1.mp3",
		CreatedAt: time.Now().UTC(),
	})
	require.NoError(t, err)
	assert.Equal(t, "v1", saved.ID)

	assets, err := store.ListBySubject(ctx, "abc")
	require.NoError(t, err)
	require.Len(t, assets, 1)
	assert.Equal(t, "narrate this", assets[0].Prompt)
	assert.Equal(t, KindVoice, assets[0].Kind)
}

func TestRedisStore_SaveOverwritesSameID(t *testing.T) {
	store, mr := setupTestRedis(t)
	defer mr.Close()
	defer store.Close()

	ctx := context.Background()

	_, err := store.Save(ctx, Asset{ID: "v1", SubjectID: "abc", Kind: KindVoice, Prompt: "first"})
	require.NoError(t, err)
	_, err = store.Save(ctx, Asset{ID: "v1", SubjectID: "abc", Kind: KindVoice, Prompt: "second"})
	require.NoError(t, err)

	assets, err := store.ListBySubject(ctx, "abc")
	require.NoError(t, err)
	require.Len(t, assets, 1)
	assert.Equal(t, "second", assets[0].Prompt)
}

func TestRedisStore_ListEmpty(t *testing.T) {
	store, mr := setupTestRedis(t)
	defer mr.Close()
	defer store.Close()

	assets, err := store.ListBySubject(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Empty(t, assets)
}

func TestRedisStore_DeleteBySubject(t *testing.T) {
	store, mr := setupTestRedis(t)
	defer mr.Close()
	defer store.Close()

	ctx := context.Background()

	_, err := store.Save(ctx, Asset{ID: "v1", SubjectID: "abc", Kind: KindVoice})
	require.NoError(t, err)

	require.NoError(t, store.DeleteBySubject(ctx, "abc"))

	assets, err := store.ListBySubject(ctx, "abc")
	require.NoError(t, err)
	assert.Empty(t, assets)
}
