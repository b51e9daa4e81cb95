package cachemanager

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type listKey string

type snapshot struct {
	SpaceID string
	IDs     []int
}

func TestInMemoryCacheManager_SetGet(t *testing.T) {
	cache := NewInMemoryCacheManager[listKey, snapshot]("lists", DefaultExpiration, DefaultCleanupInterval)
	want := snapshot{SpaceID: "work", IDs: []int{3, 1, 2}}
	cache.Set(context.Background(), "pinned:work", want, DefaultExpiration)

	got, ok := cache.Get(context.Background(), "pinned:work")
	require.True(t, ok)
	require.Equal(t, want, got)
	require.Equal(t, Stats{Hits: 1, Items: 1}, cache.Stats())
}

func TestInMemoryCacheManager_Miss(t *testing.T) {
	cache := NewInMemoryCacheManager[listKey, snapshot]("lists", DefaultExpiration, DefaultCleanupInterval)

	got, ok := cache.Get(context.Background(), "groups:work")
	require.False(t, ok)
	require.Zero(t, got)
	require.EqualValues(t, 1, cache.Stats().Misses)
}

func TestInMemoryCacheManager_WrongTypeIsEvicted(t *testing.T) {
	cache := NewInMemoryCacheManager[listKey, snapshot]("lists", DefaultExpiration, DefaultCleanupInterval)
	cache.cache.Set("pinned:work", 123, DefaultExpiration)

	_, ok := cache.Get(context.Background(), "pinned:work")
	require.False(t, ok)
	require.Zero(t, cache.Stats().Items)
}

func TestInMemoryCacheManager_Expiry(t *testing.T) {
	cache := NewInMemoryCacheManager[listKey, int]("lists", DefaultExpiration, DefaultCleanupInterval)
	cache.Set(context.Background(), "k", 1, time.Millisecond)

	require.Eventually(t, func() bool {
		_, ok := cache.Get(context.Background(), "k")
		return !ok
	}, time.Second, 5*time.Millisecond)
}

func TestInMemoryCacheManager_DeleteAndFlush(t *testing.T) {
	cache := NewInMemoryCacheManager[listKey, int]("lists", DefaultExpiration, DefaultCleanupInterval)
	ctx := context.Background()
	cache.Set(ctx, "a", 1, DefaultExpiration)
	cache.Set(ctx, "b", 2, DefaultExpiration)
	cache.Set(ctx, "c", 3, DefaultExpiration)

	require.NoError(t, cache.Delete(ctx))
	require.NoError(t, cache.Delete(ctx, "a"))
	_, ok := cache.Get(ctx, "a")
	require.False(t, ok)

	require.NoError(t, cache.Flush(ctx))
	require.Zero(t, cache.Stats().Items)
}
