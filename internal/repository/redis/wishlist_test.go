package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWishlistRepository_AddAndContains(t *testing.T) {
	client, _ := setupTestRedis(t)
	repo := NewWishlistRepository(client, 24*time.Hour)
	ctx := context.Background()

	require.NoError(t, repo.Add(ctx, "sess-1", "prod-1"))

	found, err := repo.Contains(ctx, "sess-1", "prod-1")
	require.NoError(t, err)
	assert.True(t, found)

	found, err = repo.Contains(ctx, "sess-1", "prod-2")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestWishlistRepository_Add_Idempotent(t *testing.T) {
	client, mr := setupTestRedis(t)
	repo := NewWishlistRepository(client, 24*time.Hour)
	ctx := context.Background()

	require.NoError(t, repo.Add(ctx, "sess-1", "prod-1"))
	mr.FastForward(time.Second)
	require.NoError(t, repo.Add(ctx, "sess-1", "prod-1"))

	_, total, err := repo.List(ctx, "sess-1", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}

func TestWishlistRepository_List_MostRecentFirst(t *testing.T) {
	client, mr := setupTestRedis(t)
	repo := NewWishlistRepository(client, 24*time.Hour)
	ctx := context.Background()

	// Advance the clock between adds so scores differ.
	require.NoError(t, repo.Add(ctx, "sess-1", "prod-1"))
	mr.FastForward(time.Second)
	time.Sleep(2 * time.Millisecond)
	require.NoError(t, repo.Add(ctx, "sess-1", "prod-2"))
	time.Sleep(2 * time.Millisecond)
	require.NoError(t, repo.Add(ctx, "sess-1", "prod-3"))

	items, total, err := repo.List(ctx, "sess-1", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, items, 3)
	assert.Equal(t, "prod-3", items[0].ProductID)
	assert.Equal(t, "prod-1", items[2].ProductID)
}

func TestWishlistRepository_List_Pagination(t *testing.T) {
	client, _ := setupTestRedis(t)
	repo := NewWishlistRepository(client, 24*time.Hour)
	ctx := context.Background()

	for _, id := range []string{"p1", "p2", "p3", "p4", "p5"} {
		require.NoError(t, repo.Add(ctx, "sess-1", id))
		time.Sleep(2 * time.Millisecond)
	}

	page1, total, err := repo.List(ctx, "sess-1", 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	assert.Len(t, page1, 2)

	page3, _, err := repo.List(ctx, "sess-1", 3, 2)
	require.NoError(t, err)
	assert.Len(t, page3, 1)
}

func TestWishlistRepository_List_Empty(t *testing.T) {
	client, _ := setupTestRedis(t)
	repo := NewWishlistRepository(client, 24*time.Hour)

	items, total, err := repo.List(context.Background(), "sess-1", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 0, total)
	assert.Empty(t, items)
}

func TestWishlistRepository_Remove(t *testing.T) {
	client, _ := setupTestRedis(t)
	repo := NewWishlistRepository(client, 24*time.Hour)
	ctx := context.Background()

	require.NoError(t, repo.Add(ctx, "sess-1", "prod-1"))
	require.NoError(t, repo.Remove(ctx, "sess-1", "prod-1"))

	found, err := repo.Contains(ctx, "sess-1", "prod-1")
	require.NoError(t, err)
	assert.False(t, found)
}
