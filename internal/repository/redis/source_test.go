package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/storefront/internal/domain"
	apperrors "github.com/utafrali/storefront/pkg/errors"
)

func TestSourceRepository_SetAndGet(t *testing.T) {
	client, mr := setupTestRedis(t)
	repo := NewSourceRepository(client, 24*time.Hour)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "sess-1", domain.SourceFacebook))

	got, err := repo.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, domain.SourceFacebook, got)

	ttl := mr.TTL("source:sess-1")
	assert.Greater(t, ttl, time.Duration(0))
}

func TestSourceRepository_Get_NotFound(t *testing.T) {
	client, _ := setupTestRedis(t)
	repo := NewSourceRepository(client, 24*time.Hour)

	_, err := repo.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSourceRepository_Overwrite(t *testing.T) {
	client, _ := setupTestRedis(t)
	repo := NewSourceRepository(client, 24*time.Hour)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "sess-1", domain.SourceInstagram))
	require.NoError(t, repo.Set(ctx, "sess-1", domain.SourceTikTok))

	got, err := repo.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, domain.SourceTikTok, got)
}

func TestSourceRepository_Delete(t *testing.T) {
	client, _ := setupTestRedis(t)
	repo := NewSourceRepository(client, 24*time.Hour)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "sess-1", domain.SourceGoogle))
	require.NoError(t, repo.Delete(ctx, "sess-1"))

	_, err := repo.Get(ctx, "sess-1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
