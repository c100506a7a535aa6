package redis

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/storefront/internal/domain"
	apperrors "github.com/utafrali/storefront/pkg/errors"
)

func setupTestRedis(t *testing.T) (*goredis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return client, mr
}

func sampleCart() *domain.Cart {
	now := time.Now().UTC().Truncate(time.Millisecond)
	return &domain.Cart{
		SessionID: "sess-001",
		Items: []domain.CartItem{
			{
				ProductID: "prod-1",
				VariantID: "var-1",
				Name:      "Widget",
				UnitPrice: 1990,
				Quantity:  2,
				MaxStock:  10,
				Currency:  "USD",
			},
		},
		DiscountAmount: 500,
		IsOpen:         true,
		CreatedAt:      now,
		UpdatedAt:      now,
		ExpiresAt:      now.Add(24 * time.Hour),
	}
}

func TestCartRepository_Get_Success(t *testing.T) {
	client, mr := setupTestRedis(t)
	repo := NewCartRepository(client, 24*time.Hour)

	cart := sampleCart()
	data, err := json.Marshal(cart)
	require.NoError(t, err)
	require.NoError(t, mr.Set("cart:"+cart.SessionID, string(data)))

	got, err := repo.Get(context.Background(), cart.SessionID)
	require.NoError(t, err)
	assert.Equal(t, cart.SessionID, got.SessionID)
	assert.Equal(t, int64(500), got.DiscountAmount)
	assert.True(t, got.IsOpen)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "prod-1", got.Items[0].ProductID)
	assert.Equal(t, 2, got.Items[0].Quantity)
}

func TestCartRepository_Get_NotFound(t *testing.T) {
	client, _ := setupTestRedis(t)
	repo := NewCartRepository(client, 24*time.Hour)

	_, err := repo.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCartRepository_SaveAndGet(t *testing.T) {
	client, mr := setupTestRedis(t)
	repo := NewCartRepository(client, 24*time.Hour)
	ctx := context.Background()

	cart := sampleCart()
	require.NoError(t, repo.Save(ctx, cart))

	got, err := repo.Get(ctx, cart.SessionID)
	require.NoError(t, err)
	assert.Equal(t, cart.Items, got.Items)

	// The key carries the session TTL.
	ttl := mr.TTL("cart:" + cart.SessionID)
	assert.Greater(t, ttl, time.Duration(0))
	assert.LessOrEqual(t, ttl, 24*time.Hour)
}

func TestCartRepository_Delete(t *testing.T) {
	client, _ := setupTestRedis(t)
	repo := NewCartRepository(client, 24*time.Hour)
	ctx := context.Background()

	cart := sampleCart()
	require.NoError(t, repo.Save(ctx, cart))
	require.NoError(t, repo.Delete(ctx, cart.SessionID))

	_, err := repo.Get(ctx, cart.SessionID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCartRepository_Delete_MissingIsNoop(t *testing.T) {
	client, _ := setupTestRedis(t)
	repo := NewCartRepository(client, 24*time.Hour)

	assert.NoError(t, repo.Delete(context.Background(), "missing"))
}

func TestPreorderRepository_SaveAndGet(t *testing.T) {
	client, _ := setupTestRedis(t)
	repo := NewPreorderRepository(client, 24*time.Hour)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Millisecond)
	cart := &domain.PreorderCart{
		SessionID: "sess-001",
		Item: &domain.CartItem{
			ProductID: "pre-1",
			Name:      "Upcoming",
			UnitPrice: 4999,
			Quantity:  1,
		},
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(24 * time.Hour),
	}

	require.NoError(t, repo.Save(ctx, cart))

	got, err := repo.Get(ctx, "sess-001")
	require.NoError(t, err)
	require.NotNil(t, got.Item)
	assert.Equal(t, "pre-1", got.Item.ProductID)
}

func TestPreorderRepository_Get_NotFound(t *testing.T) {
	client, _ := setupTestRedis(t)
	repo := NewPreorderRepository(client, 24*time.Hour)

	_, err := repo.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
