package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/utafrali/storefront/internal/domain"
	apperrors "github.com/utafrali/storefront/pkg/errors"
)

const preorderKeyPrefix = "preorder:"

// PreorderRepository implements repository.PreorderRepository using Redis.
type PreorderRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPreorderRepository creates a new Redis-backed pre-order cart repository.
func NewPreorderRepository(client *redis.Client, ttl time.Duration) *PreorderRepository {
	return &PreorderRepository{
		client: client,
		ttl:    ttl,
	}
}

// Get retrieves a pre-order cart by session ID from Redis.
func (r *PreorderRepository) Get(ctx context.Context, sessionID string) (*domain.PreorderCart, error) {
	key := preorderKeyPrefix + sessionID

	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, apperrors.NotFound("preorder cart", sessionID)
		}
		return nil, fmt.Errorf("redis get preorder cart: %w", err)
	}

	var cart domain.PreorderCart
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, fmt.Errorf("unmarshal preorder cart: %w", err)
	}

	return &cart, nil
}

// Save persists a pre-order cart to Redis with the configured TTL.
func (r *PreorderRepository) Save(ctx context.Context, cart *domain.PreorderCart) error {
	key := preorderKeyPrefix + cart.SessionID

	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("marshal preorder cart: %w", err)
	}

	if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set preorder cart: %w", err)
	}

	return nil
}

// Delete removes a pre-order cart from Redis by session ID.
func (r *PreorderRepository) Delete(ctx context.Context, sessionID string) error {
	key := preorderKeyPrefix + sessionID

	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del preorder cart: %w", err)
	}

	return nil
}
