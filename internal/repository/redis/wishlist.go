package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/utafrali/storefront/internal/domain"
)

const wishlistKeyPrefix = "wishlist:"

// WishlistRepository implements repository.WishlistRepository using a Redis
// sorted set per session, scored by the time the product was added. This
// gives idempotent adds and a stable most-recent-first listing for free.
type WishlistRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewWishlistRepository creates a new Redis-backed wishlist repository.
func NewWishlistRepository(client *redis.Client, ttl time.Duration) *WishlistRepository {
	return &WishlistRepository{
		client: client,
		ttl:    ttl,
	}
}

// Add inserts a product into the session's wishlist. Re-adding an existing
// product keeps its original position (NX: the score is not updated).
func (r *WishlistRepository) Add(ctx context.Context, sessionID, productID string) error {
	key := wishlistKeyPrefix + sessionID

	member := redis.Z{
		Score:  float64(time.Now().UTC().UnixMilli()),
		Member: productID,
	}
	if err := r.client.ZAddNX(ctx, key, member).Err(); err != nil {
		return fmt.Errorf("redis zadd wishlist: %w", err)
	}

	// Each write refreshes the session TTL so the wishlist lives as long as
	// the session stays active.
	if err := r.client.Expire(ctx, key, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis expire wishlist: %w", err)
	}

	return nil
}

// Remove deletes a product from the session's wishlist.
func (r *WishlistRepository) Remove(ctx context.Context, sessionID, productID string) error {
	key := wishlistKeyPrefix + sessionID

	if err := r.client.ZRem(ctx, key, productID).Err(); err != nil {
		return fmt.Errorf("redis zrem wishlist: %w", err)
	}

	return nil
}

// List returns a page of wishlist items, most recently added first, plus the
// total count. Page numbers start at 1.
func (r *WishlistRepository) List(ctx context.Context, sessionID string, page, perPage int) ([]*domain.WishlistItem, int, error) {
	key := wishlistKeyPrefix + sessionID

	total, err := r.client.ZCard(ctx, key).Result()
	if err != nil {
		return nil, 0, fmt.Errorf("redis zcard wishlist: %w", err)
	}

	start := int64((page - 1) * perPage)
	stop := start + int64(perPage) - 1

	members, err := r.client.ZRevRangeWithScores(ctx, key, start, stop).Result()
	if err != nil {
		return nil, 0, fmt.Errorf("redis zrevrange wishlist: %w", err)
	}

	items := make([]*domain.WishlistItem, 0, len(members))
	for _, m := range members {
		productID, ok := m.Member.(string)
		if !ok {
			continue
		}
		items = append(items, &domain.WishlistItem{
			SessionID: sessionID,
			ProductID: productID,
			AddedAt:   time.UnixMilli(int64(m.Score)).UTC(),
		})
	}

	return items, int(total), nil
}

// Contains checks whether a product is in the session's wishlist.
func (r *WishlistRepository) Contains(ctx context.Context, sessionID, productID string) (bool, error) {
	key := wishlistKeyPrefix + sessionID

	err := r.client.ZScore(ctx, key, productID).Err()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, fmt.Errorf("redis zscore wishlist: %w", err)
	}

	return true, nil
}
