package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/utafrali/storefront/internal/domain"
	apperrors "github.com/utafrali/storefront/pkg/errors"
)

const sourceKeyPrefix = "source:"

// SourceRepository implements repository.SourceRepository using Redis. The
// customer source is a single string value per session, expiring with the
// session TTL so attribution never outlives the browsing session.
type SourceRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSourceRepository creates a new Redis-backed customer source repository.
func NewSourceRepository(client *redis.Client, ttl time.Duration) *SourceRepository {
	return &SourceRepository{
		client: client,
		ttl:    ttl,
	}
}

// Get retrieves the stored customer source for a session.
func (r *SourceRepository) Get(ctx context.Context, sessionID string) (domain.CustomerSource, error) {
	key := sourceKeyPrefix + sessionID

	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return "", apperrors.NotFound("customer source", sessionID)
		}
		return "", fmt.Errorf("redis get customer source: %w", err)
	}

	return domain.CustomerSource(val), nil
}

// Set stores the customer source for a session with the configured TTL.
func (r *SourceRepository) Set(ctx context.Context, sessionID string, source domain.CustomerSource) error {
	key := sourceKeyPrefix + sessionID

	if err := r.client.Set(ctx, key, string(source), r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set customer source: %w", err)
	}

	return nil
}

// Delete removes the stored customer source for a session.
func (r *SourceRepository) Delete(ctx context.Context, sessionID string) error {
	key := sourceKeyPrefix + sessionID

	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del customer source: %w", err)
	}

	return nil
}
