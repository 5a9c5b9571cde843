package tracker

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Redis key layout. Plain sets, no TTL: a processed review stays processed.
const (
	keySeenReviews = "guestpulse:seen_reviews"
	keyDelivered   = "guestpulse:delivered:" // + kind
)

// RedisTracker is a Tracker backed by Redis sets so multiple agent runs
// share one view of what has been processed.
type RedisTracker struct {
	client *redis.Client
}

// NewRedis creates a tracker on an existing Redis client.
func NewRedis(client *redis.Client) *RedisTracker {
	return &RedisTracker{client: client}
}

// NewRedisFromAddr dials Redis and verifies the connection.
func NewRedisFromAddr(ctx context.Context, addr, password string, db int) (*RedisTracker, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connecting to redis at %s: %w", addr, err)
	}
	return &RedisTracker{client: client}, nil
}

// SeenReview reports whether a review ID was marked processed.
func (t *RedisTracker) SeenReview(ctx context.Context, reviewID string) (bool, error) {
	seen, err := t.client.SIsMember(ctx, keySeenReviews, reviewID).Result()
	if err != nil {
		return false, fmt.Errorf("checking seen review: %w", err)
	}
	return seen, nil
}

// MarkReviews marks review IDs as processed in one round trip.
func (t *RedisTracker) MarkReviews(ctx context.Context, reviewIDs ...string) error {
	if len(reviewIDs) == 0 {
		return nil
	}
	members := make([]interface{}, len(reviewIDs))
	for i, id := range reviewIDs {
		members[i] = id
	}
	if err := t.client.SAdd(ctx, keySeenReviews, members...).Err(); err != nil {
		return fmt.Errorf("marking reviews: %w", err)
	}
	return nil
}

// Delivered reports whether a period report was already sent.
func (t *RedisTracker) Delivered(ctx context.Context, kind, key string) (bool, error) {
	sent, err := t.client.SIsMember(ctx, keyDelivered+kind, key).Result()
	if err != nil {
		return false, fmt.Errorf("checking delivered period: %w", err)
	}
	return sent, nil
}

// MarkDelivered records that a period report went out.
func (t *RedisTracker) MarkDelivered(ctx context.Context, kind, key string) error {
	if err := t.client.SAdd(ctx, keyDelivered+kind, key).Err(); err != nil {
		return fmt.Errorf("marking delivered period: %w", err)
	}
	return nil
}

// Close closes the underlying Redis client.
func (t *RedisTracker) Close() error {
	return t.client.Close()
}

var _ Tracker = (*RedisTracker)(nil)
