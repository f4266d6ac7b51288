package state

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"vufs/engine/internal/domain"
)

// SequenceAllocator hands out the monotonic per-category/brand sequence
// numbers that feed SKU generation, and remembers export progress per
// channel so restarted workers never re-export the same payouts.
type SequenceAllocator interface {
	NextSKUSequence(ctx context.Context, category domain.ItemCategory, brandCode string) (int, error)
	GetLastExportMarker(ctx context.Context, channel string) (string, error)
	SetLastExportMarker(ctx context.Context, channel string, orderID string) error
}

type redisSequenceAllocator struct {
	redisClient  *redis.Client
	skuPrefix    string
	exportPrefix string
}

func NewRedisSequenceAllocator(redisClient *redis.Client) SequenceAllocator {
	return &redisSequenceAllocator{
		redisClient:  redisClient,
		skuPrefix:    "vufs:sequence:sku:",
		exportPrefix: "vufs:progress:export:",
	}
}

func (s *redisSequenceAllocator) NextSKUSequence(ctx context.Context, category domain.ItemCategory, brandCode string) (int, error) {
	key := s.skuPrefix + category.String() + ":" + brandCode
	seq, err := s.redisClient.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to allocate SKU sequence for %s/%s: %w", category, brandCode, err)
	}
	return int(seq), nil
}

func (s *redisSequenceAllocator) GetLastExportMarker(ctx context.Context, channel string) (string, error) {
	key := s.exportPrefix + channel
	val, err := s.redisClient.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return "", nil // Channel has never been exported
		}
		return "", fmt.Errorf("failed to get export marker for channel %s: %w", channel, err)
	}
	return val, nil
}

func (s *redisSequenceAllocator) SetLastExportMarker(ctx context.Context, channel string, orderID string) error {
	key := s.exportPrefix + channel
	if err := s.redisClient.Set(ctx, key, orderID, 0).Err(); err != nil { // No expiration
		return fmt.Errorf("failed to set export marker for channel %s: %w", channel, err)
	}
	return nil
}
