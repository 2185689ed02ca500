package bucket

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"loandesk/internal/ratelimit/models"
)

const redisKeyPrefix = "ratelimit:"

// RedisBucketStore implements the sliding window with one sorted set per key,
// scored by request time in milliseconds, so limits hold across instances.
type RedisBucketStore struct {
	client *redis.Client
	now    func() time.Time
}

func NewRedisBucketStore(client *redis.Client) *RedisBucketStore {
	return &RedisBucketStore{client: client, now: time.Now}
}

// Allow trims the window, counts it, and records the request when it fits.
// Two concurrent requests may both see room for the last slot; the window
// then briefly holds limit+1 entries.
func (s *RedisBucketStore) Allow(ctx context.Context, key string, limit int, window time.Duration) (*models.RateLimitResult, error) {
	now := s.now()
	redisKey := redisKeyPrefix + key
	cutoff := strconv.FormatInt(now.Add(-window).UnixMilli(), 10)

	pipe := s.client.TxPipeline()
	pipe.ZRemRangeByScore(ctx, redisKey, "-inf", cutoff)
	count := pipe.ZCard(ctx, redisKey)
	oldest := pipe.ZRangeWithScores(ctx, redisKey, 0, 0)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("read rate limit window: %w", err)
	}

	resetAt := now.Add(window)
	if first := oldest.Val(); len(first) > 0 {
		resetAt = time.UnixMilli(int64(first[0].Score)).Add(window)
	}

	if int(count.Val()) >= limit {
		return &models.RateLimitResult{
			Allowed:    false,
			Limit:      limit,
			Remaining:  0,
			ResetAt:    resetAt,
			RetryAfter: retryAfter(now, resetAt),
		}, nil
	}

	pipe = s.client.TxPipeline()
	pipe.ZAdd(ctx, redisKey, redis.Z{Score: float64(now.UnixMilli()), Member: uuid.NewString()})
	pipe.PExpire(ctx, redisKey, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("record rate limit hit: %w", err)
	}

	return &models.RateLimitResult{
		Allowed:   true,
		Limit:     limit,
		Remaining: limit - int(count.Val()) - 1,
		ResetAt:   resetAt,
	}, nil
}

// Reset clears the window for key.
func (s *RedisBucketStore) Reset(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, redisKeyPrefix+key).Err(); err != nil {
		return fmt.Errorf("reset rate limit: %w", err)
	}
	return nil
}
