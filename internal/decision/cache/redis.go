package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"loandesk/internal/decision"
)

// Redis is a shared decision cache. Keys carry a native TTL so Redis handles
// expiry; there is nothing to sweep.
type Redis struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

func (r *Redis) Get(ctx context.Context, key string) (decision.Decision, bool, error) {
	raw, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return decision.Decision{}, false, nil
	}
	if err != nil {
		return decision.Decision{}, false, fmt.Errorf("get decision: %w", err)
	}

	var d decision.Decision
	if err := json.Unmarshal(raw, &d); err != nil {
		return decision.Decision{}, false, fmt.Errorf("decode decision: %w", err)
	}
	return d, true, nil
}

// Set writes d with a TTL. A non-positive ttl deletes the key.
func (r *Redis) Set(ctx context.Context, key string, d decision.Decision, ttl time.Duration) error {
	if ttl <= 0 {
		if err := r.client.Del(ctx, key).Err(); err != nil {
			return fmt.Errorf("delete decision: %w", err)
		}
		return nil
	}

	raw, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("encode decision: %w", err)
	}
	if err := r.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("set decision: %w", err)
	}
	return nil
}

// Clear removes every decision key. Other keys in the database are untouched.
func (r *Redis) Clear(ctx context.Context) error {
	iter := r.client.Scan(ctx, 0, decision.CacheKeyPattern, 100).Iterator()
	for iter.Next(ctx) {
		if err := r.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("clear decisions: %w", err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("scan decisions: %w", err)
	}
	return nil
}
