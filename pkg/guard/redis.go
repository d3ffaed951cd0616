package guard

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is a shared guard for multi-node deployments, backed by SET NX with
// the window as TTL.
type Redis struct {
	client *redis.Client
}

func NewRedis(redisURL string) (*Redis, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	return &Redis{client: redis.NewClient(opts)}, nil
}

func (r *Redis) Acquire(ctx context.Context, key string, window time.Duration) (bool, error) {
	acquired, err := r.client.SetNX(ctx, key, "1", window).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire dedup key: %w", err)
	}

	return acquired, nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}
