package lock

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"stock-notifier/internal/infra"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "stock-notifier:fire:"

// RedisLock claims a key with SET NX PX; the first instance to claim a tick fires it.
// Keys are never released and expire with the ttl.
type RedisLock struct {
	client  redis.Cmdable
	repoErr infra.ErrorReporter
}

func NewRedisLock(client redis.Cmdable, logger *slog.Logger) *RedisLock {
	return &RedisLock{client: client, repoErr: infra.NewErrorReporter("redis", logger)}
}

func (l *RedisLock) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := l.client.SetNX(ctx, keyPrefix+key, time.Now().UTC().Format(time.RFC3339), ttl).Result()
	if err != nil {
		return false, l.repoErr.Wrap(infra.KindLockFailure, "failed to acquire firing lock", err)
	}
	return ok, nil
}

// NewRedisClient parses redisURL and verifies connectivity.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis.ParseURL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}
