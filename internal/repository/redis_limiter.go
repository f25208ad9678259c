package repository

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisRateLimiter keeps a sliding window of request timestamps per key in a sorted set.
type RedisRateLimiter struct {
	client redis.Cmdable
	prefix string
}

func NewRedisRateLimiter(client redis.Cmdable, prefix string) *RedisRateLimiter {
	if prefix == "" {
		prefix = "ratelimit"
	}
	return &RedisRateLimiter{client: client, prefix: prefix}
}

func (r *RedisRateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	now := time.Now().UnixNano()
	windowStart := now - window.Nanoseconds()
	fullKey := r.prefix + ":" + key

	pipe := r.client.TxPipeline()
	pipe.ZRemRangeByScore(ctx, fullKey, "0", strconv.FormatInt(windowStart, 10))
	countCmd := pipe.ZCard(ctx, fullKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}

	// Rejected requests are not recorded.
	if countCmd.Val() >= int64(limit) {
		return false, nil
	}

	pipe = r.client.TxPipeline()
	pipe.ZAdd(ctx, fullKey, redis.Z{
		Score:  float64(now),
		Member: strconv.FormatInt(now, 10) + "-" + uuid.NewString(),
	})
	pipe.Expire(ctx, fullKey, window*2)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}

	return true, nil
}
