// Package ratelimit keeps httprate's per-window request counts in redis so
// every server instance enforces the same limits.
package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-chi/httprate"
	"github.com/redis/go-redis/v9"
)

const (
	defaultPrefix  = "ratelimit:"
	defaultTimeout = time.Second
)

var _ httprate.LimitCounter = (*RedisCounter)(nil)

// RedisCounter is an httprate.LimitCounter backed by one redis key per
// client and window. Keys outlive their window so the previous window's
// count is still there for the sliding estimate.
type RedisCounter struct {
	rdb     redis.Cmdable
	prefix  string
	timeout time.Duration
	window  time.Duration
}

// NewRedisCounter creates a new RedisCounter. httprate sets the window
// length through Config when the limiter is built.
func NewRedisCounter(rdb redis.Cmdable) *RedisCounter {
	return &RedisCounter{rdb: rdb, prefix: defaultPrefix, timeout: defaultTimeout, window: time.Minute}
}

func (c *RedisCounter) Config(_ int, windowLength time.Duration) {
	if windowLength > 0 {
		c.window = windowLength
	}
}

func (c *RedisCounter) Increment(key string, currentWindow time.Time) error {
	return c.IncrementBy(key, currentWindow, 1)
}

func (c *RedisCounter) IncrementBy(key string, currentWindow time.Time, amount int) error {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	k := c.key(key, currentWindow)
	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.IncrBy(ctx, k, int64(amount))
		pipe.Expire(ctx, k, 3*c.window)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to increment %s: %w", k, err)
	}
	return nil
}

func (c *RedisCounter) Get(key string, currentWindow, previousWindow time.Time) (int, int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	vals, err := c.rdb.MGet(ctx, c.key(key, currentWindow), c.key(key, previousWindow)).Result()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to read counts for %s: %w", key, err)
	}
	return count(vals[0]), count(vals[1]), nil
}

func (c *RedisCounter) key(key string, window time.Time) string {
	return c.prefix + strconv.FormatUint(httprate.LimitCounterKey(key, window), 36)
}

// count reads one MGET value. Missing keys come back as nil.
func count(v any) int {
	s, ok := v.(string)
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
