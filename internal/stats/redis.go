package stats

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis keys. Shared by all worker processes pointing at the same instance.
const (
	keyTokensCreated     = "stats:tokensCreated"
	keyTotalTransactions = "stats:totalTransactions"
	keyTradeTimestamps   = "stats:tradeTimestamps"
	keyDBCount           = "stats:dbCount"
)

// RedisCounters implements Counters on Redis. Trade observations live in a
// sorted set scored by Unix milliseconds.
type RedisCounters struct {
	client *redis.Client
}

// NewRedisCounters creates a new RedisCounters.
func NewRedisCounters(client *redis.Client) *RedisCounters {
	return &RedisCounters{client: client}
}

// Compile-time interface check.
var _ Counters = (*RedisCounters)(nil)

func (c *RedisCounters) IncrTokensCreated(ctx context.Context) error {
	if err := c.client.Incr(ctx, keyTokensCreated).Err(); err != nil {
		return fmt.Errorf("incr tokens created: %w", err)
	}
	return nil
}

func (c *RedisCounters) IncrTotalTransactions(ctx context.Context) error {
	if err := c.client.Incr(ctx, keyTotalTransactions).Err(); err != nil {
		return fmt.Errorf("incr total transactions: %w", err)
	}
	return nil
}

func (c *RedisCounters) RecordTrade(ctx context.Context, id string, ts time.Time) error {
	member := redis.Z{
		Score:  float64(ts.UnixMilli()),
		Member: id,
	}
	if err := c.client.ZAdd(ctx, keyTradeTimestamps, member).Err(); err != nil {
		return fmt.Errorf("record trade timestamp: %w", err)
	}
	return nil
}

func (c *RedisCounters) PruneTrades(ctx context.Context, cutoff time.Time) error {
	max := strconv.FormatInt(cutoff.UnixMilli()-1, 10)
	if err := c.client.ZRemRangeByScore(ctx, keyTradeTimestamps, "-inf", max).Err(); err != nil {
		return fmt.Errorf("prune trade timestamps: %w", err)
	}
	return nil
}

func (c *RedisCounters) CountTradesBetween(ctx context.Context, from, to time.Time) (int64, error) {
	min := strconv.FormatInt(from.UnixMilli(), 10)
	max := strconv.FormatInt(to.UnixMilli(), 10)
	n, err := c.client.ZCount(ctx, keyTradeTimestamps, min, max).Result()
	if err != nil {
		return 0, fmt.Errorf("count trade timestamps: %w", err)
	}
	return n, nil
}

func (c *RedisCounters) TokensCreated(ctx context.Context) (int64, error) {
	return c.readCounter(ctx, keyTokensCreated)
}

func (c *RedisCounters) TotalTransactions(ctx context.Context) (int64, error) {
	return c.readCounter(ctx, keyTotalTransactions)
}

func (c *RedisCounters) CachedDBCount(ctx context.Context) (int64, bool, error) {
	val, err := c.client.Get(ctx, keyDBCount).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("get cached db count: %w", err)
	}
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("parse cached db count %q: %w", val, err)
	}
	return n, true, nil
}

func (c *RedisCounters) SetCachedDBCount(ctx context.Context, count int64, ttl time.Duration) error {
	if err := c.client.Set(ctx, keyDBCount, count, ttl).Err(); err != nil {
		return fmt.Errorf("set cached db count: %w", err)
	}
	return nil
}

func (c *RedisCounters) readCounter(ctx context.Context, key string) (int64, error) {
	val, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get counter %s: %w", key, err)
	}
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse counter %s value %q: %w", key, val, err)
	}
	return n, nil
}
