package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"pumpstream/internal/domain"
)

// popTimeout bounds each BRPOP so cancellation is noticed promptly.
const popTimeout = 5 * time.Second

// RedisSource implements JobSource on a Redis list. The log listener LPUSHes
// jobs; workers BRPOP them, so each job is delivered to exactly one worker
// process.
type RedisSource struct {
	client *redis.Client
	key    string
}

// NewRedisSource creates a RedisSource reading from key. An empty key uses
// QueueKey.
func NewRedisSource(client *redis.Client, key string) *RedisSource {
	if key == "" {
		key = QueueKey
	}
	return &RedisSource{client: client, key: key}
}

// Compile-time interface check.
var _ JobSource = (*RedisSource)(nil)

// Next blocks until a job arrives or ctx is cancelled. Malformed payloads
// are reported as errors; the caller decides whether to keep pulling.
func (s *RedisSource) Next(ctx context.Context) (*domain.RawJob, error) {
	for {
		res, err := s.client.BRPop(ctx, popTimeout, s.key).Result()
		if errors.Is(err, redis.Nil) {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("brpop %s: %w", s.key, err)
		}
		if len(res) != 2 {
			return nil, fmt.Errorf("brpop %s: unexpected reply length %d", s.key, len(res))
		}

		var job domain.RawJob
		if err := json.Unmarshal([]byte(res[1]), &job); err != nil {
			return nil, fmt.Errorf("decode job payload: %w", err)
		}
		return &job, nil
	}
}
