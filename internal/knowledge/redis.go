package knowledge

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
)

// redisKey is the list the insight stream is pushed onto.
const redisKey = "reputation:insights"

// RedisStore keeps the insight stream in a capped Redis list so other
// processes can tail it.
type RedisStore struct {
	client     redis.Cmdable
	maxEntries int64
}

// NewRedisStore creates a Redis-backed store trimming the stream to
// maxEntries (1000 if non-positive).
func NewRedisStore(client redis.Cmdable, maxEntries int64) *RedisStore {
	if maxEntries <= 0 {
		maxEntries = 1000
	}
	return &RedisStore{client: client, maxEntries: maxEntries}
}

// Append pushes the insight onto the head of the list and trims the tail.
func (s *RedisStore) Append(ctx context.Context, insight Insight) error {
	raw, err := json.Marshal(insight)
	if err != nil {
		return fmt.Errorf("marshal insight: %w", err)
	}
	if err := s.client.LPush(ctx, redisKey, raw).Err(); err != nil {
		return fmt.Errorf("push insight: %w", err)
	}
	if err := s.client.LTrim(ctx, redisKey, 0, s.maxEntries-1).Err(); err != nil {
		return fmt.Errorf("trim insight stream: %w", err)
	}
	return nil
}

// Recent returns up to limit insights, newest first.
func (s *RedisStore) Recent(ctx context.Context, limit int) ([]Insight, error) {
	if limit <= 0 {
		limit = int(s.maxEntries)
	}
	raws, err := s.client.LRange(ctx, redisKey, 0, int64(limit)-1).Result()
	if err != nil {
		return nil, fmt.Errorf("read insight stream: %w", err)
	}

	out := make([]Insight, 0, len(raws))
	for _, raw := range raws {
		var insight Insight
		if err := json.Unmarshal([]byte(raw), &insight); err != nil {
			return nil, fmt.Errorf("decode insight: %w", err)
		}
		out = append(out, insight)
	}
	return out, nil
}
