package ratelimit

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps attempt counters in Redis so they survive restarts and
// are shared between instances.  Each identifier maps to a hash with the
// count and the window start, expired by Redis itself via TTL.
type RedisStore struct {
	rdb    *redis.Client
	prefix string
}

// NewRedisStore wraps an existing client.  The prefix namespaces the keys
// (e.g. "login_attempts").
func NewRedisStore(rdb *redis.Client, prefix string) *RedisStore {
	return &RedisStore{rdb: rdb, prefix: prefix}
}

func (s *RedisStore) key(id string) string { return s.prefix + ":" + id }

func (s *RedisStore) Get(ctx context.Context, id string) (int, time.Time, bool, error) {
	vals, err := s.rdb.HGetAll(ctx, s.key(id)).Result()
	if err != nil {
		return 0, time.Time{}, false, err
	}
	if len(vals) == 0 {
		return 0, time.Time{}, false, nil
	}
	count, err := strconv.Atoi(vals["count"])
	if err != nil {
		return 0, time.Time{}, false, err
	}
	firstUnix, err := strconv.ParseInt(vals["first"], 10, 64)
	if err != nil {
		return 0, time.Time{}, false, err
	}
	return count, time.Unix(firstUnix, 0), true, nil
}

func (s *RedisStore) Set(ctx context.Context, id string, count int, first time.Time, ttl time.Duration) error {
	key := s.key(id)
	pipe := s.rdb.TxPipeline()
	pipe.HSet(ctx, key, "count", count, "first", first.Unix())
	pipe.Expire(ctx, key, ttl)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	return s.rdb.Del(ctx, s.key(id)).Err()
}
