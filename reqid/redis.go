package reqid

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis shares counters across processes and survives restarts, so a
// restarted client does not reuse ids the server may still hold replies for.
// An optional TTL lets idle scopes expire.
type Redis struct {
	rdb redis.UniversalClient
	ns  string
	ttl time.Duration
}

var _ Sequence = (*Redis)(nil)

func NewRedis(client redis.UniversalClient, namespace string) *Redis {
	return &Redis{rdb: client, ns: namespace}
}

// NewRedisWithTTL refreshes the TTL on every Next. ttl <= 0 disables expiry.
func NewRedisWithTTL(client redis.UniversalClient, namespace string, ttl time.Duration) *Redis {
	return &Redis{rdb: client, ns: namespace, ttl: ttl}
}

func (s *Redis) key(scope string) string { return "reqid:" + s.ns + ":" + scope }

func (s *Redis) Current(ctx context.Context, scope string) (int32, error) {
	res, err := s.rdb.Get(ctx, s.key(scope)).Result()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseUint(res, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("redis reqid parse: %w", err)
	}
	return fold(n), nil
}

// Next is a single INCR, or INCR + EXPIRE pipelined in one round-trip when a
// TTL is configured.
func (s *Redis) Next(ctx context.Context, scope string) (int32, error) {
	k := s.key(scope)

	if s.ttl <= 0 {
		n, err := s.rdb.Incr(ctx, k).Uint64()
		if err != nil {
			return 0, err
		}
		return fold(n), nil
	}

	var incr *redis.IntCmd
	_, err := s.rdb.Pipelined(ctx, func(p redis.Pipeliner) error {
		incr = p.Incr(ctx, k)
		p.Expire(ctx, k, s.ttl)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return fold(uint64(incr.Val())), nil
}

// Cleanup is not applicable; Redis expires keys when a TTL is set.
func (s *Redis) Cleanup(time.Duration) {}

// Close closes the underlying Redis client.
func (s *Redis) Close(context.Context) error { return s.rdb.Close() }
