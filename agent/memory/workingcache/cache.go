// Package workingcache caches working-memory attention weights in Redis so
// multiple engine workers (or a restarted process) can share one run's
// attention focus set without reconstructing it from history. Grounded on
// the teacher's registry.Config/New pattern for wrapping *redis.Client
// behind an Options struct with sane defaults, generalized from Pulse
// stream/map operations to a plain sorted-set cache.
package workingcache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/njfio/fluent-agent-core/agent/agenterrors"
)

const defaultTTL = 15 * time.Minute

// Options configures Cache.
type Options struct {
	// Redis is the connection used to back the cache. Required.
	Redis *redis.Client
	// KeyPrefix namespaces keys for multiple concurrent runs. Defaults to
	// "fluent-agent:attention:".
	KeyPrefix string
	// TTL bounds how long a run's attention set survives without a refresh.
	// Defaults to 15 minutes.
	TTL time.Duration
}

// Cache caches one run's working-memory attention weights as a Redis
// sorted set keyed by run ID, member = item content, score = weight.
type Cache struct {
	redis *redis.Client
	keyPrefix string
	ttl time.Duration
}

// New builds a Cache backed by opts.Redis.
func New(opts Options) (*Cache, error) {
	if opts.Redis == nil {
		return nil, agenterrors.New(agenterrors.KindConfiguration, "redis client is required")
	}
	prefix := opts.KeyPrefix
	if prefix == "" {
		prefix = "fluent-agent:attention:"
	}
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Cache{redis: opts.Redis, keyPrefix: prefix, ttl: ttl}, nil
}

func (c *Cache) key(runID string) string {
	return c.keyPrefix + runID
}

// SetWeight records item's attention weight for runID, refreshing the key's
// TTL.
func (c *Cache) SetWeight(ctx context.Context, runID, item string, weight float64) error {
	key := c.key(runID)
	if err := c.redis.ZAdd(ctx, key, redis.Z{Score: weight, Member: item}).Err(); err != nil {
		return agenterrors.NewWithCause(agenterrors.KindStorage, "cache attention weight failed", err)
	}
	if err := c.redis.Expire(ctx, key, c.ttl).Err(); err != nil {
		return agenterrors.NewWithCause(agenterrors.KindStorage, "refresh attention cache ttl failed", err)
	}
	return nil
}

// TopK returns the k highest-weighted items cached for runID, highest
// first, matching attention-focus top-K semantics.
func (c *Cache) TopK(ctx context.Context, runID string, k int) ([]string, error) {
	if k <= 0 {
		return nil, nil
	}
	items, err := c.redis.ZRevRange(ctx, c.key(runID), 0, int64(k-1)).Result()
	if err != nil {
		return nil, agenterrors.NewWithCause(agenterrors.KindStorage, "read attention cache failed", err)
	}
	return items, nil
}

// Clear removes runID's cached attention set, e.g. once a run completes.
func (c *Cache) Clear(ctx context.Context, runID string) error {
	if err := c.redis.Del(ctx, c.key(runID)).Err(); err != nil {
		return agenterrors.NewWithCause(agenterrors.KindStorage, fmt.Sprintf("clear attention cache for run %q failed", runID), err)
	}
	return nil
}
