package workingcache

import (
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestNew_RequiresRedisClient(t *testing.T) {
	t.Parallel()

	_, err := New(Options{})
	require.Error(t, err)
}

func TestNew_AppliesDefaults(t *testing.T) {
	t.Parallel()

	c, err := New(Options{Redis: redis.NewClient(&redis.Options{})})
	require.NoError(t, err)
	require.Equal(t, "fluent-agent:attention:", c.keyPrefix)
	require.Equal(t, defaultTTL, c.ttl)
}

func TestNew_HonorsOverrides(t *testing.T) {
	t.Parallel()

	c, err := New(Options{
			Redis: redis.NewClient(&redis.Options{}),
			KeyPrefix: "custom:",
			TTL: time.Minute,
		})
	require.NoError(t, err)
	require.Equal(t, "custom:", c.keyPrefix)
	require.Equal(t, time.Minute, c.ttl)
}

func TestTopK_ZeroReturnsNil(t *testing.T) {
	t.Parallel()

	c, err := New(Options{Redis: redis.NewClient(&redis.Options{})})
	require.NoError(t, err)
	items, err := c.TopK(nil, "run", 0) //nolint:staticcheck // nil Context ok: no network call is made for k<=0
	require.NoError(t, err)
	require.Nil(t, items)
}
