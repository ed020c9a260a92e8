package store

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/rankit/core"
)

func newTestRedis(t *testing.T, opts RedisOptions) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	s := NewRedisStoreWithClient(client, opts)
	t.Cleanup(func() { _ = s.Close() })
	return s, mr
}

func TestRedisStore_KV(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestRedis(t, RedisOptions{})

	_, err := s.Get(ctx, "missing")
	assert.True(t, core.IsStoreNotFound(err))

	require.NoError(t, s.Set(ctx, "k1", []byte("v1")))
	require.NoError(t, s.BatchSet(ctx, map[string][]byte{"k2": []byte("v2")}))

	got, err := s.Get(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), got)

	batch, err := s.BatchGet(ctx, []string{"k1", "k2", "k3"})
	require.NoError(t, err)
	assert.Equal(t, map[string][]byte{"k1": []byte("v1"), "k2": []byte("v2")}, batch)

	require.NoError(t, s.Delete(ctx, "k1"))
	_, err = s.Get(ctx, "k1")
	assert.True(t, core.IsStoreNotFound(err))
}

func TestRedisStore_ZSet(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestRedis(t, RedisOptions{})

	require.NoError(t, s.ZAdd(ctx, "z", 1, "a"))
	require.NoError(t, s.ZAdd(ctx, "z", 3, "b"))
	require.NoError(t, s.ZIncrBy(ctx, "z", 1.5, "a"))

	all, err := s.ZRangeWithScores(ctx, "z", 0, -1)
	require.NoError(t, err)
	assert.Equal(t, []core.Neighbor{{ID: "b", Score: 3}, {ID: "a", Score: 2.5}}, all)

	score, err := s.ZScore(ctx, "z", "a")
	require.NoError(t, err)
	assert.Equal(t, 2.5, score)

	_, err = s.ZScore(ctx, "z", "nope")
	assert.True(t, core.IsStoreNotFound(err))
}

func TestRedisStore_CircuitBreaker(t *testing.T) {
	ctx := context.Background()
	s, mr := newTestRedis(t, RedisOptions{BreakerMaxFailures: 2})
	mr.Close()

	for i := 0; i < 2; i++ {
		_, err := s.Get(ctx, "k")
		require.Error(t, err)
		assert.True(t, core.IsStoreUnavailable(err))
		assert.NotContains(t, err.Error(), "circuit open")
	}

	_, err := s.Get(ctx, "k")
	require.Error(t, err)
	assert.True(t, core.IsStoreUnavailable(err))
	assert.Contains(t, err.Error(), "circuit open")
}

func TestRedisStore_CanceledContextDoesNotTrip(t *testing.T) {
	s, _ := newTestRedis(t, RedisOptions{BreakerMaxFailures: 1})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Get(ctx, "k")
	assert.True(t, core.IsTimeout(err))

	require.NoError(t, s.Set(context.Background(), "k", []byte("v")))
}
