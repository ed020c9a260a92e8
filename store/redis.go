package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker/v2"

	"github.com/rushteam/rankit/core"
)

// RedisOptions 是 RedisStore 的连接与熔断配置。
type RedisOptions struct {
	Addr     string
	Password string
	DB       int

	// BreakerMaxFailures 连续失败多少次后熔断，0 使用默认值 5
	BreakerMaxFailures uint32
	// BreakerOpenTimeout 熔断打开后多久进入半开，0 使用默认值 10s
	BreakerOpenTimeout time.Duration
}

// RedisStore 是 Redis 实现的 KeyValueStore，生产环境常用。
//
// 所有命令经过熔断器执行：
//   - redis.Nil 映射为 core.ErrStoreNotFound，不计入失败
//   - context 取消/超时映射为 TIMEOUT，不计入失败
//   - 其它错误与熔断打开映射为 STORE_UNAVAILABLE
//
// 这里不做重试，重试策略属于调用方。
type RedisStore struct {
	client  *redis.Client
	breaker *gobreaker.CircuitBreaker[any]
}

func NewRedisStore(ctx context.Context, opts RedisOptions) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, core.StoreUnavailable(fmt.Sprintf("redis: ping %s", opts.Addr), err)
	}
	return NewRedisStoreWithClient(client, opts), nil
}

// NewRedisStoreWithClient 基于已有 client 创建 RedisStore（不做 Ping）。
func NewRedisStoreWithClient(client *redis.Client, opts RedisOptions) *RedisStore {
	maxFailures := opts.BreakerMaxFailures
	if maxFailures == 0 {
		maxFailures = 5
	}
	openTimeout := opts.BreakerOpenTimeout
	if openTimeout <= 0 {
		openTimeout = 10 * time.Second
	}

	settings := gobreaker.Settings{
		Name:        "redis",
		MaxRequests: 1,
		Timeout:     openTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, redis.Nil) ||
				errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			slog.Warn("store circuit breaker state change", "breaker", name, "from", from.String(), "to", to.String())
		},
	}
	return &RedisStore{
		client:  client,
		breaker: gobreaker.NewCircuitBreaker[any](settings),
	}
}

func (r *RedisStore) Name() string { return "redis" }

// exec 在熔断器内执行命令并归一化错误。
func exec[T any](r *RedisStore, op string, fn func() (T, error)) (T, error) {
	var zero T
	out, err := r.breaker.Execute(func() (any, error) {
		return fn()
	})
	if err != nil {
		return zero, mapRedisError(op, err)
	}
	if out == nil {
		return zero, nil
	}
	return out.(T), nil
}

func mapRedisError(op string, err error) error {
	switch {
	case errors.Is(err, redis.Nil):
		return core.ErrStoreNotFound
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return core.FromContext(err)
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return core.StoreUnavailable("redis: circuit open ("+op+")", err)
	default:
		return core.StoreUnavailable("redis: "+op, err)
	}
}

func (r *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	return exec(r, "get", func() ([]byte, error) {
		return r.client.Get(ctx, key).Bytes()
	})
}

func (r *RedisStore) Set(ctx context.Context, key string, value []byte, ttl ...int) error {
	var expiration time.Duration
	if len(ttl) > 0 && ttl[0] > 0 {
		expiration = time.Duration(ttl[0]) * time.Second
	}
	_, err := exec(r, "set", func() (string, error) {
		return r.client.Set(ctx, key, value, expiration).Result()
	})
	return err
}

func (r *RedisStore) Delete(ctx context.Context, key string) error {
	_, err := exec(r, "del", func() (int64, error) {
		return r.client.Del(ctx, key).Result()
	})
	return err
}

func (r *RedisStore) BatchGet(ctx context.Context, keys []string) (map[string][]byte, error) {
	if len(keys) == 0 {
		return make(map[string][]byte), nil
	}
	vals, err := exec(r, "mget", func() ([]any, error) {
		return r.client.MGet(ctx, keys...).Result()
	})
	if err != nil {
		return nil, err
	}

	result := make(map[string][]byte, len(keys))
	for i, k := range keys {
		if i >= len(vals) || vals[i] == nil {
			continue
		}
		if s, ok := vals[i].(string); ok {
			result[k] = []byte(s)
		}
	}
	return result, nil
}

func (r *RedisStore) BatchSet(ctx context.Context, kvs map[string][]byte, ttl ...int) error {
	if len(kvs) == 0 {
		return nil
	}
	var expiration time.Duration
	if len(ttl) > 0 && ttl[0] > 0 {
		expiration = time.Duration(ttl[0]) * time.Second
	}
	_, err := exec(r, "pipeline set", func() ([]redis.Cmder, error) {
		pipe := r.client.Pipeline()
		for k, v := range kvs {
			pipe.Set(ctx, k, v, expiration)
		}
		return pipe.Exec(ctx)
	})
	return err
}

func (r *RedisStore) ZAdd(ctx context.Context, key string, score float64, member string) error {
	_, err := exec(r, "zadd", func() (int64, error) {
		return r.client.ZAdd(ctx, key, redis.Z{Score: score, Member: member}).Result()
	})
	return err
}

func (r *RedisStore) ZIncrBy(ctx context.Context, key string, increment float64, member string) error {
	_, err := exec(r, "zincrby", func() (float64, error) {
		return r.client.ZIncrBy(ctx, key, increment, member).Result()
	})
	return err
}

func (r *RedisStore) ZRangeWithScores(ctx context.Context, key string, start, stop int64) ([]core.Neighbor, error) {
	zs, err := exec(r, "zrevrange", func() ([]redis.Z, error) {
		return r.client.ZRevRangeWithScores(ctx, key, start, stop).Result()
	})
	if err != nil {
		return nil, err
	}
	out := make([]core.Neighbor, 0, len(zs))
	for _, z := range zs {
		member, ok := z.Member.(string)
		if !ok {
			continue
		}
		out = append(out, core.Neighbor{ID: member, Score: z.Score})
	}
	return out, nil
}

func (r *RedisStore) ZScore(ctx context.Context, key string, member string) (float64, error) {
	return exec(r, "zscore", func() (float64, error) {
		return r.client.ZScore(ctx, key, member).Result()
	})
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}

// 确保 RedisStore 实现了 core.Store 和 core.KeyValueStore 接口
var _ core.Store = (*RedisStore)(nil)
var _ core.KeyValueStore = (*RedisStore)(nil)
