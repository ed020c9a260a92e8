// Package builders 注册内置存储后端，使用方式：import _ "github.com/rushteam/rankit/config/builders"
package builders

import (
	"context"
	"fmt"
	"time"

	"github.com/rushteam/rankit/config"
	"github.com/rushteam/rankit/core"
	"github.com/rushteam/rankit/pkg/conv"
	"github.com/rushteam/rankit/store"
)

func init() {
	config.RegisterStore("memory", BuildMemoryStore)
	config.RegisterStore("redis", BuildRedisStore)
}

// BuildMemoryStore 构建内存存储，无可选项。
func BuildMemoryStore(_ context.Context, _ map[string]any) (core.KeyValueStore, error) {
	return store.NewMemoryStore(), nil
}

// BuildRedisStore 构建 Redis 存储。可选项：
//   - addr（默认 localhost:6379）、password、db
//   - breaker_max_failures、breaker_open_timeout（如 "10s"）
func BuildRedisStore(ctx context.Context, options map[string]any) (core.KeyValueStore, error) {
	opts := store.RedisOptions{
		Addr:     conv.ConfigGet(options, "addr", "localhost:6379"),
		Password: conv.ConfigGet(options, "password", ""),
	}
	if v, ok := options["db"]; ok {
		db, ok := conv.ToInt(v)
		if !ok {
			return nil, fmt.Errorf("redis: invalid db %v", v)
		}
		opts.DB = db
	}
	if v, ok := options["breaker_max_failures"]; ok {
		n, ok := conv.ToInt(v)
		if !ok || n < 0 {
			return nil, fmt.Errorf("redis: invalid breaker_max_failures %v", v)
		}
		opts.BreakerMaxFailures = uint32(n)
	}
	if s := conv.ConfigGet(options, "breaker_open_timeout", ""); s != "" {
		d, err := time.ParseDuration(s)
		if err != nil {
			return nil, fmt.Errorf("redis: invalid breaker_open_timeout: %w", err)
		}
		opts.BreakerOpenTimeout = d
	}
	rs, err := store.NewRedisStore(ctx, opts)
	if err != nil {
		return nil, err
	}
	return rs, nil
}
