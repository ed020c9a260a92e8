// Package cache 提供候选池缓存：有界、按时间过期，位于打分与重排之外，
// 只缓存物品 ID 与热度等召回原始数据，不缓存排序结果。
package cache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"

	"github.com/rushteam/rankit/core"
)

// Loader 在缓存未命中时加载候选池。
type Loader func(ctx context.Context) ([]core.Neighbor, error)

// PoolCache 是热门池/发现池的缓存，采用 LRU + TTL 策略。
// 同一个 key 的并发未命中只会触发一次加载，加载错误不会被缓存。
type PoolCache struct {
	lru   *expirable.LRU[string, []core.Neighbor]
	group singleflight.Group

	// OnEvent 可选的命中/未命中回调，用于指标（"hit" / "miss" / "error"）
	OnEvent func(result string)

	// LoadTimeout 是单次回源的时间上限。回源与发起它的请求解绑：
	// 某个请求取消或超时不会让同 key 上等待的其它请求失败。
	LoadTimeout time.Duration
}

// DefaultLoadTimeout 是未设置 LoadTimeout 时的回源上限。
const DefaultLoadTimeout = 5 * time.Second

// NewPoolCache 创建池缓存。size <= 0 时默认 128，ttl <= 0 时默认 30s。
func NewPoolCache(size int, ttl time.Duration) *PoolCache {
	if size <= 0 {
		size = 128
	}
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &PoolCache{
		lru:         expirable.NewLRU[string, []core.Neighbor](size, nil, ttl),
		LoadTimeout: DefaultLoadTimeout,
	}
}

func (c *PoolCache) emit(result string) {
	if c.OnEvent != nil {
		c.OnEvent(result)
	}
}

// GetOrLoad 读取缓存；未命中时调用 loader 加载并写入。
// 返回值是副本，调用方可以自由修改。
//
// 每个调用方只受自己的 ctx 约束；loader 运行在 LoadTimeout 限定的独立 ctx 上。
func (c *PoolCache) GetOrLoad(ctx context.Context, key string, loader Loader) ([]core.Neighbor, error) {
	if pool, ok := c.lru.Get(key); ok {
		c.emit("hit")
		return clonePool(pool), nil
	}
	c.emit("miss")

	ch := c.group.DoChan(key, func() (any, error) {
		timeout := c.LoadTimeout
		if timeout <= 0 {
			timeout = DefaultLoadTimeout
		}
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
		defer cancel()
		pool, err := loader(loadCtx)
		if err != nil {
			return nil, err
		}
		c.lru.Add(key, clonePool(pool))
		return pool, nil
	})

	select {
	case <-ctx.Done():
		return nil, core.FromContext(ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			c.emit("error")
			return nil, core.FromContext(res.Err)
		}
		return clonePool(res.Val.([]core.Neighbor)), nil
	}
}

// Invalidate 删除一个 key。
func (c *PoolCache) Invalidate(key string) {
	c.lru.Remove(key)
}

// Purge 清空缓存。
func (c *PoolCache) Purge() {
	c.lru.Purge()
}

// Len 返回当前缓存条目数。
func (c *PoolCache) Len() int {
	return c.lru.Len()
}

func clonePool(pool []core.Neighbor) []core.Neighbor {
	out := make([]core.Neighbor, len(pool))
	copy(out, pool)
	return out
}
