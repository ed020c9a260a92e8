package recall

import (
	"context"
	"strconv"

	"github.com/rushteam/rankit/cache"
	"github.com/rushteam/rankit/core"
)

// Hot 是热门召回源：从 Store 读取按热度排序的物品池。
// 冷启动（无种子、无历史）和探索模式都依赖它。
//
// 配置了 Cache 时，热门池按 TopK 缓存一段时间，
// 并发的未命中请求只会回源一次。
type Hot struct {
	Store core.ItemStore
	Cache *cache.PoolCache
	TopK  int // <= 0 表示整个热门池
}

func (r *Hot) Name() string { return "recall.hot" }

func (r *Hot) cacheKey() string {
	return "popular:" + strconv.Itoa(r.TopK)
}

// Pool 返回热门池（按热度降序）。
func (r *Hot) Pool(ctx context.Context) ([]core.Neighbor, error) {
	if r.Store == nil {
		return nil, nil
	}
	load := func(ctx context.Context) ([]core.Neighbor, error) {
		return r.Store.PopularItems(ctx, r.TopK)
	}
	if r.Cache == nil {
		return load(ctx)
	}
	return r.Cache.GetOrLoad(ctx, r.cacheKey(), load)
}

// Recall 实现 Source 接口；信号为物品热度。
func (r *Hot) Recall(ctx context.Context, _ *core.RankContext) ([]*core.ScoredItem, error) {
	pool, err := r.Pool(ctx)
	if err != nil {
		return nil, err
	}
	return fromNeighbors(pool, r.Name(), SignalPopularity, nil), nil
}
