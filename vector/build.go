package vector

import (
	"context"

	"github.com/rushteam/rankit/core"
)

// BuildIndex 从物品存储的热门池读取全部物品，把维度匹配的 embedding 加入索引。
// 没有 embedding 或维度不一致的物品被跳过。
func BuildIndex(ctx context.Context, items core.ItemStore, dimension int, metric Metric) (*Index, error) {
	idx := NewIndex(dimension, metric)
	pool, err := items.PopularItems(ctx, 0)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(pool))
	for i, n := range pool {
		ids[i] = n.ID
	}
	loaded, err := items.GetItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, it := range loaded {
		if len(it.Embedding) != dimension {
			continue
		}
		if err := idx.Add(it.ID, it.Embedding); err != nil {
			return nil, err
		}
	}
	return idx, nil
}
