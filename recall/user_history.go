package recall

import (
	"context"

	"github.com/rushteam/rankit/core"
	"github.com/rushteam/rankit/vector"
)

// UserHistory 是基于用户最近交互的个性化召回源。
// 对 rctx.RecentItems 中的每个物品做一次种子召回（共现 + 同类别 + 向量），
// 并发执行后按最近优先的顺序合并。
type UserHistory struct {
	Store core.ItemStore
	Index *vector.Index

	RelatedTopK   int
	CategoryTopK  int
	EmbeddingTopK int

	MaxConcurrent int
}

func (r *UserHistory) Name() string {
	return "recall.user_history"
}

func (r *UserHistory) Recall(
	ctx context.Context,
	rctx *core.RankContext,
) ([]*core.ScoredItem, error) {
	if r.Store == nil || rctx == nil || len(rctx.RecentItems) == 0 {
		return nil, nil
	}

	sources := make([]Source, 0, 2*len(rctx.RecentItems))
	for _, it := range rctx.RecentItems {
		sources = append(sources, &SeedItem{
			Store:        r.Store,
			Item:         it,
			RelatedTopK:  r.RelatedTopK,
			CategoryTopK: r.CategoryTopK,
		})
		if r.Index != nil && r.EmbeddingTopK > 0 {
			sources = append(sources, &Embedding{Index: r.Index, Item: it, TopK: r.EmbeddingTopK})
		}
	}

	fan := &Fanout{Sources: sources, MaxConcurrent: r.MaxConcurrent}
	items, err := fan.Recall(ctx, rctx)
	if err != nil {
		return nil, err
	}
	for _, it := range items {
		it.PutLabel("recall_source", labelOf(r.Name()))
	}
	return items, nil
}
