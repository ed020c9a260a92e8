package recall

import (
	"context"

	"github.com/rushteam/rankit/core"
)

// Query 是搜索模式的召回源：按 token 查倒排索引，
// 召回信号为命中词项的权重之和。
//
// 查询为空（没有 token）时退化为浏览：返回整个热门池，
// 此时结果只由过滤条件决定。
type Query struct {
	Store core.ItemStore
	Hot   *Hot
	TopK  int // <= 0 表示不限制
}

func (r *Query) Name() string { return "recall.query" }

func (r *Query) Recall(ctx context.Context, rctx *core.RankContext) ([]*core.ScoredItem, error) {
	if r.Store == nil || rctx == nil {
		return nil, nil
	}
	if len(rctx.Tokens) == 0 {
		hot := r.Hot
		if hot == nil {
			hot = &Hot{Store: r.Store}
		}
		return hot.Recall(ctx, rctx)
	}

	matches, err := r.Store.MatchTokens(ctx, rctx.Tokens, r.TopK)
	if err != nil {
		return nil, err
	}
	return fromNeighbors(matches, r.Name(), SignalTermWeight, nil), nil
}
