package recall

import (
	"context"

	"github.com/rushteam/rankit/core"
)

// SeedItem 是基于单个种子物品的召回源：
// 共现（co-interaction）物品 + 与种子同类别的物品。种子本身永远不会被召回。
//
// Item 为空时使用 rctx.SeedItem。
type SeedItem struct {
	Store core.ItemStore
	Item  *core.Item

	// RelatedTopK 共现召回数量
	RelatedTopK int

	// CategoryTopK 每个类别的召回数量
	CategoryTopK int
}

func (r *SeedItem) Name() string { return "recall.seed_item" }

func (r *SeedItem) Recall(ctx context.Context, rctx *core.RankContext) ([]*core.ScoredItem, error) {
	seed := r.Item
	if seed == nil && rctx != nil {
		seed = rctx.SeedItem
	}
	if seed == nil || r.Store == nil {
		return nil, nil
	}
	skip := map[string]struct{}{seed.ID: {}}

	related, err := r.Store.RelatedItems(ctx, seed.ID, r.RelatedTopK)
	if err != nil {
		return nil, err
	}
	set := core.NewCandidateSet(len(related))
	for _, it := range fromNeighbors(related, r.Name(), SignalCoInteraction, skip) {
		set.Add(it)
	}

	for _, cat := range seed.Categories {
		members, err := r.Store.CategoryItems(ctx, cat, r.CategoryTopK)
		if err != nil {
			return nil, err
		}
		for _, n := range members {
			if _, ok := skip[n.ID]; ok {
				continue
			}
			set.Add(newCandidate(n.ID, r.Name(), SignalCategory, 1))
		}
	}
	return set.Items(), nil
}

// SeedCategory 是基于种子类别的召回源：返回该类别下的热门物品。
type SeedCategory struct {
	Store core.ItemStore
	TopK  int
}

func (r *SeedCategory) Name() string { return "recall.seed_category" }

func (r *SeedCategory) Recall(ctx context.Context, rctx *core.RankContext) ([]*core.ScoredItem, error) {
	if rctx == nil || rctx.SeedCategory == "" || r.Store == nil {
		return nil, nil
	}
	members, err := r.Store.CategoryItems(ctx, rctx.SeedCategory, r.TopK)
	if err != nil {
		return nil, err
	}
	out := make([]*core.ScoredItem, 0, len(members))
	for _, n := range members {
		out = append(out, newCandidate(n.ID, r.Name(), SignalCategory, 1))
	}
	return out, nil
}
