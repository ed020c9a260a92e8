package recall

import (
	"context"

	"github.com/rushteam/rankit/core"
	"github.com/rushteam/rankit/vector"
)

// Embedding 是向量近邻召回源（暴力 KNN）。
// 以种子物品的 embedding 作为查询向量；种子没有 embedding 或索引为空时不召回。
type Embedding struct {
	Index *vector.Index
	Item  *core.Item // 为空时使用 rctx.SeedItem
	TopK  int
}

func (r *Embedding) Name() string { return "recall.emb" }

func (r *Embedding) Recall(ctx context.Context, rctx *core.RankContext) ([]*core.ScoredItem, error) {
	seed := r.Item
	if seed == nil && rctx != nil {
		seed = rctx.SeedItem
	}
	if r.Index == nil || seed == nil || len(seed.Embedding) == 0 {
		return nil, nil
	}
	if len(seed.Embedding) != r.Index.Dimension() {
		// 维度不一致的物品不参与向量召回
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, core.FromContext(err)
	}

	hits, err := r.Index.Search(seed.Embedding, r.TopK, seed.ID)
	if err != nil {
		return nil, err
	}
	out := make([]*core.ScoredItem, 0, len(hits))
	for _, h := range hits {
		out = append(out, newCandidate(h.ID, r.Name(), SignalEmbedding, h.Score))
	}
	return out, nil
}
