package rerank

import (
	"context"
	"fmt"
	"math"

	"github.com/rushteam/rankit/core"
	"github.com/rushteam/rankit/pipeline"
	"github.com/rushteam/rankit/pkg/utils"
)

// MMR 是最大边际相关（Maximal Marginal Relevance）多样性重排。
//
// 每一步从候选池中选出使
//
//	(1 - λ) * normalizedScore - λ * maxSimilarityToSelected
//
// 最大的物品，λ 即请求的 diversityFactor。normalizedScore 为池内 min-max 归一化分数
// （分数全部相同时为 1）。相同目标值取池中靠前者（分数高、ID 小），
// 因此第一个结果总是分数最高的物品；λ = 0 时退化为纯分数降序。
type MMR struct {
	Similarity Similarity

	// Depth 只对前 Depth 个位置做多样性选择，其余按分数降序追加在后面。
	// 贪心选择的前 k 个结果与 Depth 无关（Depth >= k 时），只影响计算量。
	// 0 表示全部。
	Depth int
}

func (n *MMR) Name() string        { return "rerank.mmr" }
func (n *MMR) Kind() pipeline.Kind { return pipeline.KindReRank }

// Process 对全部候选重排，不截断：分页在之后进行，total 需要完整列表。
func (n *MMR) Process(
	_ context.Context,
	rctx *core.RankContext,
	items []*core.ScoredItem,
) ([]*core.ScoredItem, error) {
	if len(items) == 0 {
		return items, nil
	}
	depth := n.Depth
	if depth <= 0 || depth > len(items) {
		depth = len(items)
	}
	head, err := n.Rerank(items, rctx.DiversityFactor, depth)
	if err != nil {
		return nil, err
	}
	if len(head) == len(items) {
		return head, nil
	}

	picked := make(map[string]struct{}, len(head))
	for _, it := range head {
		picked[it.ID()] = struct{}{}
	}
	rest := make([]*core.ScoredItem, 0, len(items)-len(head))
	for _, it := range items {
		if _, ok := picked[it.ID()]; !ok {
			rest = append(rest, it)
		}
	}
	core.SortByScore(rest)
	return append(head, rest...), nil
}

// Rerank 返回长度不超过 limit（且不超过候选数）的重排结果。不修改输入切片。
func (n *MMR) Rerank(items []*core.ScoredItem, diversityFactor float64, limit int) ([]*core.ScoredItem, error) {
	if limit <= 0 {
		return nil, core.InvalidInput(core.ModuleRerank, fmt.Sprintf("limit must be positive, got %d", limit))
	}
	if math.IsNaN(diversityFactor) || diversityFactor < 0 || diversityFactor > 1 {
		return nil, core.InvalidInput(core.ModuleRerank,
			fmt.Sprintf("diversityFactor must be in [0,1], got %v", diversityFactor))
	}

	pool := make([]*core.ScoredItem, 0, len(items))
	for _, it := range items {
		if it != nil && it.Item != nil {
			pool = append(pool, it)
		}
	}
	core.SortByScore(pool)
	if limit > len(pool) {
		limit = len(pool)
	}
	if diversityFactor == 0 || limit == 0 {
		return pool[:limit], nil
	}

	sim := n.Similarity
	if sim == nil {
		sim = CategorySimilarity
	}
	norm := normalizeScores(pool)
	maxSim := make([]float64, len(pool))
	used := make([]bool, len(pool))
	lambda := diversityFactor

	out := make([]*core.ScoredItem, 0, limit)
	for len(out) < limit {
		best := -1
		bestVal := 0.0
		for i := range pool {
			if used[i] {
				continue
			}
			v := (1-lambda)*norm[i] - lambda*maxSim[i]
			if best < 0 || v > bestVal {
				best, bestVal = i, v
			}
		}
		used[best] = true
		chosen := pool[best]
		chosen.PutLabel("rerank_position", utils.Label{Value: fmt.Sprint(len(out)), Source: utils.SourceRerank})
		out = append(out, chosen)

		for i := range pool {
			if used[i] {
				continue
			}
			if s := sim(pool[i].Item, chosen.Item); s > maxSim[i] {
				maxSim[i] = s
			}
		}
	}
	return out, nil
}

// normalizeScores 对已排序的候选做 min-max 归一化。
func normalizeScores(pool []*core.ScoredItem) []float64 {
	norm := make([]float64, len(pool))
	if len(pool) == 0 {
		return norm
	}
	lo, hi := pool[len(pool)-1].Score, pool[0].Score
	for i, it := range pool {
		if hi == lo {
			norm[i] = 1
			continue
		}
		norm[i] = (it.Score - lo) / (hi - lo)
	}
	return norm
}
