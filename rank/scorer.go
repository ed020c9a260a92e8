package rank

import (
	"context"
	"sort"

	"github.com/rushteam/rankit/core"
	"github.com/rushteam/rankit/model"
	"github.com/rushteam/rankit/pipeline"
	"github.com/rushteam/rankit/pkg/utils"
)

// Scorer 是相关性打分 Node：按模式计算特征项，交给 RankModel 输出分数。
//   - recommend：co_interaction（按候选集最大值归一）、category_affinity、embedding
//   - search：match
//   - 所有模式：freshness、popularity
//
// 特征项写入 ScoredItem.Features 用于 explain；输出按 SortByScore 排序。
// Model 为空时使用由 Weights 构建的线性模型。
type Scorer struct {
	Weights Weights
	Model   model.RankModel
}

// NewScorer 用权重构建线性打分器。
func NewScorer(w Weights) *Scorer {
	return &Scorer{Weights: w, Model: &model.Linear{Weights: w.Map()}}
}

func (n *Scorer) Name() string        { return "rank.scorer" }
func (n *Scorer) Kind() pipeline.Kind { return pipeline.KindRank }

func (n *Scorer) Process(
	ctx context.Context,
	rctx *core.RankContext,
	items []*core.ScoredItem,
) ([]*core.ScoredItem, error) {
	return n.Score(ctx, rctx, items)
}

// Score 为候选打分并排序。
func (n *Scorer) Score(
	_ context.Context,
	rctx *core.RankContext,
	items []*core.ScoredItem,
) ([]*core.ScoredItem, error) {
	if len(items) == 0 {
		return items, nil
	}
	m := n.Model
	if m == nil {
		m = &model.Linear{Weights: n.Weights.Map()}
	}

	maxCo := 0.0
	for _, it := range items {
		if v := it.Signals[FeatureCoInteraction]; v > maxCo {
			maxCo = v
		}
	}

	for _, it := range items {
		if it == nil || it.Item == nil {
			continue
		}
		f := n.features(rctx, it, maxCo)
		score, err := m.Predict(f)
		if err != nil {
			return nil, core.WrapDomainError(core.ModuleRank, core.ErrorCodeInternalError, it.ID(), err)
		}
		it.Features = f
		it.Score = score
		it.PutLabel("rank_model", utils.Label{Value: m.Name(), Source: utils.SourceRank})
	}

	out := make([]*core.ScoredItem, 0, len(items))
	for _, it := range items {
		if it != nil && it.Item != nil {
			out = append(out, it)
		}
	}
	core.SortByScore(out)
	return out, nil
}

func (n *Scorer) features(rctx *core.RankContext, it *core.ScoredItem, maxCo float64) map[string]float64 {
	f := map[string]float64{
		FeatureFreshness:  Freshness(it.Item.PublishedAt, rctx.Now, n.Weights.FreshnessHalfLife),
		FeaturePopularity: Popularity(it.Item.Popularity),
	}
	switch rctx.Mode {
	case core.ModeSearch:
		f[FeatureMatch] = Match(rctx.Query, it.Item)
	case core.ModeRecommend:
		if maxCo > 0 {
			f[FeatureCoInteraction] = it.Signals[FeatureCoInteraction] / maxCo
		} else {
			f[FeatureCoInteraction] = 0
		}
		f[FeatureCategoryAffinity] = Jaccard(it.Item.Categories, rctx.AnchorCategories)
		f[FeatureEmbedding] = it.Signals[FeatureEmbedding]
	}
	return f
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
