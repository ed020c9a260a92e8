package recall

import (
	"context"

	"github.com/rushteam/rankit/core"
	"github.com/rushteam/rankit/pkg/utils"
)

// Source 表示一个可复用的召回源（种子/历史/热门/检索/向量）。
// 你可以把它理解为“可并发 fan-out 的策略单元”。
//
// 召回源只产出物品 ID 与召回信号（Item 仅填充 ID），
// 物品元数据由 Retriever 统一批量读取。
type Source interface {
	Name() string
	Recall(ctx context.Context, rctx *core.RankContext) ([]*core.ScoredItem, error)
}

// 召回信号名，打分阶段读取
const (
	SignalCoInteraction = "co_interaction"
	SignalCategory      = "category"
	SignalTermWeight    = "term_weight"
	SignalPopularity    = "popularity"
	SignalEmbedding     = "embedding"
)

// newCandidate 构造只带 ID 的候选，并写入召回信号与来源 label。
func newCandidate(id, source, signal string, strength float64) *core.ScoredItem {
	it := core.NewScoredItem(&core.Item{ID: id})
	it.MergeSignal(signal, strength)
	it.PutLabel("recall_source", labelOf(source))
	return it
}

func labelOf(source string) utils.Label {
	return utils.Label{Value: source, Source: utils.SourceRecall}
}

// fromNeighbors 把带权重的 ID 列表转换为候选，skip 中的 ID 被忽略。
func fromNeighbors(ns []core.Neighbor, source, signal string, skip map[string]struct{}) []*core.ScoredItem {
	out := make([]*core.ScoredItem, 0, len(ns))
	for _, n := range ns {
		if _, ok := skip[n.ID]; ok {
			continue
		}
		out = append(out, newCandidate(n.ID, source, signal, n.Score))
	}
	return out
}
