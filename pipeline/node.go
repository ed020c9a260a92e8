package pipeline

import (
	"context"

	"github.com/rushteam/rankit/core"
)

// Kind 用于标记 Node 类型，决定 Node 执行时请求所处的状态。
type Kind string

const (
	KindRecall Kind = "recall" // 召回阶段：生成候选集
	KindFilter Kind = "filter" // 过滤阶段：剔除不符合约束的候选（属于召回状态）
	KindRank   Kind = "rank"   // 打分阶段：为候选计算相关性分数
	KindReRank Kind = "rerank" // 重排阶段：在分数之上做多样性调优
)

// State 返回该类 Node 执行时请求所处的状态。
func (k Kind) State() State {
	switch k {
	case KindRecall, KindFilter:
		return StateRetrieving
	case KindRank:
		return StateScoring
	case KindReRank:
		return StateReranking
	default:
		return StateFailed
	}
}

// Node 是 Pipeline 的最小可扩展单元。
// 统一采用“输入 items -> 输出 items”的形态：召回忽略输入并产出候选，
// 过滤截断，打分写入 Score，重排调整顺序并截断。
type Node interface {
	Name() string
	Kind() Kind

	Process(
		ctx context.Context,
		rctx *core.RankContext,
		items []*core.ScoredItem,
	) ([]*core.ScoredItem, error)
}
