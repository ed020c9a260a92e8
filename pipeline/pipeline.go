package pipeline

import (
	"context"
	"fmt"

	"github.com/rushteam/rankit/core"
)

// Pipeline 把排序逻辑拆成可组合的 Node 链：召回 → 过滤 → 打分 → 重排。
// 每个 Node 只接收上一个 Node 的显式输出，Node 之间不共享可变状态。
type Pipeline struct {
	Nodes []Node
}

// Run 依次执行各 Node，并驱动 tracker 的状态迁移。
//
// 任一 Node 出错，或 Node 之间发现 deadline 已到，tracker 进入 Failed，
// 返回错误而不返回部分结果。
func (p *Pipeline) Run(
	ctx context.Context,
	rctx *core.RankContext,
	items []*core.ScoredItem,
	tracker *Tracker,
) ([]*core.ScoredItem, error) {
	if tracker == nil {
		tracker = NewTracker()
	}
	cur := items
	for _, node := range p.Nodes {
		state := node.Kind().State()
		if state == StateFailed {
			return nil, tracker.Fail(core.NewDomainError(core.ModuleEngine, core.ErrorCodeInternalError,
				fmt.Sprintf("%s: unknown node kind %q", node.Name(), node.Kind())))
		}
		if err := tracker.Enter(state); err != nil {
			return nil, tracker.Fail(err)
		}
		if err := ctx.Err(); err != nil {
			return nil, tracker.Fail(core.FromContext(err))
		}

		next, err := node.Process(ctx, rctx, cur)
		if err != nil {
			return nil, tracker.Fail(wrapNodeError(node, err))
		}
		cur = next
	}
	if err := ctx.Err(); err != nil {
		return nil, tracker.Fail(core.FromContext(err))
	}
	return cur, nil
}

// wrapNodeError 附加 Node 名称，同时保留错误种类。
func wrapNodeError(node Node, err error) error {
	err = core.FromContext(err)
	if core.IsDomainError(err) {
		return fmt.Errorf("%s: %w", node.Name(), err)
	}
	return core.WrapDomainError(core.ModuleEngine, core.ErrorCodeInternalError, node.Name(), err)
}
