package filter

import (
	"context"
	"fmt"

	"github.com/rushteam/rankit/core"
	"github.com/rushteam/rankit/pipeline"
)

// FilterNode 是过滤 Node，可以组合多个过滤器。
// 任何一个过滤器返回 true，该候选就会被移除；过滤器出错时整个请求失败。
type FilterNode struct {
	Filters []Filter
}

func (n *FilterNode) Name() string {
	return "filter.node"
}

func (n *FilterNode) Kind() pipeline.Kind {
	return pipeline.KindFilter
}

func (n *FilterNode) Process(
	ctx context.Context,
	rctx *core.RankContext,
	items []*core.ScoredItem,
) ([]*core.ScoredItem, error) {
	return Apply(ctx, rctx, items, n.Filters...)
}

// Apply 依次用过滤器检查每个候选，保持原有顺序。
func Apply(
	ctx context.Context,
	rctx *core.RankContext,
	items []*core.ScoredItem,
	filters ...Filter,
) ([]*core.ScoredItem, error) {
	if len(filters) == 0 || len(items) == 0 {
		return items, nil
	}

	out := make([]*core.ScoredItem, 0, len(items))
	for _, item := range items {
		if item == nil || item.Item == nil {
			continue
		}
		drop := false
		for _, f := range filters {
			ok, err := f.ShouldFilter(ctx, rctx, item)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", f.Name(), err)
			}
			if ok {
				drop = true
				break
			}
		}
		if !drop {
			out = append(out, item)
		}
	}
	return out, nil
}
