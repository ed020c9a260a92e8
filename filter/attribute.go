package filter

import (
	"context"

	"github.com/rushteam/rankit/core"
)

// AttributeFilter 是搜索的属性过滤器：不满足 Filters 的候选被移除。
// 不同属性之间 AND，同一属性的可接受值之间 OR。
type AttributeFilter struct {
	Filters core.Filters
}

func (f *AttributeFilter) Name() string {
	return "filter.attribute"
}

func (f *AttributeFilter) ShouldFilter(
	_ context.Context,
	_ *core.RankContext,
	item *core.ScoredItem,
) (bool, error) {
	if item == nil || item.Item == nil {
		return true, nil
	}
	return !f.Filters.Match(item.Item), nil
}
