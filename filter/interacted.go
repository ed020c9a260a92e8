package filter

import (
	"context"

	"github.com/rushteam/rankit/core"
)

// InteractedFilter 过滤掉用户已经交互过的物品。
// 交互集合取自请求上下文中的用户画像；匿名请求不过滤任何物品。
//
// 集合在首次调用时从画像构建，一个 InteractedFilter 只服务一个请求。
type InteractedFilter struct {
	seen map[string]struct{}
}

// NewInteractedFilter 基于用户画像创建过滤器；profile 为 nil 时不过滤。
func NewInteractedFilter(profile *core.UserProfile) *InteractedFilter {
	return &InteractedFilter{seen: profile.Interacted()}
}

func (f *InteractedFilter) Name() string {
	return "filter.interacted"
}

func (f *InteractedFilter) ShouldFilter(
	_ context.Context,
	_ *core.RankContext,
	item *core.ScoredItem,
) (bool, error) {
	if item == nil {
		return true, nil
	}
	_, ok := f.seen[item.ID()]
	return ok, nil
}
