package filter

import (
	"context"

	"github.com/rushteam/rankit/core"
	"github.com/rushteam/rankit/pkg/dsl"
)

// ExprFilter 是规则表达式过滤器：任一规则求值为 true 的候选被移除。
// 规则来自配置（CEL 表达式），在启动时编译。
//
// 求值出错（例如访问不存在的属性 key）视为该规则不命中，
// 写规则时应使用 has() 判断存在性。
type ExprFilter struct {
	Rules []*dsl.Rule
}

// NewExprFilter 编译全部规则；任一规则非法返回 INVALID_INPUT。
func NewExprFilter(exprs []string) (*ExprFilter, error) {
	rules := make([]*dsl.Rule, 0, len(exprs))
	for _, expr := range exprs {
		rule, err := dsl.Compile(expr)
		if err != nil {
			return nil, core.WrapDomainError("filter", core.ErrorCodeInvalidInput, "invalid rule", err)
		}
		rules = append(rules, rule)
	}
	return &ExprFilter{Rules: rules}, nil
}

func (f *ExprFilter) Name() string {
	return "filter.expr"
}

func (f *ExprFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RankContext,
	item *core.ScoredItem,
) (bool, error) {
	for _, rule := range f.Rules {
		hit, err := rule.Evaluate(item, rctx)
		if err != nil {
			continue
		}
		if hit {
			return true, nil
		}
	}
	return false, nil
}
