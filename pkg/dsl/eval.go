package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/rushteam/rankit/core"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvErr  error
	celEnvOnce sync.Once
)

// getCELEnv 获取或创建 CEL 环境，定义变量 item 与 rctx
func getCELEnv() (*cel.Env, error) {
	celEnvOnce.Do(func() {
		celEnv, celEnvErr = cel.NewEnv(
			cel.Variable("item", cel.DynType),
			cel.Variable("rctx", cel.DynType),
		)
	})
	return celEnv, celEnvErr
}

// Rule 是编译后的规则表达式，使用 CEL (Common Expression Language) 实现。
// 编译一次，多次求值；Program 线程安全，可在请求之间共享。
//
// 表达式语法（CEL 标准语法）：
//   - 属性：item.attributes.status == "archived"
//   - 类别："adult" in item.categories
//   - 数值：item.popularity < 1.0 / item.score > 0.5
//   - 存在性：has(item.attributes.region) && item.attributes.region != "us"
//   - 请求：rctx.mode == "discover" && item.popularity < 10.0
type Rule struct {
	expr string
	prg  cel.Program
}

// Compile 解析并编译表达式；表达式必须返回布尔值。
func Compile(expr string) (*Rule, error) {
	env, err := getCELEnv()
	if err != nil {
		return nil, fmt.Errorf("cel env: %w", err)
	}
	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile %q: %w", expr, issues.Err())
	}
	if t := ast.OutputType(); t != cel.BoolType && t != cel.DynType {
		return nil, fmt.Errorf("expression %q must return bool, got %s", expr, t)
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program %q: %w", expr, err)
	}
	return &Rule{expr: expr, prg: prg}, nil
}

// String 返回原始表达式。
func (r *Rule) String() string { return r.expr }

// Evaluate 对单个候选求值。非布尔结果返回错误。
func (r *Rule) Evaluate(item *core.ScoredItem, rctx *core.RankContext) (bool, error) {
	out, _, err := r.prg.Eval(map[string]any{
		"item": itemInput(item),
		"rctx": contextInput(rctx),
	})
	if err != nil {
		return false, fmt.Errorf("eval %q: %w", r.expr, err)
	}
	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expression %q must return bool, got %T", r.expr, out.Value())
	}
	return result, nil
}

// itemInput 构建 item 变量
func itemInput(it *core.ScoredItem) map[string]any {
	if it == nil || it.Item == nil {
		return map[string]any{}
	}
	categories := make([]any, len(it.Item.Categories))
	for i, c := range it.Item.Categories {
		categories[i] = c
	}
	attributes := make(map[string]any, len(it.Item.Attributes))
	for k, v := range it.Item.Attributes {
		attributes[k] = v
	}
	labels := make(map[string]any, len(it.Labels))
	for k, v := range it.Labels {
		labels[k] = v.Value
	}
	return map[string]any{
		"id":         it.Item.ID,
		"title":      it.Item.Title,
		"categories": categories,
		"attributes": attributes,
		"popularity": it.Item.Popularity,
		"score":      it.Score,
		"labels":     labels,
	}
}

// contextInput 构建 rctx 变量
func contextInput(rctx *core.RankContext) map[string]any {
	if rctx == nil {
		return map[string]any{}
	}
	params := make(map[string]any, len(rctx.Params))
	for k, v := range rctx.Params {
		params[k] = v
	}
	return map[string]any{
		"mode":    string(rctx.Mode),
		"user_id": rctx.UserID,
		"query":   rctx.Query,
		"params":  params,
	}
}
