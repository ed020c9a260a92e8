// Package rankit 是一个推荐与搜索排序引擎。
//
// 设计要点：
// - Pipeline-first: 每个请求按 召回 → 过滤 → 打分 → 多样性重排 → 分页 串联执行
// - 确定性: 相同请求 + 相同存储快照得到完全相同的排序（按 ID 打破平局，请求时间显式传入）
// - 类型化错误: INVALID_INPUT / NOT_FOUND / STORE_UNAVAILABLE / TIMEOUT，不返回部分结果
package rankit

import (
	"github.com/rushteam/rankit/core"
	"github.com/rushteam/rankit/engine"
)

// 轻量 facade：便于用户直接 import "rankit" 使用核心入口。
type (
	Engine                = engine.Engine
	Config                = engine.Config
	Option                = engine.Option
	RecommendationRequest = core.RecommendationRequest
	SearchRequest         = core.SearchRequest
	DiscoverRequest       = core.DiscoverRequest
	ResultPage            = core.ResultPage
	ItemStore             = core.ItemStore
)

// New 创建引擎，等价于 engine.New。
func New(store ItemStore, cfg Config, opts ...Option) (*Engine, error) {
	return engine.New(store, cfg, opts...)
}

// DefaultConfig 返回默认引擎参数。
func DefaultConfig() Config {
	return engine.DefaultConfig()
}
