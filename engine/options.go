package engine

import (
	"log/slog"
	"time"

	"github.com/rushteam/rankit/cache"
	"github.com/rushteam/rankit/metrics"
	"github.com/rushteam/rankit/pipeline"
	"github.com/rushteam/rankit/vector"
)

// Option 配置 Engine。
type Option func(*Engine)

// WithLogger 设置 logger，默认 slog.Default()。
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithMetrics 设置指标记录器。
func WithMetrics(r *metrics.Recorder) Option {
	return func(e *Engine) { e.metrics = r }
}

// WithClock 设置时钟；请求未携带时间时用它作为请求时间。
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithIndex 启用向量召回。
func WithIndex(idx *vector.Index) Option {
	return func(e *Engine) { e.index = idx }
}

// WithCache 设置热门池缓存。
func WithCache(c *cache.PoolCache) Option {
	return func(e *Engine) { e.cache = c }
}

// WithScorer 替换默认的线性打分 Node。
func WithScorer(n pipeline.Node) Option {
	return func(e *Engine) { e.scorer = n }
}

// WithRequestID 替换请求 ID 生成器。
func WithRequestID(gen func() string) Option {
	return func(e *Engine) {
		if gen != nil {
			e.newID = gen
		}
	}
}
