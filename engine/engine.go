// Package engine 是排序编排器：把召回、过滤、打分、多样性重排与分页
// 组合成 Recommend / Search / Discover 三个请求流程。
//
// 每个请求独立执行，受整体 deadline 约束；任何阶段失败都返回类型化的
// DomainError，不返回部分结果，引擎内部不重试。
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/rushteam/rankit/cache"
	"github.com/rushteam/rankit/core"
	"github.com/rushteam/rankit/filter"
	"github.com/rushteam/rankit/metrics"
	"github.com/rushteam/rankit/model"
	"github.com/rushteam/rankit/page"
	"github.com/rushteam/rankit/pipeline"
	"github.com/rushteam/rankit/rank"
	"github.com/rushteam/rankit/recall"
	"github.com/rushteam/rankit/rerank"
	"github.com/rushteam/rankit/vector"
)

// Engine 是无状态的排序引擎，可被多个 goroutine 并发使用。
// Store 是唯一的共享资源，只读访问。
type Engine struct {
	store core.ItemStore
	cfg   Config

	retriever  *recall.Retriever
	scorer     pipeline.Node
	similarity rerank.Similarity
	exclusions []filter.Filter

	index   *vector.Index
	cache   *cache.PoolCache
	logger  *slog.Logger
	metrics *metrics.Recorder
	now     func() time.Time
	newID   func() string
}

// New 创建引擎。配置非法或规则编译失败返回 INVALID_INPUT。
func New(store core.ItemStore, cfg Config, opts ...Option) (*Engine, error) {
	if store == nil {
		return nil, core.InvalidInput(core.ModuleEngine, "store is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, core.WrapDomainError(core.ModuleEngine, core.ErrorCodeInvalidInput, "invalid config", err)
	}

	e := &Engine{
		store:  store,
		cfg:    cfg,
		logger: slog.Default(),
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}

	e.similarity, _ = rerank.SimilarityByName(cfg.Similarity)
	if e.scorer == nil {
		scorer := rank.NewScorer(cfg.Weights)
		if cfg.Model != "" {
			m, err := model.LoadLinear(cfg.Model)
			if err != nil {
				return nil, core.WrapDomainError(core.ModuleEngine, core.ErrorCodeInvalidInput, "load model", err)
			}
			scorer.Model = m
		}
		e.scorer = scorer
	}
	if e.cache != nil && e.metrics != nil && e.cache.OnEvent == nil {
		e.cache.OnEvent = e.metrics.RecordCacheEvent
	}
	e.retriever = &recall.Retriever{
		Store:  store,
		Index:  e.index,
		Cache:  e.cache,
		Config: cfg.Recall,
	}

	if len(cfg.Blacklist) > 0 {
		e.exclusions = append(e.exclusions, filter.NewBlacklistFilter(cfg.Blacklist))
	}
	if len(cfg.Rules) > 0 {
		rules, err := filter.NewExprFilter(cfg.Rules)
		if err != nil {
			return nil, err
		}
		e.exclusions = append(e.exclusions, rules)
	}
	return e, nil
}

// Recommend 返回个性化推荐：种子召回 > 最近交互召回 > 热门池，
// 排除种子与用户已交互物品，按 diversityFactor 重排后取前 limit 个。
func (e *Engine) Recommend(ctx context.Context, req core.RecommendationRequest) (*core.ResultPage, error) {
	rctx := e.newContext(core.ModeRecommend, req.UserID, req.At, req.Params)
	rctx.DiversityFactor = req.DiversityFactor
	return e.execute(ctx, &job{
		rctx:     rctx,
		validate: req.Validate,
		resolve: func(ctx context.Context) error {
			return e.retriever.ResolveRecommend(ctx, rctx, req.BasedOn)
		},
		depth: req.Limit,
		paginate: func(ranked []*core.ScoredItem) (*core.ResultPage, error) {
			return page.Take(ranked, req.Limit)
		},
	})
}

// Search 返回 [offset, offset+limit) 区间的检索结果，Total 为完整匹配数。
func (e *Engine) Search(ctx context.Context, req core.SearchRequest) (*core.ResultPage, error) {
	rctx := e.newContext(core.ModeSearch, req.UserID, req.At, req.Params)
	rctx.Query = req.Query
	rctx.Filters = req.Filters
	rctx.DiversityFactor = req.DiversityFactor
	return e.execute(ctx, &job{
		rctx:     rctx,
		validate: req.Validate,
		resolve: func(ctx context.Context) error {
			return e.retriever.ResolveSearch(ctx, rctx)
		},
		depth: searchDepth(req.Limit, req.Offset),
		paginate: func(ranked []*core.ScoredItem) (*core.ResultPage, error) {
			return page.Slice(ranked, req.Limit, req.Offset)
		},
	})
}

// Discover 返回按热度与新鲜度排序的探索列表，带用户时排除已交互物品。
// Total 为排除之后的池大小。
func (e *Engine) Discover(ctx context.Context, req core.DiscoverRequest) (*core.ResultPage, error) {
	rctx := e.newContext(core.ModeDiscover, req.UserID, req.At, req.Params)
	return e.execute(ctx, &job{
		rctx:     rctx,
		validate: req.Validate,
		resolve: func(ctx context.Context) error {
			return e.retriever.ResolveDiscover(ctx, rctx)
		},
		depth: req.Limit,
		paginate: func(ranked []*core.ScoredItem) (*core.ResultPage, error) {
			return page.Take(ranked, req.Limit)
		},
	})
}

func (e *Engine) newContext(mode core.Mode, userID string, at time.Time, params core.Params) *core.RankContext {
	if at.IsZero() {
		at = e.now()
	}
	return &core.RankContext{
		RequestID: e.newID(),
		Mode:      mode,
		UserID:    userID,
		Now:       at,
		Params:    params.Context(),
	}
}

// searchDepth 是需要做多样性选择的位置数，防止 offset+limit 溢出。
func searchDepth(limit, offset int) int {
	if offset < 0 || limit <= 0 {
		return limit
	}
	if d := offset + limit; d > offset {
		return d
	}
	return limit
}

type job struct {
	rctx     *core.RankContext
	validate func() error
	resolve  func(ctx context.Context) error
	depth    int
	paginate func([]*core.ScoredItem) (*core.ResultPage, error)
}

func (e *Engine) execute(ctx context.Context, j *job) (*core.ResultPage, error) {
	start := e.now()
	if err := j.validate(); err != nil {
		e.observe(ctx, j, nil, nil, err, start)
		return nil, err
	}

	if e.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.cfg.Timeout)
		defer cancel()
	}

	mode := string(j.rctx.Mode)
	tracker := pipeline.NewTrackerWithClock(e.now)
	tracker.OnLeave = func(s pipeline.State, d time.Duration) {
		e.metrics.RecordStage(mode, string(s), d)
	}

	p, err := e.run(ctx, j, tracker)
	if err != nil && ctx.Err() != nil && !core.IsTimeout(err) {
		// deadline 到达后存储层返回的任何错误都按超时处理
		err = core.WrapDomainError(core.ModuleEngine, core.ErrorCodeTimeout, "request deadline exceeded", err)
	}
	e.observe(ctx, j, tracker, p, err, start)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (e *Engine) run(ctx context.Context, j *job, tracker *pipeline.Tracker) (*core.ResultPage, error) {
	rctx := j.rctx
	if err := tracker.Enter(pipeline.StateRetrieving); err != nil {
		return nil, tracker.Fail(err)
	}
	if err := j.resolve(ctx); err != nil {
		return nil, tracker.Fail(core.FromContext(err))
	}

	p := &pipeline.Pipeline{Nodes: []pipeline.Node{
		e.retriever,
		&filter.FilterNode{Filters: e.filters(rctx)},
		e.scorer,
		&rerank.MMR{Similarity: e.similarity, Depth: j.depth},
	}}
	ranked, err := p.Run(ctx, rctx, nil, tracker)
	if err != nil {
		return nil, err
	}
	e.metrics.RecordCandidates(string(rctx.Mode), len(ranked))

	if err := tracker.Enter(pipeline.StatePaginating); err != nil {
		return nil, tracker.Fail(err)
	}
	result, err := j.paginate(ranked)
	if err != nil {
		return nil, tracker.Fail(err)
	}
	if err := tracker.Complete(); err != nil {
		return nil, err
	}
	return result, nil
}

// filters 组装本次请求的过滤器：推荐与探索排除已交互物品，搜索应用属性过滤，
// 配置的黑名单与规则对所有模式生效。
func (e *Engine) filters(rctx *core.RankContext) []filter.Filter {
	var fs []filter.Filter
	switch rctx.Mode {
	case core.ModeRecommend, core.ModeDiscover:
		if rctx.Profile != nil {
			fs = append(fs, filter.NewInteractedFilter(rctx.Profile))
		}
	case core.ModeSearch:
		if len(rctx.Filters) > 0 {
			fs = append(fs, &filter.AttributeFilter{Filters: rctx.Filters})
		}
	}
	return append(fs, e.exclusions...)
}

func (e *Engine) observe(
	ctx context.Context,
	j *job,
	tracker *pipeline.Tracker,
	p *core.ResultPage,
	err error,
	start time.Time,
) {
	latency := e.now().Sub(start)
	mode := string(j.rctx.Mode)
	status := "ok"
	if err != nil {
		status = core.ErrorCode(err)
	}
	e.metrics.RecordRequest(mode, status, latency)

	attrs := []any{
		"request_id", j.rctx.RequestID,
		"mode", mode,
		"user_id", j.rctx.UserID,
		"status", status,
		"duration_ms", float64(latency.Microseconds()) / 1000.0,
	}
	if tracker != nil {
		attrs = append(attrs, "state", string(tracker.State()))
		for _, t := range tracker.Timings() {
			attrs = append(attrs, fmt.Sprintf("stage_%s_ms", t.State), float64(t.Duration.Microseconds())/1000.0)
		}
	}
	if p != nil {
		attrs = append(attrs, "total", p.Total, "returned", len(p.Items))
	}

	switch {
	case err == nil:
		e.logger.InfoContext(ctx, "rank_request", attrs...)
	case core.IsInvalidInput(err), core.IsNotFound(err):
		e.logger.WarnContext(ctx, "rank_request", append(attrs, "error", err.Error())...)
	default:
		e.logger.ErrorContext(ctx, "rank_request", append(attrs, "error", err.Error())...)
	}
}
