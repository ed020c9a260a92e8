package recall

import (
	"context"
	"fmt"
	"strings"

	"github.com/rushteam/rankit/cache"
	"github.com/rushteam/rankit/core"
	"github.com/rushteam/rankit/pipeline"
	"github.com/rushteam/rankit/pkg/text"
	"github.com/rushteam/rankit/vector"
)

// Config 是召回参数。
type Config struct {
	RecentWindow   int `yaml:"recent_window" mapstructure:"recent_window"`
	RelatedTopK    int `yaml:"related_top_k" mapstructure:"related_top_k"`
	CategoryTopK   int `yaml:"category_top_k" mapstructure:"category_top_k"`
	EmbeddingTopK  int `yaml:"embedding_top_k" mapstructure:"embedding_top_k"`
	PoolSize       int `yaml:"pool_size" mapstructure:"pool_size"`             // 热门池大小，0 表示全部
	QueryTopK      int `yaml:"query_top_k" mapstructure:"query_top_k"`         // 搜索召回上限，0 表示不限制
	CandidateLimit int `yaml:"candidate_limit" mapstructure:"candidate_limit"` // 推荐候选上限，0 表示不限制
	MaxConcurrent  int `yaml:"max_concurrent" mapstructure:"max_concurrent"`
}

// DefaultConfig 返回默认召回参数。
func DefaultConfig() Config {
	return Config{
		RecentWindow:   5,
		RelatedTopK:    50,
		CategoryTopK:   50,
		EmbeddingTopK:  20,
		PoolSize:       200,
		CandidateLimit: 500,
		MaxConcurrent:  8,
	}
}

// Validate 校验召回参数。
func (c Config) Validate() error {
	if c.RecentWindow <= 0 {
		return fmt.Errorf("recall.recent_window must be positive, got %d", c.RecentWindow)
	}
	if c.RelatedTopK <= 0 || c.CategoryTopK <= 0 {
		return fmt.Errorf("recall top_k must be positive")
	}
	if c.EmbeddingTopK < 0 || c.PoolSize < 0 || c.QueryTopK < 0 || c.CandidateLimit < 0 || c.MaxConcurrent < 0 {
		return fmt.Errorf("recall limits must not be negative")
	}
	return nil
}

// Retriever 是候选召回器：负责解析请求上下文（用户画像、种子、锚点类别），
// 并按模式组合召回源产出候选集。
//
// 推荐模式的召回优先级：显式种子 > 最近交互历史 > 热门池。
// 历史召回没有产出任何候选时回退到热门池。
//
// 召回结果统一批量读取物品元数据，不存在的物品被丢弃。
// 已交互物品的排除、属性过滤由 filter 包的 Node 完成。
type Retriever struct {
	Store  core.ItemStore
	Index  *vector.Index
	Cache  *cache.PoolCache
	Config Config
}

func (r *Retriever) Name() string        { return "recall.retriever" }
func (r *Retriever) Kind() pipeline.Kind { return pipeline.KindRecall }

// ResolveRecommend 为推荐请求补全上下文：加载用户画像与最近交互物品，解析 basedOn。
//
// basedOn 以 "category:" 开头时按类别解析；否则按物品 ID 解析，
// 物品不存在但同名类别下有物品时退化为类别种子，都不存在返回 NOT_FOUND。
func (r *Retriever) ResolveRecommend(ctx context.Context, rctx *core.RankContext, basedOn string) error {
	if err := r.loadProfile(ctx, rctx); err != nil {
		return err
	}
	if basedOn != "" {
		if err := r.resolveSeed(ctx, rctx, basedOn); err != nil {
			return err
		}
	}

	switch {
	case rctx.SeedItem != nil:
		rctx.AnchorCategories = append([]string(nil), rctx.SeedItem.Categories...)
	case rctx.SeedCategory != "":
		rctx.AnchorCategories = []string{rctx.SeedCategory}
	default:
		rctx.AnchorCategories = recentCategories(rctx.RecentItems)
	}
	return nil
}

// ResolveSearch 切分查询词。
func (r *Retriever) ResolveSearch(_ context.Context, rctx *core.RankContext) error {
	rctx.Tokens = text.Tokenize(rctx.Query)
	return nil
}

// ResolveDiscover 为带用户的探索请求加载画像（用于排除已交互物品）。
func (r *Retriever) ResolveDiscover(ctx context.Context, rctx *core.RankContext) error {
	if rctx.Anonymous() {
		return nil
	}
	profile, err := r.Store.GetUserProfile(ctx, rctx.UserID)
	if err != nil {
		return err
	}
	rctx.Profile = profile
	return nil
}

func (r *Retriever) loadProfile(ctx context.Context, rctx *core.RankContext) error {
	if rctx.Anonymous() {
		return nil
	}
	profile, err := r.Store.GetUserProfile(ctx, rctx.UserID)
	if err != nil {
		return err
	}
	rctx.Profile = profile

	recent := profile.Recent(r.Config.RecentWindow)
	if len(recent) == 0 {
		return nil
	}
	items, err := r.Store.GetItems(ctx, recent)
	if err != nil {
		return err
	}
	rctx.RecentItems = items
	return nil
}

func (r *Retriever) resolveSeed(ctx context.Context, rctx *core.RankContext, basedOn string) error {
	if cat, ok := strings.CutPrefix(basedOn, core.CategorySeedPrefix); ok {
		if cat == "" {
			return core.InvalidInput(core.ModuleRecall, "basedOn: empty category")
		}
		rctx.SeedCategory = cat
		return nil
	}

	item, err := r.Store.GetItem(ctx, basedOn)
	if err == nil {
		rctx.SeedItem = item
		return nil
	}
	if !core.IsNotFound(err) {
		return err
	}

	members, err := r.Store.CategoryItems(ctx, basedOn, 1)
	if err != nil {
		return err
	}
	if len(members) > 0 {
		rctx.SeedCategory = basedOn
		return nil
	}
	return core.NewDomainError(core.ModuleRecall, core.ErrorCodeNotFound,
		fmt.Sprintf("basedOn %q matches no item or category", basedOn))
}

// recentCategories 按最近优先收集类别，去重保序。
func recentCategories(items []*core.Item) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, it := range items {
		for _, c := range it.Categories {
			if _, ok := seen[c]; ok {
				continue
			}
			seen[c] = struct{}{}
			out = append(out, c)
		}
	}
	return out
}

// Process 按模式召回候选并读取物品元数据。
func (r *Retriever) Process(
	ctx context.Context,
	rctx *core.RankContext,
	_ []*core.ScoredItem,
) ([]*core.ScoredItem, error) {
	var (
		items []*core.ScoredItem
		err   error
	)
	switch rctx.Mode {
	case core.ModeRecommend:
		items, err = r.recommend(ctx, rctx)
	case core.ModeSearch:
		q := &Query{Store: r.Store, Hot: r.hot(0), TopK: r.Config.QueryTopK}
		items, err = q.Recall(ctx, rctx)
	case core.ModeDiscover:
		items, err = r.hot(r.Config.PoolSize).Recall(ctx, rctx)
	default:
		return nil, core.InvalidInput(core.ModuleRecall, fmt.Sprintf("unknown mode %q", rctx.Mode))
	}
	if err != nil {
		return nil, err
	}
	return r.hydrate(ctx, items)
}

func (r *Retriever) hot(topK int) *Hot {
	return &Hot{Store: r.Store, Cache: r.Cache, TopK: topK}
}

func (r *Retriever) recommend(ctx context.Context, rctx *core.RankContext) ([]*core.ScoredItem, error) {
	var src Source
	switch {
	case rctx.SeedItem != nil:
		sources := []Source{&SeedItem{
			Store:        r.Store,
			RelatedTopK:  r.Config.RelatedTopK,
			CategoryTopK: r.Config.CategoryTopK,
		}}
		if r.Index != nil && r.Config.EmbeddingTopK > 0 {
			sources = append(sources, &Embedding{Index: r.Index, TopK: r.Config.EmbeddingTopK})
		}
		src = &Fanout{Sources: sources, MaxConcurrent: r.Config.MaxConcurrent}
	case rctx.SeedCategory != "":
		src = &SeedCategory{Store: r.Store, TopK: r.Config.CategoryTopK}
	case len(rctx.RecentItems) > 0:
		src = &UserHistory{
			Store:         r.Store,
			Index:         r.Index,
			RelatedTopK:   r.Config.RelatedTopK,
			CategoryTopK:  r.Config.CategoryTopK,
			EmbeddingTopK: r.Config.EmbeddingTopK,
			MaxConcurrent: r.Config.MaxConcurrent,
		}
	default:
		src = r.hot(r.Config.PoolSize)
	}

	items, err := src.Recall(ctx, rctx)
	if err != nil {
		return nil, err
	}
	if !rctx.HasSeed() && len(rctx.RecentItems) > 0 && !anyFresh(rctx.Profile, items) {
		items, err = r.hot(r.Config.PoolSize).Recall(ctx, rctx)
		if err != nil {
			return nil, err
		}
	}
	if r.Config.CandidateLimit > 0 && len(items) > r.Config.CandidateLimit {
		items = items[:r.Config.CandidateLimit]
	}
	return items, nil
}

// anyFresh 是否存在用户未交互过的候选。历史召回的候选全部会被排除时，
// 推荐退回热门池，避免返回空页。
func anyFresh(profile *core.UserProfile, items []*core.ScoredItem) bool {
	if profile == nil {
		return len(items) > 0
	}
	seen := profile.Interacted()
	for _, it := range items {
		if _, ok := seen[it.ID()]; !ok {
			return true
		}
	}
	return false
}

// hydrate 批量读取物品元数据替换召回阶段的占位 Item。
func (r *Retriever) hydrate(ctx context.Context, items []*core.ScoredItem) ([]*core.ScoredItem, error) {
	if len(items) == 0 {
		return nil, nil
	}
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ID()
	}
	loaded, err := r.Store.GetItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*core.Item, len(loaded))
	for _, it := range loaded {
		byID[it.ID] = it
	}

	out := make([]*core.ScoredItem, 0, len(items))
	for _, it := range items {
		full, ok := byID[it.ID()]
		if !ok {
			continue
		}
		it.Item = full
		out = append(out, it)
	}
	return out, nil
}
