package core

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"
)

// Mode 标识请求流程。
type Mode string

const (
	ModeRecommend Mode = "recommend"
	ModeSearch    Mode = "search"
	ModeDiscover  Mode = "discover"
)

// MaxLimit 是单次请求允许的最大 limit。
const MaxLimit = 100

// CategorySeedPrefix 显式声明 basedOn 是类别种子，例如 "category:shoes"。
const CategorySeedPrefix = "category:"

// RecommendationRequest 是已校验的推荐请求（不可变值）。
type RecommendationRequest struct {
	UserID          string
	BasedOn         string  // 可选：物品 ID 或类别 token
	Limit           int     // 正整数，默认值由边界层填充
	DiversityFactor float64 // [0,1]：0 纯相关性，1 最大多样性
	Params          Params
	At              time.Time
}

// Validate 防御性校验；失败即返回 INVALID_INPUT，不做任何部分处理。
func (r RecommendationRequest) Validate() error {
	if strings.TrimSpace(r.UserID) == "" {
		return InvalidInput(ModuleRequest, "userId is required")
	}
	if err := validateLimit(r.Limit); err != nil {
		return err
	}
	return validateDiversity(r.DiversityFactor)
}

// SearchRequest 是已校验的搜索请求。
type SearchRequest struct {
	Query           string
	UserID          string
	Filters         Filters
	Limit           int
	Offset          int
	DiversityFactor float64
	Params          Params
	At              time.Time
}

func (r SearchRequest) Validate() error {
	if err := validateLimit(r.Limit); err != nil {
		return err
	}
	if r.Offset < 0 {
		return InvalidInput(ModuleRequest, fmt.Sprintf("offset must be >= 0, got %d", r.Offset))
	}
	if err := validateDiversity(r.DiversityFactor); err != nil {
		return err
	}
	for name := range r.Filters {
		if strings.TrimSpace(name) == "" {
			return InvalidInput(ModuleRequest, "filter attribute name must not be empty")
		}
	}
	return nil
}

// DiscoverRequest 是已校验的发现请求。
type DiscoverRequest struct {
	UserID string
	Limit  int
	Params Params
	At     time.Time
}

// Params 是请求级扩展参数（例如 region / channel），只供排除规则读取，不参与打分。
type Params map[string]string

// Context 返回供规则表达式使用的副本；空参数返回 nil。
func (p Params) Context() map[string]any {
	if len(p) == 0 {
		return nil
	}
	out := make(map[string]any, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

func (r DiscoverRequest) Validate() error {
	return validateLimit(r.Limit)
}

func validateLimit(limit int) error {
	if limit <= 0 {
		return InvalidInput(ModuleRequest, fmt.Sprintf("limit must be > 0, got %d", limit))
	}
	if limit > MaxLimit {
		return InvalidInput(ModuleRequest, fmt.Sprintf("limit must be <= %d, got %d", MaxLimit, limit))
	}
	return nil
}

func validateDiversity(f float64) error {
	if math.IsNaN(f) || f < 0 || f > 1 {
		return InvalidInput(ModuleRequest, fmt.Sprintf("diversityFactor must be in [0,1], got %v", f))
	}
	return nil
}

// Filters 是属性过滤条件：属性名 -> 可接受值集合。
// 不同属性之间 AND，同一属性的取值之间 OR。
// 属性名 "category" 额外匹配物品的任一类别标签。
type Filters map[string][]string

// FilterCategory 是按类别标签过滤的保留属性名。
const FilterCategory = "category"

// Match 判断物品是否满足全部过滤条件。空过滤条件总是满足。
func (f Filters) Match(item *Item) bool {
	if item == nil {
		return false
	}
	for name, accepted := range f {
		if len(accepted) == 0 {
			continue
		}
		if !f.matchOne(item, name, accepted) {
			return false
		}
	}
	return true
}

func (f Filters) matchOne(item *Item, name string, accepted []string) bool {
	value, hasValue := item.Attributes[name]
	for _, want := range accepted {
		if hasValue && value == want {
			return true
		}
		if name == FilterCategory && item.HasCategory(want) {
			return true
		}
	}
	return false
}

// Names 返回排序后的属性名，便于日志与缓存 key。
func (f Filters) Names() []string {
	names := make([]string, 0, len(f))
	for name := range f {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
