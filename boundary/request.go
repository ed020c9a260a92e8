// Package boundary 在传输层与引擎之间做翻译：
// 把动态请求对象（JSON 解码后的 map）转换为校验过的不可变请求值，
// 并把引擎结果或错误包装成 {success, data} 响应。
package boundary

import (
	"fmt"
	"time"

	"github.com/rushteam/rankit/core"
	"github.com/rushteam/rankit/pkg/conv"
)

// 默认值
const (
	DefaultLimit           = 10
	DefaultDiversityFactor = 0.3
)

// RecommendInput 是推荐请求的输入形态。
type RecommendInput struct {
	UserID          string            `json:"userId" validate:"required"`
	BasedOn         string            `json:"basedOn"`
	Limit           *int              `json:"limit" validate:"omitnil,min=1,max=100"`
	DiversityFactor *float64          `json:"diversityFactor" validate:"omitnil,min=0,max=1"`
	Params          map[string]string `json:"params"`
}

// SearchInput 是搜索请求的输入形态。
type SearchInput struct {
	Query           string              `json:"query"`
	UserID          string              `json:"userId"`
	Filters         map[string][]string `json:"filters"`
	Limit           *int                `json:"limit" validate:"omitnil,min=1,max=100"`
	Offset          *int                `json:"offset" validate:"omitnil,min=0"`
	DiversityFactor *float64            `json:"diversityFactor" validate:"omitnil,min=0,max=1"`
	Params          map[string]string   `json:"params"`
}

// DiscoverInput 是探索请求的输入形态。
type DiscoverInput struct {
	UserID string            `json:"userId"`
	Limit  *int              `json:"limit" validate:"omitnil,min=1,max=100"`
	Params map[string]string `json:"params"`
}

// ParseRecommend 把动态对象翻译为推荐请求。at 为请求时间。
func ParseRecommend(raw map[string]any, at time.Time) (core.RecommendationRequest, error) {
	var in RecommendInput
	var err error
	if in.UserID, err = stringField(raw, "userId"); err != nil {
		return core.RecommendationRequest{}, err
	}
	if in.BasedOn, err = stringField(raw, "basedOn"); err != nil {
		return core.RecommendationRequest{}, err
	}
	if in.Limit, err = intField(raw, "limit"); err != nil {
		return core.RecommendationRequest{}, err
	}
	if in.DiversityFactor, err = floatField(raw, "diversityFactor"); err != nil {
		return core.RecommendationRequest{}, err
	}
	if in.Params, err = paramsField(raw, "params"); err != nil {
		return core.RecommendationRequest{}, err
	}
	return in.Request(at)
}

// Request 校验并填充默认值。
func (in RecommendInput) Request(at time.Time) (core.RecommendationRequest, error) {
	if err := validateStruct(in); err != nil {
		return core.RecommendationRequest{}, err
	}
	req := core.RecommendationRequest{
		UserID:          in.UserID,
		BasedOn:         in.BasedOn,
		Limit:           deref(in.Limit, DefaultLimit),
		DiversityFactor: deref(in.DiversityFactor, DefaultDiversityFactor),
		Params:          core.Params(in.Params),
		At:              at,
	}
	return req, req.Validate()
}

// ParseSearch 把动态对象翻译为搜索请求。
func ParseSearch(raw map[string]any, at time.Time) (core.SearchRequest, error) {
	var in SearchInput
	var err error
	if in.Query, err = stringField(raw, "query"); err != nil {
		return core.SearchRequest{}, err
	}
	if in.UserID, err = stringField(raw, "userId"); err != nil {
		return core.SearchRequest{}, err
	}
	if in.Filters, err = filtersField(raw, "filters"); err != nil {
		return core.SearchRequest{}, err
	}
	if in.Limit, err = intField(raw, "limit"); err != nil {
		return core.SearchRequest{}, err
	}
	if in.Offset, err = intField(raw, "offset"); err != nil {
		return core.SearchRequest{}, err
	}
	if in.DiversityFactor, err = floatField(raw, "diversityFactor"); err != nil {
		return core.SearchRequest{}, err
	}
	if in.Params, err = paramsField(raw, "params"); err != nil {
		return core.SearchRequest{}, err
	}
	return in.Request(at)
}

// Request 校验并填充默认值。搜索默认不做多样性重排。
func (in SearchInput) Request(at time.Time) (core.SearchRequest, error) {
	if err := validateStruct(in); err != nil {
		return core.SearchRequest{}, err
	}
	req := core.SearchRequest{
		Query:           in.Query,
		UserID:          in.UserID,
		Filters:         core.Filters(in.Filters),
		Limit:           deref(in.Limit, DefaultLimit),
		Offset:          deref(in.Offset, 0),
		DiversityFactor: deref(in.DiversityFactor, 0),
		Params:          core.Params(in.Params),
		At:              at,
	}
	return req, req.Validate()
}

// ParseDiscover 把动态对象翻译为探索请求。
func ParseDiscover(raw map[string]any, at time.Time) (core.DiscoverRequest, error) {
	var in DiscoverInput
	var err error
	if in.UserID, err = stringField(raw, "userId"); err != nil {
		return core.DiscoverRequest{}, err
	}
	if in.Limit, err = intField(raw, "limit"); err != nil {
		return core.DiscoverRequest{}, err
	}
	if in.Params, err = paramsField(raw, "params"); err != nil {
		return core.DiscoverRequest{}, err
	}
	return in.Request(at)
}

// Request 校验并填充默认值。
func (in DiscoverInput) Request(at time.Time) (core.DiscoverRequest, error) {
	if err := validateStruct(in); err != nil {
		return core.DiscoverRequest{}, err
	}
	req := core.DiscoverRequest{
		UserID: in.UserID,
		Limit:  deref(in.Limit, DefaultLimit),
		Params: core.Params(in.Params),
		At:     at,
	}
	return req, req.Validate()
}

func deref[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}

func typeError(key string, v any) error {
	return core.InvalidInput(core.ModuleRequest, fmt.Sprintf("%s: unexpected type %T", key, v))
}

func stringField(raw map[string]any, key string) (string, error) {
	v, ok := raw[key]
	if !ok || v == nil {
		return "", nil
	}
	s, ok := conv.ToString(v)
	if !ok {
		return "", typeError(key, v)
	}
	return s, nil
}

func intField(raw map[string]any, key string) (*int, error) {
	v, ok := raw[key]
	if !ok || v == nil {
		return nil, nil
	}
	i, ok := conv.ToInt(v)
	if !ok {
		return nil, typeError(key, v)
	}
	return &i, nil
}

func floatField(raw map[string]any, key string) (*float64, error) {
	v, ok := raw[key]
	if !ok || v == nil {
		return nil, nil
	}
	f, ok := conv.ToFloat64(v)
	if !ok {
		return nil, typeError(key, v)
	}
	return &f, nil
}

// filtersField 接受 {attr: [v1, v2]} 或 {attr: v}。
func filtersField(raw map[string]any, key string) (map[string][]string, error) {
	v, ok := raw[key]
	if !ok || v == nil {
		return nil, nil
	}
	var m map[string]any
	switch val := v.(type) {
	case map[string]any:
		m = val
	case map[string][]string:
		out := make(map[string][]string, len(val))
		for k, vs := range val {
			out[k] = append([]string(nil), vs...)
		}
		return out, nil
	default:
		return nil, typeError(key, v)
	}

	out := make(map[string][]string, len(m))
	for name, accepted := range m {
		vals := conv.SliceAnyToString(accepted)
		if vals == nil {
			return nil, typeError(key+"."+name, accepted)
		}
		out[name] = vals
	}
	return out, nil
}

// paramsField 读取字符串参数对象，值必须是字符串。
func paramsField(raw map[string]any, key string) (map[string]string, error) {
	v, ok := raw[key]
	if !ok || v == nil {
		return nil, nil
	}
	switch val := v.(type) {
	case map[string]string:
		out := make(map[string]string, len(val))
		for k, s := range val {
			out[k] = s
		}
		return out, nil
	case map[string]any:
		out := make(map[string]string, len(val))
		for k, x := range val {
			s, ok := conv.ToString(x)
			if !ok {
				return nil, typeError(key+"."+k, x)
			}
			out[k] = s
		}
		return out, nil
	default:
		return nil, typeError(key, v)
	}
}
