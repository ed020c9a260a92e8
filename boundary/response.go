package boundary

import (
	"net/http"
	"time"

	"github.com/rushteam/rankit/core"
)

// Envelope 是统一响应：成功时 {success: true, data}，失败时 {success: false, error}。
type Envelope struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorBody `json:"error,omitempty"`
}

// ErrorBody 是失败响应中的错误描述。
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ItemView 是对外输出的物品。
type ItemView struct {
	ID          string             `json:"id"`
	Title       string             `json:"title,omitempty"`
	Categories  []string           `json:"categories,omitempty"`
	Attributes  map[string]string  `json:"attributes,omitempty"`
	Popularity  float64            `json:"popularity"`
	PublishedAt *time.Time         `json:"publishedAt,omitempty"`
	Score       float64            `json:"score"`
	Features    map[string]float64 `json:"features,omitempty"`
}

// RecommendationData 是推荐响应数据。
type RecommendationData struct {
	Items []ItemView `json:"items"`
	Total int        `json:"total"`
	Limit int        `json:"limit"`
}

// SearchData 是搜索响应数据。
type SearchData struct {
	Items  []ItemView `json:"items"`
	Total  int        `json:"total"`
	Limit  int        `json:"limit"`
	Offset int        `json:"offset"`
}

// DiscoverData 是探索响应数据。
type DiscoverData struct {
	Items []ItemView `json:"items"`
	Total int        `json:"total"`
}

// Options 控制输出内容。
type Options struct {
	// Explain 为 true 时输出打分特征
	Explain bool
}

func views(items []*core.ScoredItem, opts Options) []ItemView {
	out := make([]ItemView, 0, len(items))
	for _, it := range items {
		if it == nil || it.Item == nil {
			continue
		}
		v := ItemView{
			ID:         it.Item.ID,
			Title:      it.Item.Title,
			Categories: it.Item.Categories,
			Attributes: it.Item.Attributes,
			Popularity: it.Item.Popularity,
			Score:      it.Score,
		}
		if !it.Item.PublishedAt.IsZero() {
			t := it.Item.PublishedAt
			v.PublishedAt = &t
		}
		if opts.Explain {
			v.Features = it.Features
		}
		out = append(out, v)
	}
	return out
}

// Recommendation 包装推荐结果。
func Recommendation(p *core.ResultPage, opts Options) Envelope {
	return Envelope{Success: true, Data: RecommendationData{
		Items: views(p.Items, opts),
		Total: p.Total,
		Limit: p.Limit,
	}}
}

// Search 包装搜索结果。
func Search(p *core.ResultPage, opts Options) Envelope {
	return Envelope{Success: true, Data: SearchData{
		Items:  views(p.Items, opts),
		Total:  p.Total,
		Limit:  p.Limit,
		Offset: p.Offset,
	}}
}

// Discover 包装探索结果。
func Discover(p *core.ResultPage, opts Options) Envelope {
	return Envelope{Success: true, Data: DiscoverData{
		Items: views(p.Items, opts),
		Total: p.Total,
	}}
}

// Failure 把错误包装为失败响应。
func Failure(err error) Envelope {
	body := &ErrorBody{Code: core.ErrorCode(err), Message: "internal error"}
	if de := core.GetDomainError(err); de != nil {
		body.Message = de.Message
	}
	return Envelope{Success: false, Error: body}
}

// HTTPStatus 返回错误对应的 HTTP 状态码。
func HTTPStatus(err error) int {
	switch core.ErrorCode(err) {
	case "":
		return http.StatusOK
	case core.ErrorCodeInvalidInput:
		return http.StatusBadRequest
	case core.ErrorCodeNotFound:
		return http.StatusNotFound
	case core.ErrorCodeStoreUnavailable:
		return http.StatusServiceUnavailable
	case core.ErrorCodeTimeout:
		return http.StatusGatewayTimeout
	case core.ErrorCodeNotSupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}
