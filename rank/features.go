package rank

import (
	"math"
	"strings"
	"time"

	"github.com/rushteam/rankit/core"
	"github.com/rushteam/rankit/pkg/text"
)

// Freshness 按半衰期指数衰减：2^(-age/halfLife)。
// 没有发布时间的物品为 0；发布时间晚于请求时间的按 1 计。
func Freshness(published, now time.Time, halfLife time.Duration) float64 {
	if published.IsZero() || halfLife <= 0 {
		return 0
	}
	age := now.Sub(published)
	if age <= 0 {
		return 1
	}
	return math.Exp2(-float64(age) / float64(halfLife))
}

// Popularity 对热度做 log1p 压缩，负值按 0 计。
func Popularity(pop float64) float64 {
	if pop <= 0 || math.IsNaN(pop) {
		return 0
	}
	return math.Log1p(pop)
}

// Jaccard 计算两组类别的 Jaccard 相似度，任一为空返回 0。
func Jaccard(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	set := make(map[string]struct{}, len(a))
	for _, x := range a {
		set[x] = struct{}{}
	}
	inter := 0
	union := len(set)
	seen := make(map[string]struct{}, len(b))
	for _, y := range b {
		if _, dup := seen[y]; dup {
			continue
		}
		seen[y] = struct{}{}
		if _, ok := set[y]; ok {
			inter++
		} else {
			union++
		}
	}
	return float64(inter) / float64(union)
}

// Match 计算查询与物品文本（标题、正文、类别、属性值）的匹配强度。
func Match(query string, item *core.Item) float64 {
	return text.MatchStrength(query, searchableText(item))
}

func searchableText(item *core.Item) string {
	var b strings.Builder
	b.WriteString(item.Title)
	b.WriteByte(' ')
	b.WriteString(item.Text)
	for _, c := range item.Categories {
		b.WriteByte(' ')
		b.WriteString(c)
	}
	for _, k := range sortedKeys(item.Attributes) {
		b.WriteByte(' ')
		b.WriteString(item.Attributes[k])
	}
	return b.String()
}
