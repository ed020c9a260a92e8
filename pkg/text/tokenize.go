// Package text 提供检索与索引共用的分词和文本相似度。
package text

import (
	"strings"
	"unicode"
)

// Tokenize 小写化并按非字母数字切分，去重且保持首次出现的顺序。
func Tokenize(s string) []string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	seen := make(map[string]struct{}, len(fields))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out
}

// MatchStrength 计算查询与文本的匹配强度，范围 [0,1]：
//   - 文本包含完整查询短语时为 1
//   - 否则为查询 token 中能在文本某个词内找到的比例
//
// 查询为空时返回 0。
func MatchStrength(query, doc string) float64 {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return 0
	}
	d := strings.ToLower(doc)
	if strings.Contains(d, q) {
		return 1
	}

	queryTokens := Tokenize(q)
	if len(queryTokens) == 0 {
		return 0
	}
	docTokens := Tokenize(d)
	matches := 0
	for _, qt := range queryTokens {
		for _, dt := range docTokens {
			if strings.Contains(dt, qt) {
				matches++
				break
			}
		}
	}
	return float64(matches) / float64(len(queryTokens))
}
