package utils

import "strings"

// Label 是排序链路中的一等公民：可解释、可追踪、可透传。
// Value 与 Source 的语义由各阶段自定义；这里只提供标准化的合并规则。
type Label struct {
	Value  string `json:"value"`
	Source string `json:"source"` // recall / filter / rank / rerank ...
}

// 常用 Label Source
const (
	SourceRecall = "recall"
	SourceRank   = "rank"
	SourceRerank = "rerank"
)

// MergeLabel 用于合并同名 Label，遵循“保留历史、可追踪”的默认策略。
// - Value: 以 '|' 累积，重复值不再追加
// - Source: 以 ',' 累积，重复来源不再追加
func MergeLabel(existing Label, incoming Label) Label {
	if existing.Value == "" {
		return incoming
	}
	if incoming.Value == "" {
		return existing
	}

	merged := existing
	merged.Value = appendUnique(existing.Value, incoming.Value, "|")
	merged.Source = appendUnique(existing.Source, incoming.Source, ",")
	return merged
}

func appendUnique(list, v, sep string) string {
	switch {
	case list == "":
		return v
	case v == "":
		return list
	}
	for _, part := range strings.Split(list, sep) {
		if part == v {
			return list
		}
	}
	return list + sep + v
}
