package rerank

import (
	"fmt"

	"github.com/rushteam/rankit/core"
	"github.com/rushteam/rankit/rank"
	"github.com/rushteam/rankit/vector"
)

// Similarity 计算两个物品的相似度，用于多样性惩罚。值越大越相似。
type Similarity func(a, b *core.Item) float64

// CategorySimilarity 是类别标签的 Jaccard 相似度。
// 物品只有一个类别标签时，提高 λ 不会减少 top-k 覆盖的类别数；多标签时没有这个保证。
func CategorySimilarity(a, b *core.Item) float64 {
	return rank.Jaccard(a.Categories, b.Categories)
}

// EmbeddingSimilarity 是 embedding 的余弦相似度；任一方没有向量或维度不一致时为 0。
func EmbeddingSimilarity(a, b *core.Item) float64 {
	return vector.Cosine(a.Embedding, b.Embedding)
}

// HybridSimilarity 双方都有同维度 embedding 时用余弦相似度，否则退化为类别相似度。
func HybridSimilarity(a, b *core.Item) float64 {
	if len(a.Embedding) > 0 && len(a.Embedding) == len(b.Embedding) {
		return vector.Cosine(a.Embedding, b.Embedding)
	}
	return CategorySimilarity(a, b)
}

// SimilarityByName 按名称返回相似度函数：category / embedding / hybrid。
func SimilarityByName(name string) (Similarity, error) {
	switch name {
	case "", "category":
		return CategorySimilarity, nil
	case "embedding":
		return EmbeddingSimilarity, nil
	case "hybrid":
		return HybridSimilarity, nil
	default:
		return nil, fmt.Errorf("unknown similarity %q", name)
	}
}
