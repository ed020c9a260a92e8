// Package vector 提供向量相似度度量与内存 KNN 索引。
// 用于 Embedding 召回与多样性重排中的物品相似度。
package vector

import (
	"fmt"
	"math"
)

// Metric 距离度量方式。
type Metric string

const (
	MetricCosine    Metric = "cosine"
	MetricDot       Metric = "dot"
	MetricEuclidean Metric = "euclidean"
	MetricManhattan Metric = "manhattan"
)

// ParseMetric 解析度量名称。
func ParseMetric(name string) (Metric, error) {
	switch m := Metric(name); m {
	case MetricCosine, MetricDot, MetricEuclidean, MetricManhattan:
		return m, nil
	default:
		return "", fmt.Errorf("unknown vector metric %q", name)
	}
}

// Dot 计算内积；维度不同时按较短的一方计算。
func Dot(a, b []float64) float64 {
	n := min(len(a), len(b))
	var sum float64
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}

// Magnitude 计算 L2 范数。
func Magnitude(v []float64) float64 {
	return math.Sqrt(Dot(v, v))
}

// Cosine 计算余弦相似度；任一向量为零向量或维度不同时返回 0。
func Cosine(a, b []float64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	na, nb := Magnitude(a), Magnitude(b)
	if na == 0 || nb == 0 {
		return 0
	}
	return Dot(a, b) / (na * nb)
}

// Euclidean 计算欧氏距离（L2）。
func Euclidean(a, b []float64) float64 {
	n := min(len(a), len(b))
	var sum float64
	for i := 0; i < n; i++ {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

// Manhattan 计算曼哈顿距离（L1）。
func Manhattan(a, b []float64) float64 {
	n := min(len(a), len(b))
	var sum float64
	for i := 0; i < n; i++ {
		sum += math.Abs(a[i] - b[i])
	}
	return sum
}

// Normalize 返回单位长度的副本；零向量原样复制。
func Normalize(v []float64) []float64 {
	out := make([]float64, len(v))
	copy(out, v)
	norm := Magnitude(v)
	if norm == 0 {
		return out
	}
	for i := range out {
		out[i] /= norm
	}
	return out
}

// Similarity 按度量返回“越大越相似”的分数。
// 距离类度量转换为 1/(1+d)。
func Similarity(metric Metric, a, b []float64) float64 {
	switch metric {
	case MetricDot:
		return Dot(a, b)
	case MetricEuclidean:
		return 1 / (1 + Euclidean(a, b))
	case MetricManhattan:
		return 1 / (1 + Manhattan(a, b))
	default:
		return Cosine(a, b)
	}
}
