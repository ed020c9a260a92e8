package vector

import (
	"fmt"
	"sort"
	"sync"

	"github.com/rushteam/rankit/core"
)

// Hit 是一条检索结果。
type Hit struct {
	ID    string
	Score float64
}

// Index 是内存实现的暴力 KNN 索引，线程安全。
//
// 特点：
//   - 固定维度，插入时校验
//   - 余弦度量在插入时归一化，检索退化为内积
//   - 分数相同按 ID 升序，结果确定
type Index struct {
	mu        sync.RWMutex
	dimension int
	metric    Metric
	vectors   map[string][]float64
}

// NewIndex 创建索引。dimension 为 0 时以首个插入向量的维度为准。
func NewIndex(dimension int, metric Metric) *Index {
	if metric == "" {
		metric = MetricCosine
	}
	return &Index{
		dimension: dimension,
		metric:    metric,
		vectors:   make(map[string][]float64),
	}
}

// Add 插入或覆盖一个向量。
func (x *Index) Add(id string, v []float64) error {
	if id == "" {
		return core.InvalidInput(core.ModuleVector, "vector id is empty")
	}
	if len(v) == 0 {
		return core.InvalidInput(core.ModuleVector, "vector is empty")
	}

	x.mu.Lock()
	defer x.mu.Unlock()

	if x.dimension == 0 {
		x.dimension = len(v)
	}
	if len(v) != x.dimension {
		return core.InvalidInput(core.ModuleVector,
			fmt.Sprintf("vector dimension mismatch: expected %d, got %d", x.dimension, len(v)))
	}
	if x.metric == MetricCosine {
		x.vectors[id] = Normalize(v)
	} else {
		stored := make([]float64, len(v))
		copy(stored, v)
		x.vectors[id] = stored
	}
	return nil
}

// Remove 删除一个向量。
func (x *Index) Remove(id string) {
	x.mu.Lock()
	defer x.mu.Unlock()
	delete(x.vectors, id)
}

// Len 返回向量数量。
func (x *Index) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.vectors)
}

// Dimension 返回索引维度。
func (x *Index) Dimension() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.dimension
}

// Search 返回与 query 最相似的 k 个向量；exclude 中的 ID 不参与排序。
func (x *Index) Search(query []float64, k int, exclude ...string) ([]Hit, error) {
	if k <= 0 {
		return nil, nil
	}

	x.mu.RLock()
	defer x.mu.RUnlock()

	if len(x.vectors) == 0 {
		return nil, nil
	}
	if len(query) != x.dimension {
		return nil, core.InvalidInput(core.ModuleVector,
			fmt.Sprintf("query dimension mismatch: expected %d, got %d", x.dimension, len(query)))
	}

	skip := make(map[string]struct{}, len(exclude))
	for _, id := range exclude {
		skip[id] = struct{}{}
	}

	q := query
	if x.metric == MetricCosine {
		q = Normalize(query)
	}

	hits := make([]Hit, 0, len(x.vectors))
	for id, v := range x.vectors {
		if _, ok := skip[id]; ok {
			continue
		}
		var score float64
		if x.metric == MetricCosine {
			score = Dot(q, v)
		} else {
			score = Similarity(x.metric, q, v)
		}
		hits = append(hits, Hit{ID: id, Score: score})
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].ID < hits[j].ID
	})
	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}
