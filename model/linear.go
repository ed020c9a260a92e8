package model

import (
	"fmt"
	"math"
	"os"
	"sort"

	"github.com/goccy/go-json"
)

// Linear 是线性加权模型：score = Bias + sum(Weight_i * Feature_i)。
//
// Logistic 为 true 时输出再经过 Sigmoid 变换，即逻辑回归 (LR)，范围 (0, 1)。
// 特征按名称排序后累加，相同输入总是得到完全相同的浮点结果。
type Linear struct {
	Bias     float64            `json:"bias"`
	Weights  map[string]float64 `json:"weights"`
	Logistic bool               `json:"logistic"`
}

// LoadLinear 从 JSON 文件加载模型参数。
func LoadLinear(path string) (*Linear, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m Linear
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode model %s: %w", path, err)
	}
	return &m, nil
}

func (m *Linear) Name() string {
	if m.Logistic {
		return "lr"
	}
	return "linear"
}

func (m *Linear) Predict(features map[string]float64) (float64, error) {
	keys := make([]string, 0, len(features))
	for k := range features {
		if _, ok := m.Weights[k]; ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	score := m.Bias
	for _, k := range keys {
		v := features[k]
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, fmt.Errorf("feature %q is not finite", k)
		}
		score += m.Weights[k] * v
	}
	if m.Logistic {
		return 1 / (1 + math.Exp(-score)), nil
	}
	return score, nil
}
