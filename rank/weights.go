package rank

import (
	"fmt"
	"math"
	"time"
)

// 特征名，同时作为线性模型的权重 key
const (
	FeatureMatch            = "match"
	FeatureCoInteraction    = "co_interaction"
	FeatureCategoryAffinity = "category_affinity"
	FeatureEmbedding        = "embedding"
	FeatureFreshness        = "freshness"
	FeaturePopularity       = "popularity"
)

// Weights 是打分权重。来自配置，请求不能修改。
type Weights struct {
	Match            float64 `yaml:"match" mapstructure:"match"`
	CoInteraction    float64 `yaml:"co_interaction" mapstructure:"co_interaction"`
	CategoryAffinity float64 `yaml:"category_affinity" mapstructure:"category_affinity"`
	Embedding        float64 `yaml:"embedding" mapstructure:"embedding"`
	Freshness        float64 `yaml:"freshness" mapstructure:"freshness"`
	Popularity       float64 `yaml:"popularity" mapstructure:"popularity"`

	// FreshnessHalfLife 新鲜度半衰期：物品年龄每增加一个半衰期，新鲜度减半
	FreshnessHalfLife time.Duration `yaml:"freshness_half_life" mapstructure:"freshness_half_life"`
}

// DefaultWeights 返回默认权重。
func DefaultWeights() Weights {
	return Weights{
		Match:             1.0,
		CoInteraction:     0.6,
		CategoryAffinity:  0.4,
		Embedding:         0.3,
		Freshness:         0.2,
		Popularity:        0.1,
		FreshnessHalfLife: 7 * 24 * time.Hour,
	}
}

// Map 返回特征名到权重的映射。
func (w Weights) Map() map[string]float64 {
	return map[string]float64{
		FeatureMatch:            w.Match,
		FeatureCoInteraction:    w.CoInteraction,
		FeatureCategoryAffinity: w.CategoryAffinity,
		FeatureEmbedding:        w.Embedding,
		FeatureFreshness:        w.Freshness,
		FeaturePopularity:       w.Popularity,
	}
}

func (w Weights) Validate() error {
	for name, v := range w.Map() {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("weight %s must be finite", name)
		}
		if v < 0 {
			return fmt.Errorf("weight %s must not be negative, got %v", name, v)
		}
	}
	if w.FreshnessHalfLife <= 0 {
		return fmt.Errorf("freshness_half_life must be positive, got %s", w.FreshnessHalfLife)
	}
	return nil
}
