package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/rushteam/rankit/rank"
	"github.com/rushteam/rankit/recall"
	"github.com/rushteam/rankit/rerank"
)

// Config 是引擎参数。
type Config struct {
	// Timeout 单个请求的整体 deadline，0 表示只受调用方 ctx 约束
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	// Similarity 多样性重排使用的相似度：category / embedding / hybrid
	Similarity string `yaml:"similarity" mapstructure:"similarity"`

	// Blacklist 永远不返回的物品 ID
	Blacklist []string `yaml:"blacklist" mapstructure:"blacklist"`

	// Rules 排除规则（CEL 表达式），命中任一规则的候选被移除
	Rules []string `yaml:"rules" mapstructure:"rules"`

	Recall  recall.Config `yaml:"recall" mapstructure:"recall"`
	Weights rank.Weights  `yaml:"weights" mapstructure:"weights"`

	// Model 是 JSON 线性模型文件路径（bias / weights / logistic）；
	// 为空时用 Weights 构建线性模型
	Model string `yaml:"model" mapstructure:"model"`
}

// DefaultConfig 返回默认引擎参数。
func DefaultConfig() Config {
	return Config{
		Timeout:    300 * time.Millisecond,
		Similarity: "hybrid",
		Recall:     recall.DefaultConfig(),
		Weights:    rank.DefaultWeights(),
	}
}

// Validate 校验引擎参数。
func (c Config) Validate() error {
	var errs []error
	if c.Timeout < 0 {
		errs = append(errs, fmt.Errorf("timeout must not be negative, got %s", c.Timeout))
	}
	if _, err := rerank.SimilarityByName(c.Similarity); err != nil {
		errs = append(errs, err)
	}
	if err := c.Recall.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := c.Weights.Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
