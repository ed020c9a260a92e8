// Package config 加载 rankit 的 YAML 配置。
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rushteam/rankit/engine"
	"github.com/rushteam/rankit/vector"
)

// Config 是完整配置。
type Config struct {
	Service string        `yaml:"service" mapstructure:"service"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
	Store   StoreConfig   `yaml:"store" mapstructure:"store"`
	Cache   CacheConfig   `yaml:"cache" mapstructure:"cache"`
	Vector  VectorConfig  `yaml:"vector" mapstructure:"vector"`
	Metrics MetricsConfig `yaml:"metrics" mapstructure:"metrics"`
	Engine  engine.Config `yaml:"engine" mapstructure:"engine"`
}

type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"` // json / text
}

// StoreConfig 选择存储后端。Options 由对应的 StoreBuilder 解释。
type StoreConfig struct {
	Type    string         `yaml:"type" mapstructure:"type"`
	Prefix  string         `yaml:"prefix" mapstructure:"prefix"`
	Options map[string]any `yaml:"options" mapstructure:"options"`
}

// CacheConfig 是热门池缓存参数，Size 为 0 时关闭缓存。
type CacheConfig struct {
	Size int           `yaml:"size" mapstructure:"size"`
	TTL  time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

// VectorConfig 控制向量召回。Dimension 为 0 时关闭。
type VectorConfig struct {
	Dimension int    `yaml:"dimension" mapstructure:"dimension"`
	Metric    string `yaml:"metric" mapstructure:"metric"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Addr    string `yaml:"addr" mapstructure:"addr"`
}

// Default 返回默认配置：内存存储、开启缓存、关闭向量召回。
func Default() Config {
	return Config{
		Service: "rankit",
		Log:     LogConfig{Level: "info", Format: "json"},
		Store:   StoreConfig{Type: "memory", Prefix: "rankit"},
		Cache:   CacheConfig{Size: 128, TTL: 30 * time.Second},
		Vector:  VectorConfig{Metric: string(vector.MetricCosine)},
		Metrics: MetricsConfig{Addr: ":9090"},
		Engine:  engine.DefaultConfig(),
	}
}

// Load 读取 YAML 文件，未出现的字段保留默认值。
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate 校验配置。
func (c Config) Validate() error {
	var errs []error
	if c.Store.Type == "" {
		errs = append(errs, errors.New("store.type is required"))
	}
	if c.Cache.Size < 0 {
		errs = append(errs, fmt.Errorf("cache.size must not be negative, got %d", c.Cache.Size))
	}
	if c.Cache.Size > 0 && c.Cache.TTL <= 0 {
		errs = append(errs, fmt.Errorf("cache.ttl must be positive, got %s", c.Cache.TTL))
	}
	if c.Vector.Dimension < 0 {
		errs = append(errs, fmt.Errorf("vector.dimension must not be negative, got %d", c.Vector.Dimension))
	}
	if c.Vector.Dimension > 0 {
		if _, err := vector.ParseMetric(c.Vector.Metric); err != nil {
			errs = append(errs, err)
		}
	}
	if err := c.Engine.Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
