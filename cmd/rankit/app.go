package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/goccy/go-json"
	"github.com/spf13/viper"

	"github.com/rushteam/rankit/cache"
	"github.com/rushteam/rankit/config"
	"github.com/rushteam/rankit/core"
	"github.com/rushteam/rankit/engine"
	"github.com/rushteam/rankit/metrics"
	"github.com/rushteam/rankit/pkg/logging"
	"github.com/rushteam/rankit/store"
	"github.com/rushteam/rankit/vector"
)

// app 持有一次命令执行所需的全部组件。
type app struct {
	cfg     config.Config
	logger  *slog.Logger
	kv      core.KeyValueStore
	catalog *store.Catalog
	metrics *metrics.Recorder
	engine  *engine.Engine
}

// loadConfig 读取配置文件并应用命令行 / 环境变量覆盖。
func loadConfig() (config.Config, error) {
	cfg := config.Default()
	if path := viper.GetString("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}
	if v := viper.GetString("store"); v != "" {
		cfg.Store.Type = v
	}
	if v := viper.GetString("redis-addr"); v != "" {
		if cfg.Store.Options == nil {
			cfg.Store.Options = make(map[string]any)
		}
		cfg.Store.Options["addr"] = v
	}
	if v := viper.GetString("log-level"); v != "" {
		cfg.Log.Level = v
	}
	if v := viper.GetString("log-format"); v != "" {
		cfg.Log.Format = v
	}
	return cfg, cfg.Validate()
}

// newApp 构建存储、可选的 fixture 加载、向量索引与引擎。
func newApp(ctx context.Context) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	a := &app{
		cfg:    cfg,
		logger: logging.New(os.Stderr, cfg.Service, cfg.Log.Format, cfg.Log.Level),
	}

	a.kv, err = config.BuildStore(ctx, cfg.Store)
	if err != nil {
		return nil, err
	}
	a.catalog = store.NewCatalog(a.kv, cfg.Store.Prefix)

	if path := viper.GetString("fixture"); path != "" {
		if err := a.loadFixture(ctx, path); err != nil {
			_ = a.Close()
			return nil, err
		}
	}

	if cfg.Metrics.Enabled {
		a.metrics = metrics.NewRecorder(metrics.DefaultConfig())
	}
	opts := []engine.Option{
		engine.WithLogger(a.logger),
		engine.WithMetrics(a.metrics),
	}
	if cfg.Cache.Size > 0 {
		pc := cache.NewPoolCache(cfg.Cache.Size, cfg.Cache.TTL)
		if cfg.Engine.Timeout > 0 {
			pc.LoadTimeout = cfg.Engine.Timeout
		}
		opts = append(opts, engine.WithCache(pc))
	}
	if cfg.Vector.Dimension > 0 {
		metric, _ := vector.ParseMetric(cfg.Vector.Metric)
		idx, err := vector.BuildIndex(ctx, a.catalog, cfg.Vector.Dimension, metric)
		if err != nil {
			_ = a.Close()
			return nil, err
		}
		a.logger.Info("vector_index_built", "vectors", idx.Len(), "dimension", idx.Dimension())
		opts = append(opts, engine.WithIndex(idx))
	}

	a.engine, err = engine.New(a.catalog, cfg.Engine, opts...)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	return a, nil
}

func (a *app) loadFixture(ctx context.Context, path string) error {
	fx, err := store.ReadFixture(path)
	if err != nil {
		return err
	}
	if err := store.LoadCatalog(ctx, a.kv, a.cfg.Store.Prefix, fx.Items, fx.Users); err != nil {
		return err
	}
	a.logger.Info("fixture_loaded", "path", path, "items", len(fx.Items), "users", len(fx.Users))
	return nil
}

func (a *app) Close() error {
	if a.kv == nil {
		return nil
	}
	return a.kv.Close()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}
