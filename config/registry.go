package config

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/rushteam/rankit/core"
)

// 使用配置驱动时，需在 main 或入口处 import _ "github.com/rushteam/rankit/config/builders"
// 以触发内置存储后端（memory、redis）的 init 注册。

// StoreBuilder 根据 store.options 构建 KV 存储。
// 各后端在 init 中调用 RegisterStore(typeName, builder) 即可被配置驱动。
type StoreBuilder func(ctx context.Context, options map[string]any) (core.KeyValueStore, error)

var (
	storeBuilders   = make(map[string]StoreBuilder)
	storeBuildersMu sync.RWMutex
)

// RegisterStore 注册一种存储后端。
func RegisterStore(typeName string, builder StoreBuilder) {
	if typeName == "" || builder == nil {
		return
	}
	storeBuildersMu.Lock()
	defer storeBuildersMu.Unlock()
	storeBuilders[typeName] = builder
}

// SupportedStores 返回已注册的存储类型列表（排序），用于错误提示与校验。
func SupportedStores() []string {
	storeBuildersMu.RLock()
	defer storeBuildersMu.RUnlock()
	types := make([]string, 0, len(storeBuilders))
	for t := range storeBuilders {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// BuildStore 按配置构建存储；类型未注册时返回包含已支持列表的错误。
func BuildStore(ctx context.Context, cfg StoreConfig) (core.KeyValueStore, error) {
	storeBuildersMu.RLock()
	builder, ok := storeBuilders[cfg.Type]
	storeBuildersMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unsupported store type %q (supported: %v)", cfg.Type, SupportedStores())
	}
	return builder(ctx, cfg.Options)
}
