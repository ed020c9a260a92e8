package store

// 注意：接口定义在 core 包，此包只包含实现。
//   - MemoryStore / RedisStore 实现 core.KeyValueStore
//   - Catalog 基于 core.KeyValueStore 实现引擎消费的 core.ItemStore
//
// 示例：
//
//	kv := NewMemoryStore()
//	_ = LoadCatalog(ctx, kv, "rankit", items, profiles)
//	var items core.ItemStore = NewCatalog(kv, "rankit")
