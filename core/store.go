package core

import "context"

// Store 是 KV 存储的领域接口，由 store 包实现（MemoryStore / RedisStore）。
//
// 设计原则：
//   - 定义在领域层（core），由基础设施层（store）实现
//   - 领域层不依赖基础设施层
type Store interface {
	// Name 返回存储后端名称（用于日志/监控）
	Name() string

	Get(ctx context.Context, key string) ([]byte, error)

	// Set 写入单个 key-value，ttl 单位为秒
	Set(ctx context.Context, key string, value []byte, ttl ...int) error

	Delete(ctx context.Context, key string) error

	// BatchGet 批量读取，不存在的 key 不出现在结果中
	BatchGet(ctx context.Context, keys []string) (map[string][]byte, error)

	BatchSet(ctx context.Context, kvs map[string][]byte, ttl ...int) error

	Close() error
}

// KeyValueStore 是 Store 的扩展接口，支持有序集合。
// 有序集合用于热门池、类别索引、倒排索引与共现关系。
type KeyValueStore interface {
	Store

	// ZAdd 向有序集合添加成员
	ZAdd(ctx context.Context, key string, score float64, member string) error

	// ZIncrBy 增加成员分数（用于共现计数、倒排权重累加）
	ZIncrBy(ctx context.Context, key string, increment float64, member string) error

	// ZRangeWithScores 按分数降序返回 [start, stop] 区间的成员，stop = -1 表示到末尾
	ZRangeWithScores(ctx context.Context, key string, start, stop int64) ([]Neighbor, error)

	// ZScore 获取成员的分数
	ZScore(ctx context.Context, key string, member string) (float64, error)
}

// Neighbor 是带权重的物品引用（共现强度、倒排命中权重、热度等）。
type Neighbor struct {
	ID    string
	Score float64
}

// ItemStore 是引擎消费的窄读接口：物品元数据 + 用户交互历史。
// 引擎只通过它读取数据，从不写入。
type ItemStore interface {
	Name() string

	// GetItem 读取单个物品；不存在返回 NOT_FOUND
	GetItem(ctx context.Context, id string) (*Item, error)

	// GetItems 批量读取物品，结果与 ids 顺序一致，不存在的 ID 被跳过
	GetItems(ctx context.Context, ids []string) ([]*Item, error)

	// GetUserProfile 读取用户画像；未知用户返回空画像而非错误
	GetUserProfile(ctx context.Context, userID string) (*UserProfile, error)

	// RelatedItems 返回与物品共现的物品（按共现强度降序）
	RelatedItems(ctx context.Context, itemID string, topK int) ([]Neighbor, error)

	// CategoryItems 返回类别下的物品（按热度降序）
	CategoryItems(ctx context.Context, category string, topK int) ([]Neighbor, error)

	// MatchTokens 返回命中任一 token 的物品，分数为命中权重之和（降序）
	MatchTokens(ctx context.Context, tokens []string, topK int) ([]Neighbor, error)

	// PopularItems 返回热门池（按热度降序），topK <= 0 表示全部
	PopularItems(ctx context.Context, topK int) ([]Neighbor, error)
}

// Store 错误定义（使用统一的 DomainError）
var (
	// ErrStoreNotFound 表示 key 不存在
	ErrStoreNotFound = NewDomainError(ModuleStore, ErrorCodeNotFound, "store: key not found")

	// ErrStoreNotSupported 表示操作不支持
	ErrStoreNotSupported = NewDomainError(ModuleStore, ErrorCodeNotSupported, "store: operation not supported")
)

// IsStoreNotFound 检查错误是否为 store 模块的 key 不存在
func IsStoreNotFound(err error) bool {
	domainErr := GetDomainError(err)
	return domainErr != nil && domainErr.Module == ModuleStore && domainErr.Code == ErrorCodeNotFound
}

// StoreUnavailable 构造 STORE_UNAVAILABLE 错误
func StoreUnavailable(message string, err error) *DomainError {
	return WrapDomainError(ModuleStore, ErrorCodeStoreUnavailable, message, err)
}
