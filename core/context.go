package core

import "time"

// RankContext 承载一次请求的全部显式输入，贯穿整个 Pipeline 透传。
// 由 Retriever 在请求开始时解析构建，之后各阶段只读，不跨请求共享。
type RankContext struct {
	RequestID string
	Mode      Mode
	UserID    string

	// Profile 为用户画像；匿名请求为 nil
	Profile *UserProfile

	// RecentItems 是最近交互的物品（最近优先，受窗口限制），用于历史召回
	RecentItems []*Item

	// 推荐模式的种子：SeedItem 与 SeedCategory 至多一个非空
	SeedItem     *Item
	SeedCategory string

	// AnchorCategories 是亲和度计算的锚点类别：
	// 种子物品的类别 / 种子类别 / 最近交互物品的类别
	AnchorCategories []string

	// 搜索模式
	Query   string
	Tokens  []string
	Filters Filters

	DiversityFactor float64

	// Now 是请求时间，新鲜度衰减只依赖它，不读取环境时钟
	Now time.Time

	// Params 请求级扩展参数，供规则表达式使用
	Params map[string]any
}

// Anonymous 是否为匿名请求。
func (rctx *RankContext) Anonymous() bool {
	return rctx == nil || rctx.UserID == ""
}

// HasSeed 是否带有显式种子。
func (rctx *RankContext) HasSeed() bool {
	return rctx != nil && (rctx.SeedItem != nil || rctx.SeedCategory != "")
}
