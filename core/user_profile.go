package core

import (
	"sort"
	"time"
)

// 交互类型
const (
	InteractionView     = "view"
	InteractionClick    = "click"
	InteractionLike     = "like"
	InteractionPurchase = "purchase"
)

// Interaction 是一条用户行为记录。
type Interaction struct {
	ItemID    string    `json:"item_id" yaml:"item_id"`
	Type      string    `json:"type" yaml:"type"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
}

// UserProfile 是用户画像：用户 ID + 有序的历史交互。
//
// 画像由存储拥有，引擎只读：
//   - Recent 用于推荐召回的种子推导（最近优先）
//   - Interacted 用于推荐/发现中排除已交互物品
//   - 空画像（无交互）触发冷启动
type UserProfile struct {
	UserID       string        `json:"user_id" yaml:"user_id"`
	Interactions []Interaction `json:"interactions" yaml:"interactions"`
}

// NewUserProfile 创建一个空画像。
func NewUserProfile(userID string) *UserProfile {
	return &UserProfile{
		UserID:       userID,
		Interactions: make([]Interaction, 0),
	}
}

// IsEmpty 是否没有任何交互（冷启动）。
func (p *UserProfile) IsEmpty() bool {
	return p == nil || len(p.Interactions) == 0
}

// Recent 返回最近 n 个不同物品的 ID，最近优先；时间相同按物品 ID 升序。
// n <= 0 表示不限制。
func (p *UserProfile) Recent(n int) []string {
	if p.IsEmpty() {
		return nil
	}
	sorted := make([]Interaction, len(p.Interactions))
	copy(sorted, p.Interactions)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].Timestamp.Equal(sorted[j].Timestamp) {
			return sorted[i].Timestamp.After(sorted[j].Timestamp)
		}
		return sorted[i].ItemID < sorted[j].ItemID
	})

	seen := make(map[string]struct{}, len(sorted))
	out := make([]string, 0, len(sorted))
	for _, in := range sorted {
		if _, ok := seen[in.ItemID]; ok {
			continue
		}
		seen[in.ItemID] = struct{}{}
		out = append(out, in.ItemID)
		if n > 0 && len(out) >= n {
			break
		}
	}
	return out
}

// Interacted 返回所有交互过的物品 ID 集合。
func (p *UserProfile) Interacted() map[string]struct{} {
	set := make(map[string]struct{})
	if p == nil {
		return set
	}
	for _, in := range p.Interactions {
		set[in.ItemID] = struct{}{}
	}
	return set
}

// AddInteraction 追加一条交互记录（用于构造测试数据与加载画像）。
func (p *UserProfile) AddInteraction(itemID, typ string, ts time.Time) {
	p.Interactions = append(p.Interactions, Interaction{ItemID: itemID, Type: typ, Timestamp: ts})
}
