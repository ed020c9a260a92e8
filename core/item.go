package core

import (
	"sort"
	"time"

	"github.com/rushteam/rankit/pkg/utils"
)

// Item 是存储中的物品记录，引擎只持有只读引用，不修改其字段。
type Item struct {
	ID          string            `json:"id" yaml:"id"`
	Title       string            `json:"title,omitempty" yaml:"title"`
	Text        string            `json:"text,omitempty" yaml:"text"`
	Categories  []string          `json:"categories,omitempty" yaml:"categories"`
	Attributes  map[string]string `json:"attributes,omitempty" yaml:"attributes"`
	Popularity  float64           `json:"popularity" yaml:"popularity"`
	PublishedAt time.Time         `json:"published_at,omitempty" yaml:"published_at"`
	Embedding   []float64         `json:"embedding,omitempty" yaml:"embedding"`
}

// HasCategory 判断物品是否带有某个类别标签。
func (it *Item) HasCategory(category string) bool {
	for _, c := range it.Categories {
		if c == category {
			return true
		}
	}
	return false
}

// ScoredItem 是 Pipeline 中流转的统一承载结构：物品引用、分数、特征、标签。
// 请求级对象，响应后即丢弃。
//
// Signals 是召回阶段附带的原始信号（如 co_interaction 强度），
// Features 是打分阶段算出的特征项（match / affinity / freshness / popularity），
// Labels 用于 explain 与观测。
type ScoredItem struct {
	Item     *Item
	Score    float64
	Signals  map[string]float64
	Features map[string]float64
	Labels   map[string]utils.Label
}

func NewScoredItem(item *Item) *ScoredItem {
	return &ScoredItem{
		Item:     item,
		Signals:  make(map[string]float64),
		Features: make(map[string]float64),
		Labels:   make(map[string]utils.Label),
	}
}

// ID 返回物品 ID。
func (s *ScoredItem) ID() string {
	if s == nil || s.Item == nil {
		return ""
	}
	return s.Item.ID
}

// PutLabel 写入 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (s *ScoredItem) PutLabel(key string, lbl utils.Label) {
	if s.Labels == nil {
		s.Labels = make(map[string]utils.Label)
	}
	if old, ok := s.Labels[key]; ok {
		s.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	s.Labels[key] = lbl
}

// MergeSignal 合并召回信号，同名取最大值，与合并顺序无关。
func (s *ScoredItem) MergeSignal(key string, value float64) {
	if s.Signals == nil {
		s.Signals = make(map[string]float64)
	}
	if old, ok := s.Signals[key]; !ok || value > old {
		s.Signals[key] = value
	}
}

// SortByScore 按分数降序排序，分数相同按物品 ID 升序，保证结果确定。
func SortByScore(items []*ScoredItem) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Score != items[j].Score {
			return items[i].Score > items[j].Score
		}
		return items[i].ID() < items[j].ID()
	})
}

// CandidateSet 是召回产出的候选集：保持插入顺序，物品 ID 唯一。
// 重复 ID 时保留首次出现的条目，并把后来者的信号与标签合并进去。
type CandidateSet struct {
	items []*ScoredItem
	index map[string]*ScoredItem
}

func NewCandidateSet(capacity int) *CandidateSet {
	return &CandidateSet{
		items: make([]*ScoredItem, 0, capacity),
		index: make(map[string]*ScoredItem, capacity),
	}
}

// Add 加入候选；返回 true 表示新增，false 表示已存在（已合并）。
func (c *CandidateSet) Add(it *ScoredItem) bool {
	if it == nil || it.Item == nil {
		return false
	}
	if old, ok := c.index[it.ID()]; ok {
		for k, v := range it.Signals {
			old.MergeSignal(k, v)
		}
		for k, v := range it.Labels {
			old.PutLabel(k, v)
		}
		return false
	}
	c.index[it.ID()] = it
	c.items = append(c.items, it)
	return true
}

// Contains 判断候选集是否包含某个 ID。
func (c *CandidateSet) Contains(id string) bool {
	_, ok := c.index[id]
	return ok
}

// Items 返回候选列表（按插入顺序）。
func (c *CandidateSet) Items() []*ScoredItem {
	return c.items
}

// IDs 返回候选 ID 列表（按插入顺序）。
func (c *CandidateSet) IDs() []string {
	ids := make([]string, len(c.items))
	for i, it := range c.items {
		ids[i] = it.ID()
	}
	return ids
}

func (c *CandidateSet) Len() int {
	return len(c.items)
}

// ResultPage 是分页后的结果。Total 为分页前完整排序列表的长度。
type ResultPage struct {
	Items  []*ScoredItem
	Total  int
	Limit  int
	Offset int
}
