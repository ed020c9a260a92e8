package store

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/rushteam/rankit/core"
	"github.com/rushteam/rankit/pkg/text"
)

// 倒排索引的字段权重
const (
	weightTitle     = 2.0
	weightCategory  = 1.5
	weightText      = 1.0
	weightAttribute = 1.0
)

// Fixture 是物品目录的离线数据（YAML 或 JSON），用于开发、测试与 CLI。
type Fixture struct {
	Items []*core.Item        `yaml:"items" json:"items"`
	Users []*core.UserProfile `yaml:"users" json:"users"`
}

// ReadFixture 从文件读取目录数据；YAML 是 JSON 的超集，两种格式都可用。
func ReadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	var fx Fixture
	if err := yaml.Unmarshal(data, &fx); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	return &fx, nil
}

// LoadCatalog 把物品与用户画像写入 KV 存储，并构建 Catalog 读取所需的全部索引：
// 热门池、类别索引、倒排索引以及基于用户历史的物品共现关系。
func LoadCatalog(ctx context.Context, kv core.KeyValueStore, keyPrefix string, items []*core.Item, users []*core.UserProfile) error {
	c := NewCatalog(kv, keyPrefix)

	for _, it := range items {
		if it == nil || it.ID == "" {
			return core.InvalidInput(core.ModuleStore, "fixture item without id")
		}
		if err := c.putItem(ctx, it); err != nil {
			return err
		}
	}

	for _, u := range users {
		if u == nil || u.UserID == "" {
			return core.InvalidInput(core.ModuleStore, "fixture user without id")
		}
		if err := c.putUser(ctx, u); err != nil {
			return err
		}
	}
	return nil
}

func (c *Catalog) putItem(ctx context.Context, it *core.Item) error {
	data, err := json.Marshal(it)
	if err != nil {
		return fmt.Errorf("encode item %s: %w", it.ID, err)
	}
	if err := c.kv.Set(ctx, c.itemKey(it.ID), data); err != nil {
		return fail("put item", err)
	}
	if err := c.kv.ZAdd(ctx, c.popularKey(), it.Popularity, it.ID); err != nil {
		return fail("put item", err)
	}
	for _, cat := range it.Categories {
		if err := c.kv.ZAdd(ctx, c.categoryKey(cat), it.Popularity, it.ID); err != nil {
			return fail("put item", err)
		}
	}

	for tok, w := range indexTerms(it) {
		if err := c.kv.ZIncrBy(ctx, c.tokenKey(tok), w, it.ID); err != nil {
			return fail("put item", err)
		}
	}
	return nil
}

// indexTerms 汇总物品各字段的词权重；同一个词在多个字段出现时权重累加。
func indexTerms(it *core.Item) map[string]float64 {
	terms := make(map[string]float64)
	add := func(s string, w float64) {
		for _, tok := range text.Tokenize(s) {
			terms[tok] += w
		}
	}
	add(it.Title, weightTitle)
	add(it.Text, weightText)
	for _, cat := range it.Categories {
		add(cat, weightCategory)
	}

	names := make([]string, 0, len(it.Attributes))
	for name := range it.Attributes {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		add(it.Attributes[name], weightAttribute)
	}
	return terms
}

// putUser 写入画像，并为画像内每对不同物品累加一次共现。
func (c *Catalog) putUser(ctx context.Context, u *core.UserProfile) error {
	data, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encode user %s: %w", u.UserID, err)
	}
	if err := c.kv.Set(ctx, c.userKey(u.UserID), data); err != nil {
		return fail("put user", err)
	}

	ids := make([]string, 0, len(u.Interactions))
	for id := range u.Interacted() {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, a := range ids {
		for _, b := range ids {
			if a == b {
				continue
			}
			if err := c.kv.ZIncrBy(ctx, c.relatedKey(a), 1, b); err != nil {
				return fail("put user", err)
			}
		}
	}
	return nil
}
