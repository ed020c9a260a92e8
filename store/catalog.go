package store

import (
	"context"
	"fmt"
	"sort"

	"github.com/goccy/go-json"

	"github.com/rushteam/rankit/core"
)

// Catalog 是基于 core.KeyValueStore 的物品目录适配器，实现 core.ItemStore。
//
// Key 布局（{p} 为 KeyPrefix）：
//   - {p}:item:{id}         物品记录（JSON）
//   - {p}:user:{id}         用户画像（JSON）
//   - {p}:related:{id}      共现物品（zset，分数为共现次数）
//   - {p}:category:{name}   类别物品（zset，分数为热度）
//   - {p}:token:{token}     倒排索引（zset，分数为词权重）
//   - {p}:popular           热门池（zset，分数为热度）
//
// 记录无法解码视为存储返回损坏数据，映射为 STORE_UNAVAILABLE。
type Catalog struct {
	kv core.KeyValueStore

	KeyPrefix string
}

// NewCatalog 创建目录适配器。keyPrefix 为空时使用 "rankit"。
func NewCatalog(kv core.KeyValueStore, keyPrefix string) *Catalog {
	if keyPrefix == "" {
		keyPrefix = "rankit"
	}
	return &Catalog{kv: kv, KeyPrefix: keyPrefix}
}

func (c *Catalog) Name() string { return "catalog:" + c.kv.Name() }

func (c *Catalog) itemKey(id string) string      { return c.KeyPrefix + ":item:" + id }
func (c *Catalog) userKey(id string) string      { return c.KeyPrefix + ":user:" + id }
func (c *Catalog) relatedKey(id string) string   { return c.KeyPrefix + ":related:" + id }
func (c *Catalog) categoryKey(cat string) string { return c.KeyPrefix + ":category:" + cat }
func (c *Catalog) tokenKey(token string) string  { return c.KeyPrefix + ":token:" + token }
func (c *Catalog) popularKey() string            { return c.KeyPrefix + ":popular" }

// fail 归一化底层错误：领域错误原样返回，其它错误视为存储不可用。
func fail(op string, err error) error {
	if err == nil {
		return nil
	}
	if core.IsDomainError(err) {
		return err
	}
	if ctxErr := core.FromContext(err); core.IsTimeout(ctxErr) {
		return ctxErr
	}
	return core.StoreUnavailable("catalog: "+op, err)
}

func checkContext(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return core.FromContext(err)
	}
	return nil
}

func (c *Catalog) GetItem(ctx context.Context, id string) (*core.Item, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}
	data, err := c.kv.Get(ctx, c.itemKey(id))
	if err != nil {
		if core.IsStoreNotFound(err) {
			return nil, core.NewDomainError(core.ModuleStore, core.ErrorCodeNotFound, fmt.Sprintf("item %q not found", id))
		}
		return nil, fail("get item", err)
	}
	return decodeItem(id, data)
}

func decodeItem(id string, data []byte) (*core.Item, error) {
	var item core.Item
	if err := json.Unmarshal(data, &item); err != nil {
		return nil, core.StoreUnavailable(fmt.Sprintf("catalog: corrupt item record %q", id), err)
	}
	if item.ID == "" {
		item.ID = id
	}
	return &item, nil
}

func (c *Catalog) GetItems(ctx context.Context, ids []string) ([]*core.Item, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = c.itemKey(id)
	}
	raw, err := c.kv.BatchGet(ctx, keys)
	if err != nil {
		return nil, fail("get items", err)
	}

	out := make([]*core.Item, 0, len(ids))
	for i, id := range ids {
		data, ok := raw[keys[i]]
		if !ok {
			continue
		}
		item, err := decodeItem(id, data)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

func (c *Catalog) GetUserProfile(ctx context.Context, userID string) (*core.UserProfile, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}
	data, err := c.kv.Get(ctx, c.userKey(userID))
	if err != nil {
		if core.IsStoreNotFound(err) {
			return core.NewUserProfile(userID), nil
		}
		return nil, fail("get user profile", err)
	}
	var profile core.UserProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, core.StoreUnavailable(fmt.Sprintf("catalog: corrupt user record %q", userID), err)
	}
	if profile.UserID == "" {
		profile.UserID = userID
	}
	return &profile, nil
}

// tieChunk 是补读边界同分成员时每批读取的数量。
const tieChunk = 64

// zrange 按分数降序返回前 topK 个成员，分数相同按 ID 升序。
// 后端对同分成员的顺序不作约束（Redis ZREVRANGE 为 member 降序），
// 因此截断位置落在同分区间内时会补读该区间，再按 ID 升序截断。
func (c *Catalog) zrange(ctx context.Context, op, key string, topK int) ([]core.Neighbor, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}
	stop := int64(-1)
	if topK > 0 {
		stop = int64(topK) - 1
	}
	out, err := c.kv.ZRangeWithScores(ctx, key, 0, stop)
	if err != nil {
		return nil, fail(op, err)
	}

	if topK > 0 && len(out) == topK {
		boundary := out[len(out)-1].Score
		for start := int64(topK); ; start += tieChunk {
			more, err := c.kv.ZRangeWithScores(ctx, key, start, start+tieChunk-1)
			if err != nil {
				return nil, fail(op, err)
			}
			n := 0
			for _, nb := range more {
				if nb.Score != boundary {
					break
				}
				out = append(out, nb)
				n++
			}
			if n < tieChunk {
				break
			}
		}
	}

	sortNeighbors(out)
	if topK > 0 && len(out) > topK {
		out = out[:topK]
	}
	return out, nil
}

func sortNeighbors(out []core.Neighbor) {
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].ID < out[j].ID
	})
}

func (c *Catalog) RelatedItems(ctx context.Context, itemID string, topK int) ([]core.Neighbor, error) {
	return c.zrange(ctx, "related items", c.relatedKey(itemID), topK)
}

func (c *Catalog) CategoryItems(ctx context.Context, category string, topK int) ([]core.Neighbor, error) {
	return c.zrange(ctx, "category items", c.categoryKey(category), topK)
}

func (c *Catalog) PopularItems(ctx context.Context, topK int) ([]core.Neighbor, error) {
	return c.zrange(ctx, "popular items", c.popularKey(), topK)
}

// MatchTokens 合并各 token 的倒排列表，分数累加；分数相同按 ID 升序。
func (c *Catalog) MatchTokens(ctx context.Context, tokens []string, topK int) ([]core.Neighbor, error) {
	acc := make(map[string]float64)
	for _, tok := range tokens {
		postings, err := c.zrange(ctx, "match tokens", c.tokenKey(tok), 0)
		if err != nil {
			return nil, err
		}
		for _, p := range postings {
			acc[p.ID] += p.Score
		}
	}

	out := make([]core.Neighbor, 0, len(acc))
	for id, score := range acc {
		out = append(out, core.Neighbor{ID: id, Score: score})
	}
	sortNeighbors(out)
	if topK > 0 && len(out) > topK {
		out = out[:topK]
	}
	return out, nil
}

var _ core.ItemStore = (*Catalog)(nil)
