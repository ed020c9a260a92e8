package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/rankit/core"
)

func testCatalog(t *testing.T) (*Catalog, *MemoryStore) {
	t.Helper()
	ctx := context.Background()
	kv := NewMemoryStore()
	t.Cleanup(func() { _ = kv.Close() })

	items := []*core.Item{
		{ID: "a", Title: "Trail Running Shoe", Categories: []string{"shoes"}, Popularity: 10},
		{ID: "b", Title: "Road Shoe", Categories: []string{"shoes"}, Popularity: 20},
		{ID: "c", Title: "Wool Sock", Categories: []string{"socks"}, Attributes: map[string]string{"color": "red"}, Popularity: 5},
	}
	users := []*core.UserProfile{
		{UserID: "u1", Interactions: []core.Interaction{{ItemID: "a"}, {ItemID: "b"}}},
		{UserID: "u2", Interactions: []core.Interaction{{ItemID: "a"}, {ItemID: "b"}, {ItemID: "c"}}},
	}
	require.NoError(t, LoadCatalog(ctx, kv, "t", items, users))
	return NewCatalog(kv, "t"), kv
}

func ids(ns []core.Neighbor) []string {
	out := make([]string, len(ns))
	for i, n := range ns {
		out[i] = n.ID
	}
	return out
}

func TestCatalog_Items(t *testing.T) {
	ctx := context.Background()
	c, _ := testCatalog(t)

	it, err := c.GetItem(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "Trail Running Shoe", it.Title)

	_, err = c.GetItem(ctx, "zzz")
	assert.True(t, core.IsNotFound(err))

	items, err := c.GetItems(ctx, []string{"c", "missing", "a"})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "c", items[0].ID)
	assert.Equal(t, "a", items[1].ID)
}

func TestCatalog_UserProfile(t *testing.T) {
	ctx := context.Background()
	c, _ := testCatalog(t)

	p, err := c.GetUserProfile(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, p.Interactions, 2)

	unknown, err := c.GetUserProfile(ctx, "ghost")
	require.NoError(t, err)
	assert.Equal(t, "ghost", unknown.UserID)
	assert.Empty(t, unknown.Interactions)
}

func TestCatalog_Indexes(t *testing.T) {
	ctx := context.Background()
	c, _ := testCatalog(t)

	popular, err := c.PopularItems(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a", "c"}, ids(popular))

	top, err := c.PopularItems(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, ids(top))

	shoes, err := c.CategoryItems(ctx, "shoes", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, ids(shoes))

	related, err := c.RelatedItems(ctx, "a", 0)
	require.NoError(t, err)
	assert.Equal(t, []core.Neighbor{{ID: "b", Score: 2}, {ID: "c", Score: 1}}, related)

	matched, err := c.MatchTokens(ctx, []string{"shoe"}, 0)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b"}, ids(matched))

	red, err := c.MatchTokens(ctx, []string{"red"}, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"c"}, ids(red))

	none, err := c.MatchTokens(ctx, []string{"tent"}, 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestCatalog_CorruptRecord(t *testing.T) {
	ctx := context.Background()
	c, kv := testCatalog(t)
	require.NoError(t, kv.Set(ctx, "t:item:bad", []byte("{not json")))

	_, err := c.GetItem(ctx, "bad")
	assert.True(t, core.IsStoreUnavailable(err))

	_, err = c.GetItems(ctx, []string{"a", "bad"})
	assert.True(t, core.IsStoreUnavailable(err))
}

func TestCatalog_CanceledContext(t *testing.T) {
	c, _ := testCatalog(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.GetItem(ctx, "a")
	assert.True(t, core.IsTimeout(err))
	_, err = c.PopularItems(ctx, 0)
	assert.True(t, core.IsTimeout(err))
}

func TestLoadCatalog_RejectsMissingID(t *testing.T) {
	kv := NewMemoryStore()
	defer kv.Close()

	err := LoadCatalog(context.Background(), kv, "t", []*core.Item{{Title: "no id"}}, nil)
	assert.True(t, core.IsInvalidInput(err))

	err = LoadCatalog(context.Background(), kv, "t", nil, []*core.UserProfile{{}})
	assert.True(t, core.IsInvalidInput(err))
}

func TestReadFixture(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixture.yaml")
	data := []byte(`
items:
  - id: x1
    title: Blue Jacket
    categories: [outerwear]
    popularity: 3
users:
  - user_id: u9
    interactions:
      - item_id: x1
`)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	fx, err := ReadFixture(path)
	require.NoError(t, err)
	require.Len(t, fx.Items, 1)
	assert.Equal(t, "x1", fx.Items[0].ID)
	assert.Equal(t, []string{"outerwear"}, fx.Items[0].Categories)
	require.Len(t, fx.Users, 1)
	assert.Equal(t, "u9", fx.Users[0].UserID)

	_, err = ReadFixture(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestCatalog_TopKTiesByIDAcrossBackends(t *testing.T) {
	backends := []struct {
		name string
		kv   func(t *testing.T) core.KeyValueStore
	}{
		{"memory", func(t *testing.T) core.KeyValueStore {
			kv := NewMemoryStore()
			t.Cleanup(func() { _ = kv.Close() })
			return kv
		}},
		{"redis", func(t *testing.T) core.KeyValueStore {
			s, _ := newTestRedis(t, RedisOptions{})
			return s
		}},
	}

	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			ctx := context.Background()
			kv := b.kv(t)
			require.NoError(t, kv.ZAdd(ctx, "t:popular", 100, "top"))
			require.NoError(t, kv.ZAdd(ctx, "t:popular", 1, "low"))
			for i := 0; i < 70; i++ {
				require.NoError(t, kv.ZAdd(ctx, "t:popular", 10, fmt.Sprintf("m%03d", i)))
			}
			c := NewCatalog(kv, "t")

			top, err := c.PopularItems(ctx, 3)
			require.NoError(t, err)
			assert.Equal(t, []string{"top", "m000", "m001"}, ids(top))

			all, err := c.PopularItems(ctx, 0)
			require.NoError(t, err)
			require.Len(t, all, 72)
			assert.Equal(t, "m000", all[1].ID)
			assert.Equal(t, "m069", all[70].ID)
			assert.Equal(t, "low", all[71].ID)
		})
	}
}
