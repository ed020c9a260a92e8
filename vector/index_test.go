package vector

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/rankit/core"
)

func TestIndex_Search(t *testing.T) {
	idx := NewIndex(2, MetricCosine)
	require.NoError(t, idx.Add("east", []float64{1, 0}))
	require.NoError(t, idx.Add("north", []float64{0, 1}))
	require.NoError(t, idx.Add("northeast", []float64{1, 1}))
	require.NoError(t, idx.Add("east2", []float64{2, 0}))
	assert.Equal(t, 4, idx.Len())

	hits, err := idx.Search([]float64{1, 0}, 3)
	require.NoError(t, err)
	require.Len(t, hits, 3)
	// east 与 east2 同分，按 ID 升序
	assert.Equal(t, "east", hits[0].ID)
	assert.Equal(t, "east2", hits[1].ID)
	assert.Equal(t, "northeast", hits[2].ID)
	assert.InDelta(t, 1.0, hits[0].Score, 1e-9)

	hits, err = idx.Search([]float64{1, 0}, 10, "east", "east2")
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "northeast", hits[0].ID)
	assert.Equal(t, "north", hits[1].ID)
}

func TestIndex_Errors(t *testing.T) {
	idx := NewIndex(0, "")
	require.NoError(t, idx.Add("a", []float64{1, 2, 3}))
	assert.Equal(t, 3, idx.Dimension())

	err := idx.Add("b", []float64{1, 2})
	assert.True(t, core.IsInvalidInput(err))
	assert.True(t, core.IsInvalidInput(idx.Add("", []float64{1, 2, 3})))
	assert.True(t, core.IsInvalidInput(idx.Add("c", nil)))

	_, err = idx.Search([]float64{1}, 1)
	assert.True(t, core.IsInvalidInput(err))

	hits, err := idx.Search([]float64{1, 2, 3}, 0)
	assert.NoError(t, err)
	assert.Empty(t, hits)

	idx.Remove("a")
	assert.Equal(t, 0, idx.Len())
}

type poolStore struct {
	core.ItemStore
	items []*core.Item
}

func (s *poolStore) PopularItems(_ context.Context, _ int) ([]core.Neighbor, error) {
	out := make([]core.Neighbor, len(s.items))
	for i, it := range s.items {
		out[i] = core.Neighbor{ID: it.ID, Score: it.Popularity}
	}
	return out, nil
}

func (s *poolStore) GetItems(_ context.Context, _ []string) ([]*core.Item, error) {
	return s.items, nil
}

func TestBuildIndex(t *testing.T) {
	s := &poolStore{items: []*core.Item{
		{ID: "a", Embedding: []float64{1, 0}},
		{ID: "b", Embedding: []float64{0, 1}},
		{ID: "c"},
		{ID: "d", Embedding: []float64{1, 2, 3}},
	}}
	idx, err := BuildIndex(context.Background(), s, 2, MetricCosine)
	require.NoError(t, err)
	assert.Equal(t, 2, idx.Len())
}
