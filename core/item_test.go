package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func scored(id string, score float64) *ScoredItem {
	it := NewScoredItem(&Item{ID: id})
	it.Score = score
	return it
}

func TestSortByScore(t *testing.T) {
	items := []*ScoredItem{scored("c", 1), scored("b", 2), scored("a", 1), scored("d", 3)}
	SortByScore(items)

	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ID()
	}
	assert.Equal(t, []string{"d", "b", "a", "c"}, ids)
}

func TestCandidateSet_FirstSeenWins(t *testing.T) {
	set := NewCandidateSet(4)

	first := NewScoredItem(&Item{ID: "a", Title: "first"})
	first.MergeSignal("co_interaction", 2)
	second := NewScoredItem(&Item{ID: "a", Title: "second"})
	second.MergeSignal("co_interaction", 5)
	second.MergeSignal("category", 1)

	assert.True(t, set.Add(first))
	assert.True(t, set.Add(NewScoredItem(&Item{ID: "b"})))
	assert.False(t, set.Add(second))
	assert.False(t, set.Add(nil))

	assert.Equal(t, 2, set.Len())
	assert.Equal(t, []string{"a", "b"}, set.IDs())
	assert.True(t, set.Contains("b"))
	assert.False(t, set.Contains("z"))

	got := set.Items()[0]
	assert.Equal(t, "first", got.Item.Title)
	assert.Equal(t, 5.0, got.Signals["co_interaction"])
	assert.Equal(t, 1.0, got.Signals["category"])
}

func TestItem_HasCategory(t *testing.T) {
	it := &Item{ID: "x", Categories: []string{"a", "b"}}
	assert.True(t, it.HasCategory("b"))
	assert.False(t, it.HasCategory("c"))
}
