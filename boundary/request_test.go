package boundary

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/rankit/core"
)

var at = time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)

func TestParseRecommend(t *testing.T) {
	req, err := ParseRecommend(map[string]any{"userId": "u1"}, at)
	require.NoError(t, err)
	assert.Equal(t, core.RecommendationRequest{
		UserID:          "u1",
		Limit:           DefaultLimit,
		DiversityFactor: DefaultDiversityFactor,
		At:              at,
	}, req)

	req, err = ParseRecommend(map[string]any{
		"userId":          "u1",
		"basedOn":         "shoe-1",
		"limit":           float64(5),
		"diversityFactor": 0.0,
	}, at)
	require.NoError(t, err)
	assert.Equal(t, "shoe-1", req.BasedOn)
	assert.Equal(t, 5, req.Limit)
	assert.Zero(t, req.DiversityFactor, "explicit zero is not replaced by the default")
}

func TestParseRecommend_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		raw     map[string]any
		message string
	}{
		{"missing user", map[string]any{}, "userId is required"},
		{"limit zero", map[string]any{"userId": "u", "limit": 0}, "limit must be >= 1"},
		{"limit too large", map[string]any{"userId": "u", "limit": 1000}, "limit must be <= 100"},
		{"fractional limit", map[string]any{"userId": "u", "limit": 2.5}, "limit: unexpected type"},
		{"diversity out of range", map[string]any{"userId": "u", "diversityFactor": 1.2}, "diversityFactor must be <= 1"},
		{"wrong type", map[string]any{"userId": 42}, "userId: unexpected type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRecommend(tt.raw, at)
			require.Error(t, err)
			assert.True(t, core.IsInvalidInput(err))
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestParseSearch(t *testing.T) {
	req, err := ParseSearch(map[string]any{
		"query":   "red shoes",
		"filters": map[string]any{"color": []any{"red", "maroon"}, "size": "42"},
		"offset":  "20",
	}, at)
	require.NoError(t, err)
	assert.Equal(t, "red shoes", req.Query)
	assert.Equal(t, core.Filters{"color": {"red", "maroon"}, "size": {"42"}}, req.Filters)
	assert.Equal(t, DefaultLimit, req.Limit)
	assert.Equal(t, 20, req.Offset)
	assert.Zero(t, req.DiversityFactor)

	typed, err := ParseSearch(map[string]any{"filters": map[string][]string{"color": {"red"}}}, at)
	require.NoError(t, err)
	assert.Equal(t, core.Filters{"color": {"red"}}, typed.Filters)

	_, err = ParseSearch(map[string]any{"offset": -1}, at)
	assert.True(t, core.IsInvalidInput(err))

	_, err = ParseSearch(map[string]any{"filters": "color=red"}, at)
	assert.True(t, core.IsInvalidInput(err))

	_, err = ParseSearch(map[string]any{"filters": map[string]any{"color": 7}}, at)
	assert.True(t, core.IsInvalidInput(err))

	_, err = ParseSearch(map[string]any{"filters": map[string]any{" ": []any{"x"}}}, at)
	assert.True(t, core.IsInvalidInput(err))
}

func TestParseDiscover(t *testing.T) {
	req, err := ParseDiscover(map[string]any{}, at)
	require.NoError(t, err)
	assert.Equal(t, core.DiscoverRequest{Limit: DefaultLimit, At: at}, req)

	req, err = ParseDiscover(map[string]any{"userId": "u2", "limit": 3}, at)
	require.NoError(t, err)
	assert.Equal(t, "u2", req.UserID)
	assert.Equal(t, 3, req.Limit)

	_, err = ParseDiscover(map[string]any{"limit": -2}, at)
	assert.True(t, core.IsInvalidInput(err))
}

func TestParseParams(t *testing.T) {
	req, err := ParseDiscover(map[string]any{"params": map[string]any{"region": "eu"}}, at)
	require.NoError(t, err)
	assert.Equal(t, core.Params{"region": "eu"}, req.Params)

	search, err := ParseSearch(map[string]any{"query": "shoe", "params": map[string]string{"channel": "app"}}, at)
	require.NoError(t, err)
	assert.Equal(t, core.Params{"channel": "app"}, search.Params)

	rec, err := ParseRecommend(map[string]any{"userId": "u1", "params": map[string]any{"region": "us"}}, at)
	require.NoError(t, err)
	assert.Equal(t, core.Params{"region": "us"}, rec.Params)

	tests := []struct {
		name    string
		raw     map[string]any
		message string
	}{
		{"not an object", map[string]any{"params": "eu"}, "params: unexpected type"},
		{"non-string value", map[string]any{"params": map[string]any{"region": 1.0}}, "params.region: unexpected type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDiscover(tt.raw, at)
			require.Error(t, err)
			assert.True(t, core.IsInvalidInput(err))
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}
