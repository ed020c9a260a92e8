package core

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecommendationRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     RecommendationRequest
		wantErr bool
	}{
		{name: "valid", req: RecommendationRequest{UserID: "u1", Limit: 10, DiversityFactor: 0.3}},
		{name: "bounds inclusive", req: RecommendationRequest{UserID: "u1", Limit: MaxLimit, DiversityFactor: 1}},
		{name: "missing user", req: RecommendationRequest{Limit: 10}, wantErr: true},
		{name: "blank user", req: RecommendationRequest{UserID: "  ", Limit: 10}, wantErr: true},
		{name: "zero limit", req: RecommendationRequest{UserID: "u1", Limit: 0}, wantErr: true},
		{name: "negative limit", req: RecommendationRequest{UserID: "u1", Limit: -1}, wantErr: true},
		{name: "limit too large", req: RecommendationRequest{UserID: "u1", Limit: MaxLimit + 1}, wantErr: true},
		{name: "diversity above 1", req: RecommendationRequest{UserID: "u1", Limit: 5, DiversityFactor: 1.5}, wantErr: true},
		{name: "diversity negative", req: RecommendationRequest{UserID: "u1", Limit: 5, DiversityFactor: -0.1}, wantErr: true},
		{name: "diversity NaN", req: RecommendationRequest{UserID: "u1", Limit: 5, DiversityFactor: math.NaN()}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, IsInvalidInput(err))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestSearchRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     SearchRequest
		wantErr bool
	}{
		{name: "empty query is valid", req: SearchRequest{Limit: 10}},
		{name: "with filters", req: SearchRequest{Query: "shoe", Limit: 10, Offset: 20, Filters: Filters{"color": {"red"}}}},
		{name: "negative offset", req: SearchRequest{Limit: 10, Offset: -1}, wantErr: true},
		{name: "zero limit", req: SearchRequest{Limit: 0}, wantErr: true},
		{name: "empty filter name", req: SearchRequest{Limit: 10, Filters: Filters{"": {"x"}}}, wantErr: true},
		{name: "diversity out of range", req: SearchRequest{Limit: 10, DiversityFactor: 2}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				assert.True(t, IsInvalidInput(err))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestDiscoverRequest_Validate(t *testing.T) {
	assert.NoError(t, DiscoverRequest{Limit: 3}.Validate())
	assert.NoError(t, DiscoverRequest{UserID: "u1", Limit: 3}.Validate())
	assert.True(t, IsInvalidInput(DiscoverRequest{Limit: 0}.Validate()))
}

func TestFilters_Match(t *testing.T) {
	item := &Item{
		ID:         "i1",
		Categories: []string{"shoes", "running"},
		Attributes: map[string]string{"color": "red", "brand": "acme"},
	}
	tests := []struct {
		name    string
		filters Filters
		want    bool
	}{
		{name: "no filters", filters: nil, want: true},
		{name: "single match", filters: Filters{"color": {"red"}}, want: true},
		{name: "or within attribute", filters: Filters{"color": {"blue", "red"}}, want: true},
		{name: "and across attributes", filters: Filters{"color": {"red"}, "brand": {"acme"}}, want: true},
		{name: "and fails on one attribute", filters: Filters{"color": {"red"}, "brand": {"zoom"}}, want: false},
		{name: "missing attribute", filters: Filters{"size": {"42"}}, want: false},
		{name: "category tag", filters: Filters{"category": {"running"}}, want: true},
		{name: "category tag miss", filters: Filters{"category": {"hiking"}}, want: false},
		{name: "empty accepted set is ignored", filters: Filters{"color": {}}, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filters.Match(item))
		})
	}
	assert.False(t, Filters{}.Match(nil))
}

func TestFilters_Names(t *testing.T) {
	f := Filters{"color": {"red"}, "brand": {"acme"}, "category": {"x"}}
	assert.Equal(t, []string{"brand", "category", "color"}, f.Names())
}
