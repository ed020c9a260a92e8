package model

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinear_Predict(t *testing.T) {
	tests := []struct {
		name     string
		model    *Linear
		features map[string]float64
		want     float64
	}{
		{
			name:     "weighted sum with bias",
			model:    &Linear{Bias: 0.5, Weights: map[string]float64{"match": 1, "popularity": 0.1}},
			features: map[string]float64{"match": 0.8, "popularity": 2},
			want:     0.5 + 0.8 + 0.2,
		},
		{
			name:     "unknown features are ignored",
			model:    &Linear{Weights: map[string]float64{"match": 2}},
			features: map[string]float64{"match": 1, "other": 100},
			want:     2,
		},
		{
			name:     "logistic at zero",
			model:    &Linear{Logistic: true, Weights: map[string]float64{"match": 1}},
			features: map[string]float64{"match": 0},
			want:     0.5,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.model.Predict(tt.features)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}
}

func TestLinear_NonFinite(t *testing.T) {
	m := &Linear{Weights: map[string]float64{"match": 1}}
	_, err := m.Predict(map[string]float64{"match": math.NaN()})
	assert.Error(t, err)
	_, err = m.Predict(map[string]float64{"match": math.Inf(1)})
	assert.Error(t, err)
}

func TestLinear_Name(t *testing.T) {
	assert.Equal(t, "linear", (&Linear{}).Name())
	assert.Equal(t, "lr", (&Linear{Logistic: true}).Name())
	var _ RankModel = (*Linear)(nil)
}

func TestLoadLinear(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "model.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"bias":0.1,"weights":{"match":1.5},"logistic":true}`), 0o600))

	m, err := LoadLinear(path)
	require.NoError(t, err)
	assert.Equal(t, 0.1, m.Bias)
	assert.Equal(t, map[string]float64{"match": 1.5}, m.Weights)
	assert.True(t, m.Logistic)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{`), 0o600))
	_, err = LoadLinear(bad)
	assert.Error(t, err)

	_, err = LoadLinear(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}
