package conv

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToInt(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want int
		ok   bool
	}{
		{"nil", nil, 0, false},
		{"int", 5, 5, true},
		{"int64", int64(7), 7, true},
		{"whole float", 10.0, 10, true},
		{"fractional float", 10.5, 0, false},
		{"inf", math.Inf(1), 0, false},
		{"string", " 12 ", 12, true},
		{"bad string", "ten", 0, false},
		{"bool", true, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ToInt(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestToFloat64(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want float64
		ok   bool
	}{
		{"float64", 0.3, 0.3, true},
		{"float32", float32(0.5), 0.5, true},
		{"int", 2, 2, true},
		{"string", "0.25", 0.25, true},
		{"bad string", "x", 0, false},
		{"nil", nil, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ToFloat64(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestToStringAndSlices(t *testing.T) {
	s, ok := ToString("a")
	assert.True(t, ok)
	assert.Equal(t, "a", s)
	_, ok = ToString(3)
	assert.False(t, ok)

	assert.Equal(t, []string{"a", "b"}, SliceAnyToString([]any{"a", 1, "b"}))
	assert.Equal(t, []string{"x"}, SliceAnyToString("x"))
	assert.Equal(t, []string{"p", "q"}, SliceAnyToString([]string{"p", "q"}))
	assert.Nil(t, SliceAnyToString(42))
}

func TestConfigGet(t *testing.T) {
	m := map[string]any{"addr": "localhost:6379", "db": 2}
	assert.Equal(t, "localhost:6379", ConfigGet(m, "addr", ""))
	assert.Equal(t, 2, ConfigGet(m, "db", 0))
	assert.Equal(t, 0, ConfigGet(m, "addr", 0), "type mismatch falls back")
	assert.Equal(t, "dflt", ConfigGet(m, "missing", "dflt"))
	assert.Equal(t, "dflt", ConfigGet[string](nil, "addr", "dflt"))
}
