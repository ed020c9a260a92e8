package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/rankit/metrics"
)

func newTestApp(t *testing.T) *app {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
	viper.Set("config", "../../configs/rankit.yaml")
	viper.Set("fixture", "../../configs/fixture.yaml")
	viper.Set("log-level", "error")

	a, err := newApp(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

type envelope struct {
	Success bool `json:"success"`
	Data    struct {
		Items []struct {
			ID       string             `json:"id"`
			Features map[string]float64 `json:"features"`
		} `json:"items"`
		Total int `json:"total"`
	} `json:"data"`
	Error *struct {
		Code string `json:"code"`
	} `json:"error"`
}

func post(t *testing.T, h http.Handler, path, body string) (int, envelope) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body)))
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec.Code, env
}

func TestRoutes(t *testing.T) {
	h := newTestApp(t).routes()

	tests := []struct {
		name      string
		path      string
		body      string
		status    int
		code      string
		wantTotal int
	}{
		{"discover excludes archived", "/v1/discover", `{"limit":2}`, http.StatusOK, "", 5},
		{"search archived item", "/v1/search", `{"query":"tent"}`, http.StatusOK, "", 0},
		{"search with filters", "/v1/search", `{"query":"running","filters":{"brand":["acme"]}}`, http.StatusOK, "", 3},
		{"recommend without user", "/v1/recommend", `{}`, http.StatusBadRequest, "INVALID_INPUT", 0},
		{"recommend unknown seed", "/v1/recommend", `{"userId":"u1","basedOn":"nope"}`, http.StatusNotFound, "NOT_FOUND", 0},
		{"malformed body", "/v1/discover", `{`, http.StatusBadRequest, "INVALID_INPUT", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, env := post(t, h, tt.path, tt.body)
			assert.Equal(t, tt.status, status)
			if tt.code != "" {
				assert.False(t, env.Success)
				require.NotNil(t, env.Error)
				assert.Equal(t, tt.code, env.Error.Code)
				return
			}
			assert.True(t, env.Success)
			assert.Equal(t, tt.wantTotal, env.Data.Total)
			assert.NotNil(t, env.Data.Items)
		})
	}
}

func TestRoutes_RecommendExplain(t *testing.T) {
	h := newTestApp(t).routes()

	status, env := post(t, h, "/v1/recommend?explain=true", `{"userId":"u1","limit":3,"diversityFactor":0.5}`)
	require.Equal(t, http.StatusOK, status)
	require.NotEmpty(t, env.Data.Items)
	assert.LessOrEqual(t, len(env.Data.Items), 3)
	for _, it := range env.Data.Items {
		assert.NotEqual(t, "shoe-1", it.ID, "interacted items are excluded")
		assert.NotEqual(t, "sock-1", it.ID, "interacted items are excluded")
		assert.NotEqual(t, "tent-1", it.ID, "archived items are excluded")
		assert.Contains(t, it.Features, "category_affinity")
	}
}

func TestRoutes_Metrics(t *testing.T) {
	a := newTestApp(t)
	h := a.routes()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code, "metrics are disabled in the sample config")

	a.metrics = metrics.NewRecorder(metrics.DefaultConfig())
	rec = httptest.NewRecorder()
	a.routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
