package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder(t *testing.T) {
	r := NewRecorder(DefaultConfig())

	r.RecordRequest("recommend", "ok", 20*time.Millisecond)
	r.RecordRequest("recommend", "ok", 30*time.Millisecond)
	r.RecordRequest("search", "TIMEOUT", time.Second)
	r.RecordStage("recommend", "scoring", time.Millisecond)
	r.RecordCandidates("recommend", 42)
	r.RecordCacheEvent("hit")
	r.RecordCacheEvent("miss")
	r.RecordCacheEvent("hit")

	assert.Equal(t, 2.0, testutil.ToFloat64(r.requests.WithLabelValues("recommend", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.requests.WithLabelValues("search", "TIMEOUT")))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.cacheEvents.WithLabelValues("hit")))
	assert.Equal(t, 1, testutil.CollectAndCount(r.stageLatency))
	assert.Equal(t, 1, testutil.CollectAndCount(r.candidates))

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `rankit_engine_requests_total{mode="recommend",status="ok"} 2`))
	assert.Contains(t, body, "rankit_cache_events_total")
}

func TestRecorder_Nil(t *testing.T) {
	var r *Recorder
	assert.NotPanics(t, func() {
		r.RecordRequest("recommend", "ok", time.Millisecond)
		r.RecordStage("recommend", "scoring", time.Millisecond)
		r.RecordCandidates("recommend", 1)
		r.RecordCacheEvent("hit")
	})
	assert.Nil(t, r.Registry())

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
