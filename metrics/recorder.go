// Package metrics 以 Prometheus 格式导出引擎指标。
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "rankit"

// Recorder 记录请求数、请求耗时、各阶段耗时、候选数与缓存事件。
// nil *Recorder 的所有方法都是空操作。
type Recorder struct {
	registry *prometheus.Registry

	requests     *prometheus.CounterVec
	latency      *prometheus.HistogramVec
	stageLatency *prometheus.HistogramVec
	candidates   *prometheus.HistogramVec
	cacheEvents  *prometheus.CounterVec
}

// Config 配置 Recorder。
type Config struct {
	// Registry 为空时新建
	Registry *prometheus.Registry

	// LatencyBuckets 耗时直方图分桶（秒）
	LatencyBuckets []float64
}

func DefaultConfig() Config {
	return Config{
		LatencyBuckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}
}

// NewRecorder 创建并注册全部指标。
func NewRecorder(cfg Config) *Recorder {
	if len(cfg.LatencyBuckets) == 0 {
		cfg.LatencyBuckets = DefaultConfig().LatencyBuckets
	}
	registry := cfg.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	r := &Recorder{registry: registry}
	r.requests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "requests_total",
			Help:      "Total number of ranking requests",
		},
		[]string{"mode", "status"},
	)
	r.latency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "request_seconds",
			Help:      "Ranking request latency in seconds",
			Buckets:   cfg.LatencyBuckets,
		},
		[]string{"mode"},
	)
	r.stageLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "stage_seconds",
			Help:      "Time spent in each request stage in seconds",
			Buckets:   cfg.LatencyBuckets,
		},
		[]string{"mode", "stage"},
	)
	r.candidates = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "candidates",
			Help:      "Number of candidates produced by retrieval",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 11),
		},
		[]string{"mode"},
	)
	r.cacheEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "events_total",
			Help:      "Pool cache lookups by result",
		},
		[]string{"result"},
	)

	registry.MustRegister(r.requests, r.latency, r.stageLatency, r.candidates, r.cacheEvents)
	return r
}

// RecordRequest 记录一次请求。status 为 ok 或错误代码。
func (r *Recorder) RecordRequest(mode, status string, latency time.Duration) {
	if r == nil {
		return
	}
	r.requests.WithLabelValues(mode, status).Inc()
	r.latency.WithLabelValues(mode).Observe(latency.Seconds())
}

// RecordStage 记录一个阶段的耗时。
func (r *Recorder) RecordStage(mode, stage string, d time.Duration) {
	if r == nil {
		return
	}
	r.stageLatency.WithLabelValues(mode, stage).Observe(d.Seconds())
}

// RecordCandidates 记录召回候选数。
func (r *Recorder) RecordCandidates(mode string, n int) {
	if r == nil {
		return
	}
	r.candidates.WithLabelValues(mode).Observe(float64(n))
}

// RecordCacheEvent 记录缓存事件：hit / miss / error。
func (r *Recorder) RecordCacheEvent(result string) {
	if r == nil {
		return
	}
	r.cacheEvents.WithLabelValues(result).Inc()
}

// Registry 返回底层 registry。
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// Handler 返回 /metrics HTTP handler。
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
