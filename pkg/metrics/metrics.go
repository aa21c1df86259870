// Package metrics 提供 Prometheus 指标集合，使用独立 Registry
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "rentvsbuy"

// Collector 业务指标收集器接口
type Collector interface {
	// RecordHTTPRequest 记录 HTTP 请求
	RecordHTTPRequest(method, path string, statusCode int, duration float64)
	// RecordComparison 记录一次对比模拟，outcome 为 ok / invalid / error
	RecordComparison(outcome string, duration float64, paths int)
	// RecordCache 记录缓存命中情况
	RecordCache(hit bool)
}

// Metrics 指标集合
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	ComparisonsTotal   *prometheus.CounterVec
	ComparisonDuration prometheus.Histogram
	PathsSimulated     prometheus.Counter
	LastPaths          prometheus.Gauge

	CacheLookupsTotal *prometheus.CounterVec
}

// New 创建并注册指标
func New(serviceName string) *Metrics {
	reg := prometheus.NewRegistry()
	constLabels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		registry: reg,
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "http_requests_total",
			Help:        "Total HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   namespace,
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "path"}),
		ComparisonsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "comparisons_total",
			Help:        "Total rent vs buy comparisons by outcome",
			ConstLabels: constLabels,
		}, []string{"outcome"}),
		ComparisonDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace:   namespace,
			Name:        "comparison_duration_seconds",
			Help:        "Comparison simulation duration in seconds",
			ConstLabels: constLabels,
			Buckets:     []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		PathsSimulated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "paths_simulated_total",
			Help:        "Total Monte Carlo paths simulated",
			ConstLabels: constLabels,
		}),
		LastPaths: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "last_comparison_paths",
			Help:        "Number of paths in the most recent comparison",
			ConstLabels: constLabels,
		}),
		CacheLookupsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "cache_lookups_total",
			Help:        "Comparison cache lookups by result",
			ConstLabels: constLabels,
		}, []string{"result"}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.ComparisonsTotal,
		m.ComparisonDuration,
		m.PathsSimulated,
		m.LastPaths,
		m.CacheLookupsTotal,
	)
	return m
}

// Registry 返回指标注册表
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler 返回 Prometheus 抓取端点
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// RecordHTTPRequest 记录 HTTP 请求
func (m *Metrics) RecordHTTPRequest(method, path string, statusCode int, duration float64) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(statusCode)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

// RecordComparison 记录一次对比模拟
func (m *Metrics) RecordComparison(outcome string, duration float64, paths int) {
	m.ComparisonsTotal.WithLabelValues(outcome).Inc()
	if outcome != "ok" {
		return
	}
	m.ComparisonDuration.Observe(duration)
	m.PathsSimulated.Add(float64(paths))
	m.LastPaths.Set(float64(paths))
}

// RecordCache 记录缓存命中情况
func (m *Metrics) RecordCache(hit bool) {
	if hit {
		m.CacheLookupsTotal.WithLabelValues("hit").Inc()
		return
	}
	m.CacheLookupsTotal.WithLabelValues("miss").Inc()
}

// Nop 不记录任何指标，用于 CLI 与测试
type Nop struct{}

func (Nop) RecordHTTPRequest(string, string, int, float64) {}
func (Nop) RecordComparison(string, float64, int)          {}
func (Nop) RecordCache(bool)                               {}
