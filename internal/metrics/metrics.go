// Package metrics はPrometheusのメトリクスを定義する
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	ServiceName = "achart"
)

var (
	LoadDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    prometheus.BuildFQName(ServiceName, "dataset", "load_duration_seconds"),
		Help:    "Duration of dataset loading in seconds",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
	}, []string{"dataset"})
	LoadFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: prometheus.BuildFQName(ServiceName, "dataset", "load_failures_total"),
		Help: "Number of failed dataset loads",
	}, []string{"dataset", "kind"})
	RenderDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    prometheus.BuildFQName(ServiceName, "render", "duration_seconds"),
		Help:    "Duration of chart rendering in seconds",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
	}, []string{"chart", "format"})
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: prometheus.BuildFQName(ServiceName, "cache", "lookups_total"),
		Help: "Aggregation cache lookups by result",
	}, []string{"result"})
	Subscribers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: prometheus.BuildFQName(ServiceName, "web", "subscribers"),
		Help: "Number of connected websocket subscribers",
	})
)

// ObserveLoad は f の所要時間を dataset ラベル付きで記録する
func ObserveLoad(dataset string, f func() error) error {
	start := time.Now()
	defer func() {
		LoadDuration.WithLabelValues(dataset).Observe(time.Since(start).Seconds())
	}()
	return f()
}

// ObserveRender は f の所要時間をグラフ種別と形式ごとに記録する
func ObserveRender(chart, format string, f func() error) error {
	start := time.Now()
	defer func() {
		RenderDuration.WithLabelValues(chart, format).Observe(time.Since(start).Seconds())
	}()
	return f()
}
