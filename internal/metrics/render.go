package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 渲染类型标签。
const (
	KindExport  = "export"
	KindPreview = "preview"
)

var (
	renderDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "render",
			Name:      "duration_seconds",
			Help:      "简历渲染耗时分布（秒）。",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
		[]string{"kind"},
	)

	renderPages = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "render",
			Name:      "pages",
			Help:      "每次导出的页数。",
			Buckets:   []float64{1, 2, 3, 4, 6, 8},
		},
	)

	renderWarnings = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "render",
			Name:      "warnings_total",
			Help:      "渲染降级告警次数。",
		},
		[]string{"code"},
	)
)

// ObserveRender 记录一次渲染的耗时、页数（导出时）与告警代码。
func ObserveRender(kind string, start time.Time, pages int, warningCodes []string) {
	renderDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
	if kind == KindExport && pages > 0 {
		renderPages.Observe(float64(pages))
	}
	for _, code := range warningCodes {
		renderWarnings.WithLabelValues(code).Inc()
	}
}
