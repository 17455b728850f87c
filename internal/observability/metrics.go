package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "crimestats"

// Metrics 服务的 Prometheus 指标
type Metrics struct {
	HTTPRequests *prometheus.CounterVec   // labels: method, route, status
	HTTPDuration *prometheus.HistogramVec // labels: method, route

	ExportedRows prometheus.Counter
	DatasetRows  *prometheus.GaugeVec // labels: table
}

// NewMetrics 创建指标并注册到默认 registry（进程内只能调用一次）
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.HTTPRequests,
		m.HTTPDuration,
		m.ExportedRows,
		m.DatasetRows,
	)
	return m
}

// NewMetricsForTesting 创建不注册的指标，避免多个测试重复注册 panic
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency in seconds.",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"method", "route"}),
		ExportedRows: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exported_rows_total",
			Help:      "Crime rows streamed by the raw CSV export.",
		}),
		DatasetRows: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dataset_rows",
			Help:      "Rows per table in the most recently loaded dataset.",
		}, []string{"table"}),
	}
}

// SetDatasetRows 记录最近一次导入的各表行数
func (m *Metrics) SetDatasetRows(categories, months, areas, crimes int) {
	m.DatasetRows.WithLabelValues("crime_types").Set(float64(categories))
	m.DatasetRows.WithLabelValues("crime_times").Set(float64(months))
	m.DatasetRows.WithLabelValues("locations").Set(float64(areas))
	m.DatasetRows.WithLabelValues("crimes").Set(float64(crimes))
}
