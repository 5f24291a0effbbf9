// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RequestRecorder はHTTPリクエストメトリクス記録のインターフェース。
// ミドルウェアから利用する。
type RequestRecorder interface {
	RecordRequest(method, path string, statusCode int, duration time.Duration)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "accountd_http_requests_total",
			Help: "HTTPリクエストの合計数（メソッド・パス・ステータス別）",
		}, []string{"method", "path", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "accountd_http_request_duration_seconds",
			Help:    "HTTPリクエストの処理時間（秒）",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
	}

	reg.MustRegister(
		c.requests,
		c.duration,
	)

	return c
}

// RecordRequest は1リクエスト分のカウンタとレイテンシを記録する。
// pathにはカーディナリティを抑えるためルートパターン（/users/{id}等）を渡すこと。
func (c *Collector) RecordRequest(method, path string, statusCode int, duration time.Duration) {
	c.requests.WithLabelValues(method, path, strconv.Itoa(statusCode)).Inc()
	c.duration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// SetupMetricsRoute は/metricsエンドポイント用のハンドラーを返す。
func SetupMetricsRoute(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// compile-time interface check
var _ RequestRecorder = (*Collector)(nil)
