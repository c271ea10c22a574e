// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// サービス層、ミドルウェア、ワーカーから利用する。
type MetricsCollector interface {
	RecordAccountCreated(superuser bool)
	RecordLoginSuccess()
	RecordLoginFailure()
	RecordFeedItemCreated()
	RecordHTTPStatus(statusCode int)
	RecordRequestLatency(duration time.Duration)
	RecordTokensPurged(count int)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	accountsCreated  *prometheus.CounterVec
	loginSuccess     prometheus.Counter
	loginFail        prometheus.Counter
	feedItemsCreated prometheus.Counter
	httpStatus       *prometheus.CounterVec
	requestLatency   prometheus.Histogram
	tokensPurged     prometheus.Counter
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		accountsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "profiles_accounts_created_total",
			Help: "作成されたアカウントの合計数",
		}, []string{"kind"}),
		loginSuccess: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "profiles_login_success_total",
			Help: "ログイン成功の合計数",
		}),
		loginFail: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "profiles_login_failures_total",
			Help: "ログイン失敗の合計数",
		}),
		feedItemsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "profiles_feed_items_created_total",
			Help: "作成されたステータス投稿の合計数",
		}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "profiles_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		requestLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "profiles_request_latency_seconds",
			Help:    "HTTPリクエストの処理時間（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		tokensPurged: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "profiles_tokens_purged_total",
			Help: "削除された期限切れトークンの合計数",
		}),
	}

	reg.MustRegister(
		c.accountsCreated,
		c.loginSuccess,
		c.loginFail,
		c.feedItemsCreated,
		c.httpStatus,
		c.requestLatency,
		c.tokensPurged,
	)

	return c
}

// RecordAccountCreated はアカウント作成を記録する。
func (c *Collector) RecordAccountCreated(superuser bool) {
	kind := "user"
	if superuser {
		kind = "superuser"
	}
	c.accountsCreated.WithLabelValues(kind).Inc()
}

// RecordLoginSuccess はログイン成功を記録する。
func (c *Collector) RecordLoginSuccess() {
	c.loginSuccess.Inc()
}

// RecordLoginFailure はログイン失敗を記録する。
func (c *Collector) RecordLoginFailure() {
	c.loginFail.Inc()
}

// RecordFeedItemCreated はステータス投稿の作成を記録する。
func (c *Collector) RecordFeedItemCreated() {
	c.feedItemsCreated.Inc()
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordRequestLatency はリクエストの処理時間を記録する。
func (c *Collector) RecordRequestLatency(duration time.Duration) {
	c.requestLatency.Observe(duration.Seconds())
}

// RecordTokensPurged は削除した期限切れトークン数を記録する。
func (c *Collector) RecordTokensPurged(count int) {
	c.tokensPurged.Add(float64(count))
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
