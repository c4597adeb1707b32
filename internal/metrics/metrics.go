// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// 認証操作名
const (
	OperationSignup         = "signup"
	OperationLogin          = "login"
	OperationGoogleLogin    = "google_login"
	OperationUpdateInternID = "update_intern_id"
)

// 認証操作の結果
const (
	OutcomeSuccess         = "success"
	OutcomeNewUser         = "new_user"
	OutcomeValidationError = "validation_error"
	OutcomeAuthError       = "auth_error"
	OutcomeInternalError   = "internal_error"
)

// MetricsCollector はメトリクス収集のインターフェース。
// サービス層やミドルウェアから利用する。
type MetricsCollector interface {
	RecordAuthOutcome(operation, outcome string)
	RecordAccountUpsert(kind string)
	RecordTokenIssued()
	RecordHTTPStatus(statusCode int)
	RecordHashLatency(duration time.Duration)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	authOutcomes   *prometheus.CounterVec
	accountUpserts *prometheus.CounterVec
	tokensIssued   prometheus.Counter
	httpStatus     *prometheus.CounterVec
	hashLatency    prometheus.Histogram
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		authOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "internauth_auth_requests_total",
			Help: "認証操作ごとの結果別リクエスト数",
		}, []string{"operation", "outcome"}),
		accountUpserts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "internauth_account_upserts_total",
			Help: "インターンID更新で作成・上書きされたアカウント数",
		}, []string{"kind"}),
		tokensIssued: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "internauth_tokens_issued_total",
			Help: "発行したセッショントークンの合計数",
		}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "internauth_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		hashLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "internauth_password_hash_seconds",
			Help:    "パスワードハッシュ計算のレイテンシ（秒）",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
	}

	reg.MustRegister(
		c.authOutcomes,
		c.accountUpserts,
		c.tokensIssued,
		c.httpStatus,
		c.hashLatency,
	)

	return c
}

// RecordAuthOutcome は認証操作の結果を記録する。
func (c *Collector) RecordAuthOutcome(operation, outcome string) {
	c.authOutcomes.WithLabelValues(operation, outcome).Inc()
}

// RecordAccountUpsert はアカウントの作成・上書きを記録する。
func (c *Collector) RecordAccountUpsert(kind string) {
	c.accountUpserts.WithLabelValues(kind).Inc()
}

// RecordTokenIssued はトークン発行を記録する。
func (c *Collector) RecordTokenIssued() {
	c.tokensIssued.Inc()
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordHashLatency はパスワードハッシュ計算のレイテンシを記録する。
func (c *Collector) RecordHashLatency(duration time.Duration) {
	c.hashLatency.Observe(duration.Seconds())
}

// NopCollector は何も記録しないMetricsCollector。
type NopCollector struct{}

func (NopCollector) RecordAuthOutcome(string, string) {}
func (NopCollector) RecordAccountUpsert(string) {}
func (NopCollector) RecordTokenIssued() {}
func (NopCollector) RecordHTTPStatus(int) {}
func (NopCollector) RecordHashLatency(time.Duration) {}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// NewHTTPStatusMiddleware はレスポンスのステータスコードを記録するミドルウェアを返す。
func NewHTTPStatusMiddleware(collector MetricsCollector) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(rec, r)
			collector.RecordHTTPStatus(rec.statusCode)
		})
	}
}

// statusRecorder はhttp.ResponseWriterをラップし、ステータスコードを記録する。
type statusRecorder struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func (sr *statusRecorder) WriteHeader(code int) {
	if !sr.written {
		sr.statusCode = code
		sr.written = true
	}
	sr.ResponseWriter.WriteHeader(code)
}

func (sr *statusRecorder) Write(b []byte) (int, error) {
	if !sr.written {
		sr.statusCode = http.StatusOK
		sr.written = true
	}
	return sr.ResponseWriter.Write(b)
}

// compile-time interface checks
var _ MetricsCollector = (*Collector)(nil)
var _ MetricsCollector = NopCollector{}
