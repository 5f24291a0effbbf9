package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/accountd/internal/metrics"
)

// NewMetricsMiddleware はリクエストごとにメトリクスを記録するミドルウェアを返す。
// パスラベルにはchiのルートパターンを使用し、パスパラメータによる
// ラベルの増殖を防ぐ。
func NewMetricsMiddleware(recorder metrics.RequestRecorder) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			rec := &statusRecorder{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}

			next.ServeHTTP(rec, r)

			path := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if pattern := rctx.RoutePattern(); pattern != "" {
					path = pattern
				}
			}

			recorder.RecordRequest(r.Method, path, rec.statusCode, time.Since(start))
		})
	}
}
