package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/accountd/internal/metrics"
	"github.com/hitoshi/accountd/internal/middleware"
)

// HealthChecker はヘルスチェックに必要なインターフェース。
// sql.DBの部分集合として定義する。
type HealthChecker interface {
	PingContext(ctx context.Context) error
}

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	Logger        *slog.Logger
	TokenVerifier middleware.TokenVerifier
	Recorder      metrics.RequestRecorder
	Gatherer      prometheus.Gatherer

	// サービス
	AccountService AccountServiceInterface
	TokenService   TokenServiceInterface
	UserService    UserServiceInterface

	// 運用
	HealthChecker HealthChecker
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → Logging → Metrics
//
// 認証が必要なルート（/profile, /refresh-token, /logout）のみ
// ベアラートークン検証ミドルウェアを通す。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	if deps.Logger != nil {
		r.Use(middleware.NewLoggingMiddleware(deps.Logger))
	}
	if deps.Recorder != nil {
		r.Use(middleware.NewMetricsMiddleware(deps.Recorder))
	}

	authHandler := NewAuthHandler(deps.AccountService, deps.TokenService)
	userHandler := NewUserHandler(deps.UserService)

	// --- 認証不要のルート ---

	r.Post("/register", authHandler.Register)
	r.Post("/login", authHandler.Login)

	r.Route("/users/{id}", func(r chi.Router) {
		r.Get("/", userHandler.GetUser)
		r.Put("/", userHandler.UpdateUser)
	})

	// 運用エンドポイント
	if deps.HealthChecker != nil {
		r.Get("/health", healthHandler(deps.HealthChecker))
	}
	if deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", metrics.SetupMetricsRoute(deps.Gatherer))
	}

	// --- 認証が必要なルート ---

	r.Group(func(r chi.Router) {
		r.Use(middleware.NewAuthMiddleware(deps.TokenVerifier))

		r.Get("/profile", authHandler.Profile)
		r.Get("/refresh-token", authHandler.RefreshToken)
		r.Get("/logout", authHandler.Logout)
	})

	return r
}

// healthHandler はDB接続を確認するヘルスチェックハンドラーを返す。
func healthHandler(checker HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := checker.PingContext(ctx); err != nil {
			slog.Error("health check failed", slog.String("error", err.Error()))
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{"status": "unavailable"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
	}
}
