package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/hitoshi/profiles/internal/middleware"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	Logger            *slog.Logger
	Authenticator     middleware.TokenAuthenticator
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	HTTPMetrics       middleware.HTTPRecorder // nilの場合は記録しない
	MetricsHandler    http.Handler            // nilの場合は/metricsを公開しない
	HealthChecker     HealthChecker

	ProfileService ProfileServiceInterface
	AuthService    AuthServiceInterface
	FeedService    FeedItemServiceInterface
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → RealIP → StripSlashes → Logging → Metrics → SecurityHeaders → CORS
//
// 登録とログインはIP単位のレート制限、それ以外はトークン認証の後にアカウント単位のレート制限を適用する。
// パスは末尾スラッシュの有無を問わない。
func NewRouter(deps *RouterDeps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(chimw.RealIP)
	r.Use(chimw.StripSlashes)
	r.Use(middleware.NewLoggingMiddleware(logger))
	if deps.HTTPMetrics != nil {
		r.Use(middleware.NewMetricsMiddleware(deps.HTTPMetrics))
	}
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))

	profileHandler := NewProfileHandler(deps.ProfileService)
	authHandler := NewAuthHandler(deps.AuthService)
	feedHandler := NewFeedHandler(deps.FeedService)

	// --- 運用エンドポイント ---
	r.Get("/health", NewHealthHandler(deps.HealthChecker))
	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	// --- 認証不要のルート ---
	r.Group(func(r chi.Router) {
		r.Use(deps.RateLimiter.AuthMiddleware())

		r.Post("/profile", profileHandler.Create)
		r.Post("/login", authHandler.Login)
	})

	// --- 認証が必要なルート ---
	// ミドルウェアスタック: TokenAuth → RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewTokenAuthMiddleware(deps.Authenticator))
		r.Use(deps.RateLimiter.GeneralMiddleware())

		r.Post("/logout", authHandler.Logout)

		r.Get("/profile", profileHandler.List)
		r.Route("/profile/{id}", func(r chi.Router) {
			r.Get("/", profileHandler.Get)
			r.Put("/", profileHandler.Update)
			r.Patch("/", profileHandler.PartialUpdate)
			r.Delete("/", profileHandler.Delete)
		})

		r.Get("/feed", feedHandler.List)
		r.Post("/feed", feedHandler.Create)
		r.Route("/feed/{id}", func(r chi.Router) {
			r.Get("/", feedHandler.Get)
			r.Delete("/", feedHandler.Delete)
		})
	})

	return r
}
