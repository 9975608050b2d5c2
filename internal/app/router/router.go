package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	analysishandler "market_trends/internal/feature/analysis/transport/handler"
	authhandler "market_trends/internal/feature/auth/transport/handler"
	platformhandler "market_trends/internal/platform/http/handler"
	jwtmw "market_trends/internal/platform/jwt"
)

// Handlers はルーティングに登録するハンドラーの集合です。
type Handlers struct {
	Auth     *authhandler.AuthHandler
	Analysis *analysishandler.AnalysisHandler
	Health   *platformhandler.HealthHandler
}

// NewRouter はルート定義済みのgin.Engineを返します。
// authRequiredはJWT検証ミドルウェアです。allowedOriginsが空の場合CORSヘッダーは付与しません。
func NewRouter(h Handlers, authRequired gin.HandlerFunc, allowedOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	if len(allowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:  allowedOrigins,
			AllowMethods:  []string{"GET", "HEAD", "POST", "OPTIONS"},
			AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
			ExposeHeaders: []string{"Content-Length"},
			MaxAge:        12 * time.Hour,
		}))
	}

	// 認証不要
	// 導通確認用
	r.GET("/healthz", h.Health.Health)
	r.HEAD("/healthz", h.Health.Health)
	// 新規ユーザー登録
	r.POST("/register", h.Auth.Register)
	// ログイン（JWT 発行）
	r.POST("/login", h.Auth.Login)

	// 認証必須のルート
	auth := r.Group("/")
	auth.Use(authRequired)
	{
		auth.POST("/logout", h.Auth.Logout)
		auth.GET("/me", h.Auth.Me)
		auth.GET("/analysis/:symbol", h.Analysis.GetAnalysis)
	}

	return r
}

// NewAuthMiddleware はシークレットと失効ストアからJWT検証ミドルウェアを組み立てます。
func NewAuthMiddleware(secret string, revoked jwtmw.RevocationChecker) gin.HandlerFunc {
	return jwtmw.AuthRequired(secret, revoked)
}
