// Package router はGinエンジンを組み立て、全ルートを登録します。
package router

import (
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	authhandler "myshop_backend/internal/feature/auth/transport/handler"
	shophandler "myshop_backend/internal/feature/shop/transport/handler"
	"myshop_backend/internal/platform/http/handler"
	"myshop_backend/internal/platform/http/middleware"
	"myshop_backend/internal/platform/http/response"
	jwtmw "myshop_backend/internal/platform/jwt"
	"myshop_backend/internal/platform/metrics"
)

// Deps is everything the router needs.
type Deps struct {
	Logger         *slog.Logger
	Auth           *authhandler.AuthHandler
	Shops          *shophandler.ShopHandler
	Codec          *jwtmw.Codec
	Metrics        *metrics.Metrics
	Health         map[string]handler.Check
	AllowedOrigins []string
	// PublicRPS is the per-IP rate of the public read. 0 disables throttling.
	PublicRPS float64
}

// NewRouter builds the engine.
func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestLogger(d.Logger), gin.Recovery())
	r.Use(newCORS(d.AllowedOrigins))
	r.Use(middleware.SecurityHeaders())
	if d.Metrics != nil {
		r.Use(d.Metrics.Middleware())
	}

	// 認証不要
	// 導通確認用
	r.GET("/healthz", handler.Health(d.Health))
	r.HEAD("/healthz", handler.Health(d.Health))
	if d.Metrics != nil {
		r.GET("/metrics", d.Metrics.Handler())
	}
	// ログイン（セッションCookie発行）
	r.POST("/api/auth/login", d.Auth.Login)
	r.POST("/api/auth/logout", d.Auth.Logout)
	// 初回セットアップ
	r.POST("/api/seed", d.Auth.Seed)
	// ランディングサイト向けの公開API
	r.GET("/public/shops/:id", middleware.Throttle(d.PublicRPS, publicBurst(d.PublicRPS)), d.Shops.GetPublic)

	// 認証必須のルート
	// → セッションCookieに有効なトークンが必要になる
	authed := r.Group("/api")
	authed.Use(jwtmw.AuthRequired(d.Codec))
	{
		authed.GET("/me", d.Auth.Me)

		authed.GET("/shops", d.Shops.List)
		authed.POST("/shops", d.Shops.Create)
		authed.GET("/shops/:id", d.Shops.Get)
		authed.PUT("/shops/:id", d.Shops.Update)
		authed.POST("/shops/:id/images/:kind", d.Shops.CreateImageUpload)
		authed.PUT("/shops/:id/images/:kind", d.Shops.SetImage)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, response.ErrorBody{Error: "Not Found"})
	})

	return r
}

// newCORS allows only the configured origins, with credentials.
func newCORS(origins []string) gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool {
			return slices.Contains(origins, origin)
		},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           24 * time.Hour,
	})
}

func publicBurst(rps float64) int {
	b := int(rps * 2)
	if b < 1 {
		return 1
	}
	return b
}
