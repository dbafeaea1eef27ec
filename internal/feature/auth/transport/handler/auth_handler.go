// Package handler はauthフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"myshop_backend/internal/feature/auth/transport/http/dto"
	"myshop_backend/internal/feature/auth/usecase"
	"myshop_backend/internal/platform/http/response"
	jwtmw "myshop_backend/internal/platform/jwt"
	"myshop_backend/internal/platform/metrics"
	"myshop_backend/internal/shared/ratelimiter"
	"myshop_backend/internal/shared/validation"
)

const (
	msgTooManyAttempts = "Too many login attempts. Try again later."
	msgSeedBadJSON     = "Request body must be JSON: { secret, email, password }."
	msgSeeded          = "First admin user and shop created. Use the shop id as the public shop of the landing site."
)

// AuthUsecase は認証操作のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type AuthUsecase interface {
	// Login はユーザーを認証し、成功時に署名済みトークンを返します。
	Login(ctx context.Context, email, password string) (*usecase.LoginResult, error)
	// SeedEnabled はシード用シークレットが設定されているかを返します。
	SeedEnabled() bool
	// Seed は最初の管理者とサンプルショップを作成します。
	Seed(ctx context.Context, in usecase.SeedInput) (*usecase.SeedResult, error)
}

// AttemptLimiter throttles failed logins per client key.
type AttemptLimiter interface {
	Allow(ctx context.Context, clientKey string) (bool, error)
	Record(ctx context.Context, clientKey string) error
}

// LoginRecorder counts login outcomes.
type LoginRecorder interface {
	RecordLogin(result string)
}

// AuthHandler は認証操作のHTTPリクエストを処理します。
type AuthHandler struct {
	auth    AuthUsecase
	limiter AttemptLimiter
	metrics LoginRecorder
}

// NewAuthHandler はAuthHandlerの新しいインスタンスを生成します。
// 依存性注入用のコンストラクタで、外部からAuthUsecaseを注入します。
func NewAuthHandler(auth AuthUsecase, limiter AttemptLimiter, rec LoginRecorder) *AuthHandler {
	return &AuthHandler{auth: auth, limiter: limiter, metrics: rec}
}

// Login はユーザーログインAPIエンドポイントを処理します。
// - 同一クライアントの失敗回数が上限に達している場合は429を返却
// - ボディが不正な場合は400を返却（試行回数にはカウントしない）
// - 認証失敗時は試行を記録し401を返却
// - 認証成功時はセッションCookieを設定し200を返却
func (h *AuthHandler) Login(c *gin.Context) {
	ctx := c.Request.Context()
	key := ratelimiter.ClientKey(c.Request)

	allowed, err := h.limiter.Allow(ctx, key)
	if err != nil {
		// カウンターストア障害時は制限しない
		slog.Warn("login rate limit check failed", "error", err, "client", key)
		allowed = true
	}
	if !allowed {
		slog.Warn("login rate limited", "client", key, "remote_addr", c.ClientIP())
		h.metrics.RecordLogin(metrics.LoginRateLimited)
		c.JSON(http.StatusTooManyRequests, response.ErrorBody{Error: msgTooManyAttempts})
		return
	}

	var body any
	if err := c.ShouldBindJSON(&body); err != nil {
		h.metrics.RecordLogin(metrics.LoginBadRequest)
		response.BadJSON(c)
		return
	}
	in, err := validation.ValidateLogin(body)
	if err != nil {
		h.metrics.RecordLogin(metrics.LoginBadRequest)
		response.Error(c, err)
		return
	}

	res, err := h.auth.Login(ctx, in.Email, in.Password)
	if errors.Is(err, usecase.ErrInvalidCredentials) {
		if recErr := h.limiter.Record(ctx, key); recErr != nil {
			slog.Warn("failed to record login attempt", "error", recErr, "client", key)
		}
		// ユーザー列挙攻撃を防止するため、理由は公開しない
		slog.Warn("login failed", "email", in.Email, "remote_addr", c.ClientIP())
		h.metrics.RecordLogin(metrics.LoginInvalid)
		response.Error(c, err)
		return
	}
	if err != nil {
		response.Error(c, err)
		return
	}

	jwtmw.SetSessionCookie(c.Writer, res.Token)
	slog.Info("user login successful", "user_id", res.UserID, "remote_addr", c.ClientIP())
	h.metrics.RecordLogin(metrics.LoginSuccess)
	c.JSON(http.StatusOK, dto.LoginResponse{OK: true, User: dto.UserResponse{ID: res.UserID, Email: res.Email}})
}

// Logout はセッションCookieを失効させます。
func (h *AuthHandler) Logout(c *gin.Context) {
	jwtmw.ClearSessionCookie(c.Writer)
	c.JSON(http.StatusOK, dto.OKResponse{OK: true})
}

// Me returns the identity carried by the session token. It runs behind
// jwtmw.AuthRequired.
func (h *AuthHandler) Me(c *gin.Context) {
	id, ok := jwtmw.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.ErrorBody{Error: "Unauthorized"})
		return
	}
	c.JSON(http.StatusOK, dto.UserResponse{ID: id.Subject, Email: id.Email})
}

// Seed は初回セットアップAPIエンドポイントを処理します。
func (h *AuthHandler) Seed(c *gin.Context) {
	if !h.auth.SeedEnabled() {
		response.Error(c, usecase.ErrSeedNotConfigured)
		return
	}

	var req dto.SeedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorBody{Error: msgSeedBadJSON})
		return
	}

	res, err := h.auth.Seed(c.Request.Context(), usecase.SeedInput{
		Secret:   req.Secret,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidSeedSecret) {
			slog.Warn("seed rejected", "remote_addr", c.ClientIP())
		}
		response.Error(c, err)
		return
	}

	slog.Info("seed completed", "email", res.Email, "shop_id", res.ShopID)
	c.JSON(http.StatusOK, dto.SeedResponse{OK: true, Email: res.Email, ShopID: res.ShopID, Message: msgSeeded})
}
