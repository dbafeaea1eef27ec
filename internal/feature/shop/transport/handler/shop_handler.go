// Package handler はshopフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"myshop_backend/internal/feature/shop/domain/entity"
	"myshop_backend/internal/feature/shop/transport/http/dto"
	"myshop_backend/internal/feature/shop/usecase"
	"myshop_backend/internal/platform/http/response"
	jwtmw "myshop_backend/internal/platform/jwt"
)

// ShopUsecase はショップ操作のユースケースを定義します。
// インターフェースはコンシューマー（handler）が定義します。
type ShopUsecase interface {
	Create(ctx context.Context, body any) (*usecase.CreateResult, error)
	Get(ctx context.Context, id string) (*entity.Shop, error)
	GetPublic(ctx context.Context, id string) (*entity.PublicShop, error)
	List(ctx context.Context) ([]entity.Summary, error)
	Update(ctx context.Context, id string, body any) (*entity.Shop, error)
	CreateImageUpload(ctx context.Context, id string, kind entity.ImageKind) (*usecase.ImageUpload, error)
	SetImage(ctx context.Context, id string, kind entity.ImageKind, imageID string) (*entity.Shop, error)
}

// ShopHandler handles the admin shop routes and the public read.
type ShopHandler struct {
	shops ShopUsecase
}

// NewShopHandler はShopHandlerの新しいインスタンスを生成します。
func NewShopHandler(shops ShopUsecase) *ShopHandler {
	return &ShopHandler{shops: shops}
}

// GetPublic handles GET /public/shops/:id.
func (h *ShopHandler) GetPublic(c *gin.Context) {
	pub, err := h.shops.GetPublic(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, pub)
}

// Create handles POST /api/shops.
func (h *ShopHandler) Create(c *gin.Context) {
	var body any
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadJSON(c)
		return
	}
	res, err := h.shops.Create(c.Request.Context(), body)
	if err != nil {
		response.Error(c, err)
		return
	}
	slog.Info("shop created", "shop_id", res.Shop.ID, "user_id", c.GetString(jwtmw.ContextUserID))
	c.JSON(http.StatusCreated, dto.CreateShopResponse{ID: res.Shop.ID, Shop: res.Shop, Public: res.Public})
}

// Get handles GET /api/shops/:id.
func (h *ShopHandler) Get(c *gin.Context) {
	s, err := h.shops.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

// List handles GET /api/shops.
func (h *ShopHandler) List(c *gin.Context) {
	shops, err := h.shops.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ListShopsResponse{Shops: shops})
}

// Update handles PUT /api/shops/:id.
func (h *ShopHandler) Update(c *gin.Context) {
	var body any
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadJSON(c)
		return
	}
	s, err := h.shops.Update(c.Request.Context(), c.Param("id"), body)
	if err != nil {
		response.Error(c, err)
		return
	}
	slog.Info("shop updated", "shop_id", s.ID, "user_id", c.GetString(jwtmw.ContextUserID))
	c.JSON(http.StatusOK, s)
}

// CreateImageUpload handles POST /api/shops/:id/images/:kind.
func (h *ShopHandler) CreateImageUpload(c *gin.Context) {
	up, err := h.shops.CreateImageUpload(c.Request.Context(), c.Param("id"), entity.ImageKind(c.Param("kind")))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, up)
}

// SetImage handles PUT /api/shops/:id/images/:kind.
func (h *ShopHandler) SetImage(c *gin.Context) {
	var req dto.SetImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadJSON(c)
		return
	}
	kind := entity.ImageKind(c.Param("kind"))
	s, err := h.shops.SetImage(c.Request.Context(), c.Param("id"), kind, req.ImageIDString())
	if err != nil {
		response.Error(c, err)
		return
	}
	slog.Info("shop image set", "shop_id", s.ID, "kind", kind, "user_id", c.GetString(jwtmw.ContextUserID))
	c.JSON(http.StatusOK, s)
}
