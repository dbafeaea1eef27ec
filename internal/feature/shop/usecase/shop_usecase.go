package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"myshop_backend/internal/feature/shop/domain/entity"
	"myshop_backend/internal/feature/shop/mapper"
	"myshop_backend/internal/platform/externalapi/cfimages"
	"myshop_backend/internal/shared/apperr"
	"myshop_backend/internal/shared/validation"
)

// ShopRepository はショップエンティティの永続化層を抽象化します。
// インターフェースはコンシューマー（usecase）が定義します。
type ShopRepository interface {
	Create(ctx context.Context, s *entity.Shop) error
	// FindByID returns ErrShopNotFound when the id is unknown.
	FindByID(ctx context.Context, id string) (*entity.Shop, error)
	List(ctx context.Context) ([]entity.Summary, error)
	// Modify runs fn on the locked row and persists the result atomically.
	Modify(ctx context.Context, id string, fn func(*entity.Shop) error) (*entity.Shop, error)
}

// ImageUploader requests direct upload slots from the image service.
type ImageUploader interface {
	CreateDirectUpload(ctx context.Context, metadata map[string]string) (cfimages.Upload, error)
}

// CreateResult is returned by Create.
type CreateResult struct {
	Shop   *entity.Shop
	Public entity.PublicShop
}

// ImageUpload is a direct upload slot for one shop image.
type ImageUpload struct {
	ImageID   string `json:"imageId"`
	UploadURL string `json:"uploadURL"`
}

type shopUsecase struct {
	shops    ShopRepository
	uploader ImageUploader
	delivery cfimages.Delivery
	now      func() time.Time
}

// NewShopUsecase wires the shop operations. uploader may be nil when image
// uploads are not configured.
func NewShopUsecase(shops ShopRepository, uploader ImageUploader, delivery cfimages.Delivery) *shopUsecase {
	return &shopUsecase{shops: shops, uploader: uploader, delivery: delivery, now: time.Now}
}

// NewShopID returns a 12 hex character id.
func NewShopID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

// Create validates body and stores a new shop.
func (u *shopUsecase) Create(ctx context.Context, body any) (*CreateResult, error) {
	in, err := validation.ValidateShopCreate(body)
	if err != nil {
		return nil, err
	}

	s := mapper.NewShop(NewShopID(), in, u.now().Unix())
	if err := u.shops.Create(ctx, s); err != nil {
		return nil, fmt.Errorf("create shop: %w", err)
	}
	return &CreateResult{Shop: s, Public: mapper.ToPublicShop(*s, u.delivery)}, nil
}

// Get returns the full shop for admins.
func (u *shopUsecase) Get(ctx context.Context, rawID string) (*entity.Shop, error) {
	id, err := validation.ValidateShopID(rawID)
	if err != nil {
		return nil, err
	}
	return u.shops.FindByID(ctx, id)
}

// GetPublic returns the public projection, computed from the current row.
func (u *shopUsecase) GetPublic(ctx context.Context, rawID string) (*entity.PublicShop, error) {
	s, err := u.Get(ctx, rawID)
	if err != nil {
		return nil, err
	}
	pub := mapper.ToPublicShop(*s, u.delivery)
	return &pub, nil
}

// List returns all shops, most recently updated first.
func (u *shopUsecase) List(ctx context.Context) ([]entity.Summary, error) {
	return u.shops.List(ctx)
}

// Update merges the keys present in body into the stored shop. updated_at is
// refreshed even when body is empty.
func (u *shopUsecase) Update(ctx context.Context, rawID string, body any) (*entity.Shop, error) {
	id, err := validation.ValidateShopID(rawID)
	if err != nil {
		return nil, err
	}
	in, err := validation.ValidateShopUpdate(body)
	if err != nil {
		return nil, err
	}

	return u.shops.Modify(ctx, id, func(s *entity.Shop) error {
		mapper.ApplyUpdate(s, in, u.now().Unix())
		return nil
	})
}

// CreateImageUpload asks the image service for an upload slot for kind.
func (u *shopUsecase) CreateImageUpload(ctx context.Context, rawID string, kind entity.ImageKind) (*ImageUpload, error) {
	id, err := validation.ValidateShopID(rawID)
	if err != nil {
		return nil, err
	}
	if !kind.Valid() {
		return nil, ErrInvalidImageKind
	}
	if _, err := u.shops.FindByID(ctx, id); err != nil {
		return nil, err
	}
	if u.uploader == nil {
		return nil, cfimages.ErrNotConfigured
	}

	up, err := u.uploader.CreateDirectUpload(ctx, map[string]string{"shopId": id, "type": string(kind)})
	if err != nil {
		if apperr.KindOf(err) == apperr.KindConfiguration {
			return nil, err
		}
		slog.Error("image service failed", "shop_id", id, "kind", kind, "error", err)
		return nil, apperr.Wrap(apperr.KindUpstream, "Image service unavailable", err)
	}
	return &ImageUpload{ImageID: up.ImageID, UploadURL: up.UploadURL}, nil
}

// SetImage stores imageID in the kind slot once the client upload finished.
func (u *shopUsecase) SetImage(ctx context.Context, rawID string, kind entity.ImageKind, imageID string) (*entity.Shop, error) {
	id, err := validation.ValidateShopID(rawID)
	if err != nil {
		return nil, err
	}
	if !kind.Valid() {
		return nil, ErrInvalidImageKind
	}
	imageID = strings.TrimSpace(imageID)
	if imageID == "" {
		return nil, ErrImageIDRequired
	}

	return u.shops.Modify(ctx, id, func(s *entity.Shop) error {
		mapper.SetImage(s, kind, imageID, u.now().Unix())
		return nil
	})
}
