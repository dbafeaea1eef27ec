// Package dto はshopフィーチャーのHTTPトランスポート層のデータ転送オブジェクトを定義します。
package dto

import "myshop_backend/internal/feature/shop/domain/entity"

// CreateShopResponse is returned by POST /api/shops.
type CreateShopResponse struct {
	ID     string            `json:"id"`
	Shop   *entity.Shop      `json:"shop"`
	Public entity.PublicShop `json:"public"`
}

// ListShopsResponse is returned by GET /api/shops.
type ListShopsResponse struct {
	Shops []entity.Summary `json:"shops"`
}

// SetImageRequest is the body of PUT /api/shops/:id/images/:kind.
type SetImageRequest struct {
	ImageID any `json:"imageId"`
}

// ImageIDString returns imageId when it is a string, "" otherwise.
func (r SetImageRequest) ImageIDString() string {
	s, _ := r.ImageID.(string)
	return s
}
