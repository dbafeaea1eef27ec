// Package di provides dependency injection factories for creating application components.
package di

import (
	"log/slog"

	shopusecase "myshop_backend/internal/feature/shop/usecase"
	"myshop_backend/internal/platform/externalapi/cfimages"
	infrahttp "myshop_backend/internal/platform/http"
)

// NewImageUploader creates the image service client with its own HTTP client.
// It returns nil when uploads are not configured; the shop usecase then
// answers upload requests with a configuration error.
func NewImageUploader(cfg cfimages.Config) shopusecase.ImageUploader {
	if !cfg.UploadsConfigured() {
		slog.Warn("image uploads disabled: IMAGES_ACCOUNT_ID or IMAGES_API_TOKEN missing")
		return nil
	}
	httpClient := infrahttp.NewHTTPClient(cfg.Timeout)
	return cfimages.NewClient(cfg, httpClient)
}
