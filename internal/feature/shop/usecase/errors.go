// Package usecase implements the business logic for the shop feature.
package usecase

import (
	"myshop_backend/internal/shared/apperr"
	"myshop_backend/internal/shared/validation"
)

var (
	// ErrShopNotFound is returned when no shop has the requested id.
	ErrShopNotFound = apperr.New(apperr.KindNotFound, "Shop not found")

	// ErrImageIDRequired is returned when a set-image request has no image id.
	ErrImageIDRequired = &validation.ValidationError{Field: "imageId", Message: "imageId is required"}

	// ErrInvalidImageKind is returned for an image slot other than profile or cover.
	ErrInvalidImageKind = &validation.ValidationError{Field: "kind", Message: "Image kind must be profile or cover."}
)
