// Package usecase implements the business logic for the auth feature.
package usecase

import (
	"myshop_backend/internal/shared/apperr"
	"myshop_backend/internal/shared/validation"
)

var (
	// ErrUserNotFound is returned when a user cannot be found by email.
	ErrUserNotFound = apperr.New(apperr.KindNotFound, "user not found")

	// ErrEmailAlreadyExists is returned when attempting to create a user with an email that already exists.
	ErrEmailAlreadyExists = apperr.New(apperr.KindConflict, "email already exists")

	// ErrInvalidCredentials covers both an unknown email and a wrong password.
	ErrInvalidCredentials = apperr.New(apperr.KindAuthentication, "Invalid email or password")

	// ErrAlreadySeeded is returned by the bootstrap once any user exists.
	ErrAlreadySeeded = apperr.New(apperr.KindConflict, "Already seeded. Use admin login.")

	// ErrSeedNotConfigured is returned when no seed secret is configured.
	ErrSeedNotConfigured = apperr.New(apperr.KindConfiguration, "Seed not configured (SEED_SECRET missing).")

	// ErrInvalidSeedSecret is returned when the provided secret does not match.
	ErrInvalidSeedSecret = apperr.New(apperr.KindForbidden, "Invalid secret.")

	// ErrSeedSecretRequired is returned when the secret is missing or blank.
	ErrSeedSecretRequired = &validation.ValidationError{Field: "secret", Message: "secret is required."}
)
