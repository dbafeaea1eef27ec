// Package validation normalizes and rejects request payloads for the login and
// shop endpoints. Every function is pure: it takes the decoded JSON value
// (map[string]any, string, float64, nil, ...) and returns a typed value or a
// *ValidationError naming the offending field.
package validation

import (
	"errors"

	"myshop_backend/internal/shared/apperr"
)

// ValidationError reports a caller mistake in a single input field.
type ValidationError struct {
	// Field is the JSON key the message refers to. Empty for whole-body errors.
	Field   string
	Message string
}

// Error returns the human readable message.
func (e *ValidationError) Error() string {
	return e.Message
}

// Kind classifies the error for the HTTP layer.
func (e *ValidationError) Kind() apperr.Kind {
	return apperr.KindValidation
}

func fail(field, msg string) *ValidationError {
	return &ValidationError{Field: field, Message: msg}
}

// FieldOf returns the field name carried by err, or "" when err is not a
// validation error.
func FieldOf(err error) string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Field
	}
	return ""
}
