package inventory

import (
	"errors"

	"up2you.app/storefront/pkg/storage"
)

// ErrNotFound is returned when the referenced item is absent so HTTP handlers can respond with 404.
var ErrNotFound = storage.ErrNotFound

// ValidationError rejects bad input. It is recoverable by resubmitting.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
