package service

import "errors"

// Validation failures are always caller-correctable and never retried.
var (
	ErrInvalidKind     = errors.New("invalid resource kind")
	ErrInvalidInterval = errors.New("invalid interval")
	ErrEmptyPurpose    = errors.New("purpose is required")
	ErrMissingField    = errors.New("missing required field")
)

// IsValidation reports whether err belongs to the validation taxonomy.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidKind) ||
		errors.Is(err, ErrInvalidInterval) ||
		errors.Is(err, ErrEmptyPurpose) ||
		errors.Is(err, ErrMissingField)
}
