package utils

import (
	"errors"
	"fmt"
)

/*
   Sentinel errors for the service layer. Controllers do:
   if errors.Is(err, ErrXYZ) { ... }
*/
var (
	ErrNotFound  = errors.New("not_found")
	ErrForbidden = errors.New("forbidden")

	// ErrLockTimeout is returned when the per-office booking lock could not
	// be acquired within the bounded wait. Transient; the caller may retry.
	ErrLockTimeout = errors.New("lock_timeout")

	ErrNoRowsUpdated = errors.New("no_rows_updated")
)

/*
   ValidationError is a user-correctable failure scoped to a single input
   field. The controller renders it as a 422 with the field name as the key,
   so external layers keep the stable contract names (office_id, reservation,
   image, ...).
*/
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
