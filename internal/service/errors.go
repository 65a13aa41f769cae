package service

import (
	"errors"
	"fmt"

	"github.com/nathantheresa/portfolio/internal/api/dto/common"
)

// Sentinel errors for service layer
var (
	ErrValidation    = errors.New("validation error")
	ErrConflict      = errors.New("conflict error")
	ErrNotFound      = errors.New("not found")
	ErrNotConfigured = errors.New("not configured")
)

// FieldErrors carries per-field validation issues and matches ErrValidation
type FieldErrors struct {
	Issues []common.ValidationError
}

func (e *FieldErrors) Error() string {
	return fmt.Sprintf("%d invalid field(s)", len(e.Issues))
}

func (e *FieldErrors) Unwrap() error {
	return ErrValidation
}
