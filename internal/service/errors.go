package service

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is().
var (
	// ErrValidation indicates text or author failed the length/emptiness rules.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound indicates the referenced quote does not exist.
	ErrNotFound = errors.New("quote not found")

	// ErrStorageUnavailable indicates the backing store failed or timed out.
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// ValidationError names the offending field.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
	}
	return "validation failed: " + e.Message
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func storageError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStorageUnavailable, err)
}
