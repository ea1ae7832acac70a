package service

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidTarget    = errors.New("target must be an absolute http or https URL")
	ErrInvalidCode      = errors.New("code must be 6-8 characters from [A-Za-z0-9]")
	ErrCodeConflict     = errors.New("code already exists")
	ErrNotFound         = errors.New("link not found")
	ErrStoreUnavailable = errors.New("link store unavailable")
)

// storeError keeps both the taxonomy and the underlying cause in the chain.
func storeError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStoreUnavailable, op, err)
}
