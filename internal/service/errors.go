// Package service provides the journal's business logic: identity resolution,
// the stage lifecycle, daily entries, the product catalog and weight statistics.
// Persistence is delegated to repository interfaces.
package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/atinyakov/DietJournal/internal/models"
)

// Error kinds. Every error returned by this package wraps exactly one of them.
var (
	// ErrValidation marks a missing, empty or malformed input.
	ErrValidation = errors.New("validation error")
	// ErrConflict marks an operation that would break a uniqueness rule,
	// such as opening a second stage.
	ErrConflict = errors.New("conflict")
	// ErrNotFound marks an unknown user, stage or entry.
	ErrNotFound = errors.New("not found")
	// ErrInternal marks a storage or encoding failure.
	ErrInternal = errors.New("internal error")
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func internal(err error) error {
	return fmt.Errorf("%w: %w", ErrInternal, err)
}

func requireID(name string, id int64) error {
	if id <= 0 {
		return invalid("%s is required", name)
	}
	return nil
}

func requireDate(name, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", invalid("%s is required", name)
	}
	if _, err := time.Parse(models.DateLayout, value); err != nil {
		return "", invalid("%s must be YYYY-MM-DD, got %q", name, value)
	}
	return value, nil
}
