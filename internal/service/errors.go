package service

import (
	"errors"
	"fmt"

	"snowpool/internal/database"
)

// ErrMissingCaller is returned by mutating operations invoked without a caller identity.
var ErrMissingCaller = errors.New("caller identity is required")

// ValidationError reports a rejected input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NotFoundError reports a referenced record that does not exist.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// notFoundOr converts a directory miss into a NotFoundError and wraps anything else.
func notFoundOr(err error, kind, id string) error {
	if errors.Is(err, database.ErrNotFound) {
		return &NotFoundError{Kind: kind, ID: id}
	}
	return fmt.Errorf("get %s %s: %w", kind, id, err)
}
