package model

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation matches every *ValidationError via errors.Is.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound matches every *NotFoundError via errors.Is.
	ErrNotFound = errors.New("not found")
)

// ValidationError reports an input or invariant violation. Category is set when
// the violation concerns a parameter category as a whole.
type ValidationError struct {
	Field    string
	Category string
	Reason   string
}

func (e *ValidationError) Error() string {
	switch {
	case e.Category != "":
		return fmt.Sprintf("validation failed for category %s: %s", e.Category, e.Reason)
	case e.Field != "":
		return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Reason)
	default:
		return "validation failed: " + e.Reason
	}
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NotFoundError reports that a referenced resource does not exist.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Resource, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}
