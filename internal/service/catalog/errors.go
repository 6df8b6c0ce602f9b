package catalog

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when the referenced book id is not in the store.
	ErrNotFound = errors.New("book not found")
	// ErrInvalidInput is matched by every ValidationError.
	ErrInvalidInput = errors.New("invalid book input")
	// ErrStoreVerification is returned when a freshly inserted book cannot be read back.
	ErrStoreVerification = errors.New("inserted book not retrievable")
)

// Op identifies the write operation a validation failure belongs to.
type Op string

const (
	OpCreate Op = "add"
	OpUpdate Op = "update"
)

// ValidationError reports the first rejected field of a create or update payload.
type ValidationError struct {
	Op     Op
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("failed to %s book: %s", e.Op, e.Reason)
}

// Is lets errors.Is(err, ErrInvalidInput) match any ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}
