package archive

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when an operation targets an id that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrValidation is matched by every *ValidationError.
	ErrValidation = errors.New("validation failed")

	// ErrIdentityUnresolved is logged, never returned, when the OS user or
	// host name cannot be determined.
	ErrIdentityUnresolved = errors.New("identity unresolved")
)

// StorageError wraps a failure reported by the storage backend.
// Constraint is set when the backend rejected the write because of any
// constraint; Unique narrows that to a duplicate key.
type StorageError struct {
	Op         string
	Constraint bool
	Unique     bool
	Err        error
}

func (e *StorageError) Error() string {
	if e.Constraint {
		return fmt.Sprintf("%s: constraint violation: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// IsConstraint reports whether err is a StorageError caused by a constraint.
func IsConstraint(err error) bool {
	var se *StorageError
	return errors.As(err, &se) && se.Constraint
}

// IsDuplicate reports whether err is a StorageError caused by a unique or
// primary key collision.
func IsDuplicate(err error) bool {
	var se *StorageError
	return errors.As(err, &se) && se.Unique
}

// ValidationError reports a request the domain rules refuse.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return "validation failed: " + e.Reason }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// Invalidf builds a ValidationError from a format string.
func Invalidf(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}
