// Package common defines shared sentinel errors and error kinds used across
// the machinecal packages. Callers should use errors.Is / errors.As to match
// these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Store-level errors.
	ErrNotFound = errors.New("not found")

	// Import/export and bulk operations.
	ErrNothingToExport = errors.New("no data to export")
	ErrNothingToDelete = errors.New("no data to delete")

	// ErrCancelled is returned when the user declines a destructive confirmation.
	ErrCancelled = errors.New("cancelled by user")
)

// ValidationError reports a field that failed a presence or enumeration check.
// It blocks the operation and leaves state unchanged.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError is a shorthand for &ValidationError{Field: field, Message: msg}.
func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Field: field, Message: msg}
}

// ImportFormatError reports an import file that could not be accepted:
// wrong extension, unparsable content, non-array JSON or invalid elements.
type ImportFormatError struct {
	Reason string
	Err    error
}

func (e *ImportFormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("import: %s: %v", e.Reason, e.Err)
	}
	return "import: " + e.Reason
}

func (e *ImportFormatError) Unwrap() error { return e.Err }

// StorageError reports a failure of the persistent store. It is non-fatal:
// the in-memory collection stays authoritative for the running process.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
